// internal/handler/http/category_handler.go
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"zenith-forums/internal/forum"
)

type CategoryHandler struct {
	svc forum.ForumService
}

func NewCategoryHandler(svc forum.ForumService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories godoc
// @Summary List categories
// @Description Returns the visible top-level categories sorted by position. An unreachable backend yields an empty list.
// @Tags categories
// @Produce json
// @Success 200 {object} models.ListResponse{items=[]models.Category}
// @Router /api/categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	startTime := time.Now()

	categories, err := h.svc.ListCategories(ctx)
	if err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, newListResponse(categories, len(categories), startTime))
}

// GetCategory godoc
// @Summary Get a category
// @Description Retrieves one category by slug
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.Category
// @Failure 404 {object} models.HTTPError
// @Failure 503 {object} models.HTTPError
// @Router /api/categories/{slug} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	category, err := h.svc.GetCategory(ctx, c.Param("slug"))
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// ListDiscussions godoc
// @Summary List discussions in a category
// @Description Returns discussions tagged with the category, most recently active first
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.ListResponse{items=[]models.Topic}
// @Router /api/categories/{slug}/discussions [get]
func (h *CategoryHandler) ListDiscussions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	startTime := time.Now()

	topics, err := h.svc.ListDiscussions(ctx, c.Param("slug"))
	if err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, newListResponse(topics, len(topics), startTime))
}
