// internal/handler/http/user_handler.go
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"zenith-forums/internal/forum"
)

type UserHandler struct {
	svc forum.ForumService
}

func NewUserHandler(svc forum.ForumService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetUser godoc
// @Summary Get a user profile
// @Description Retrieves a user and the discussions they started
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.HTTPError
// @Failure 503 {object} models.HTTPError
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	startTime := time.Now()

	user, err := h.svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		return apiError(err)
	}

	topics, err := h.svc.ListUserDiscussions(ctx, user.LoginName())
	if err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":        user,
		"discussions": topics,
		"meta": map[string]interface{}{
			"discussion_count":   len(topics),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
	})
}

// Me godoc
// @Summary Get the signed-in user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.HTTPError
// @Router /api/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return apiError(forum.ErrNoSession)
	}
	return c.JSON(http.StatusOK, user)
}
