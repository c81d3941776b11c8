// internal/handler/http/search_handler.go
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"zenith-forums/internal/forum"
)

type SearchHandler struct {
	svc forum.ForumService
}

func NewSearchHandler(svc forum.ForumService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search godoc
// @Summary Search discussions
// @Description Full-text search delegated to the forum backend. A blank query returns no results.
// @Tags search
// @Produce json
// @Param q query string false "Search terms"
// @Success 200 {object} models.ListResponse{items=[]models.Topic}
// @Router /api/search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	startTime := time.Now()

	topics, err := h.svc.SearchDiscussions(ctx, c.QueryParam("q"))
	if err != nil {
		return apiError(err)
	}

	return c.JSON(http.StatusOK, newListResponse(topics, len(topics), startTime))
}
