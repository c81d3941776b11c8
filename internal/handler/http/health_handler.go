package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/moderation"
)

type HealthHandler struct {
	svc       forum.ForumService
	moderator moderation.Moderator
}

func NewHealthHandler(svc forum.ForumService, moderator moderation.Moderator) *HealthHandler {
	return &HealthHandler{svc: svc, moderator: moderator}
}

// Health godoc
// @Summary Service health
// @Description Reports whether the forum backend is configured and which moderator is active
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"backend_configured": h.svc.Configured(),
		"moderation":         h.moderator.Name(),
	})
}
