package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zenith-forums/internal/models"
	"zenith-forums/internal/moderation"
)

type ModerationHandler struct {
	moderator moderation.Moderator
	logger    *zap.Logger
}

func NewModerationHandler(moderator moderation.Moderator, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{moderator: moderator, logger: logger}
}

// Moderate godoc
// @Summary Check a post against community guidelines
// @Tags moderation
// @Accept json
// @Produce json
// @Param body body models.ModerationInput true "Post and guidelines"
// @Success 200 {object} models.ModerationResult
// @Failure 400 {object} models.HTTPError
// @Failure 503 {object} models.HTTPError
// @Router /api/moderate [post]
func (h *ModerationHandler) Moderate(c echo.Context) error {
	var input models.ModerationInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	result, err := h.moderator.Moderate(ctx, input)
	if err != nil {
		h.logger.Warn("Moderation request failed", zap.Error(err))
		return apiError(err)
	}
	return c.JSON(http.StatusOK, result)
}
