package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/moderation"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, forum.ErrInvalidInput),
		errors.Is(err, moderation.ErrEmptyContent),
		errors.Is(err, moderation.ErrEmptyGuidelines):
		return http.StatusBadRequest
	case errors.Is(err, forum.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, forum.ErrWriteRejected):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// userMessage hides backend detail behind the taxonomy's messages.
func userMessage(err error) string {
	for _, known := range []error{
		forum.ErrNotFound,
		forum.ErrNoSession,
		forum.ErrWriteRejected,
		moderation.ErrEmptyContent,
		moderation.ErrEmptyGuidelines,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, forum.ErrInvalidInput) {
		return err.Error()
	}
	return "The forum is unavailable right now. Please try again later."
}

func apiError(err error) error {
	return echo.NewHTTPError(statusFor(err), userMessage(err))
}
