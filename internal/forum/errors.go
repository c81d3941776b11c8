package forum

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"zenith-forums/internal/client"
)

var (
	// ErrNotFound means the backend answered but the primary resource is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable covers missing configuration and transport failures.
	ErrUnavailable = errors.New("forum service unavailable")
	// ErrWriteRejected means the backend refused a write.
	ErrWriteRejected = errors.New("the forum rejected the request, please try again")
	ErrNoSession     = errors.New("you must be signed in to do that")
	ErrInvalidInput  = errors.New("invalid input")
)

// readError maps a client failure on a read to the service taxonomy.
func readError(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case client.IsStatus(err, http.StatusNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
}

// writeError maps a client failure on a write to the service taxonomy.
func writeError(op string, err error) error {
	var se *client.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Errorf("%s: %w (status %d)", op, ErrWriteRejected, se.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
