package client

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no forum API URL is set.
var ErrNotConfigured = errors.New("forum API URL is not configured")

// StatusError reports a non-success HTTP status from the forum backend.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("forum API returned %s for %s", e.Status, e.URL)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
