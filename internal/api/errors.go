package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates a 401 response; the stored credential has
// already been cleared by the time callers see it.
var ErrUnauthorized = errors.New("authentication required")

// Error is a non-2xx backend response carrying a human-readable message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}
