package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plexflix/plexflix/internal/tmdb"
)

// Body is the JSON error envelope returned by every failing endpoint.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Map converts infra errors into an HTTP status plus a user-facing message.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var catalogErr *tmdb.Error
	switch {
	case errors.As(err, &catalogErr):
		// remote catalog trouble is not our server's fault
		return http.StatusBadGateway, catalogErr.Message

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request was canceled"

	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// JSON writes the standard error envelope.
func JSON(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Error: http.StatusText(status), Message: message})
}

// FromError maps err and writes the envelope in one step.
func FromError(c *gin.Context, err error) {
	status, message := Map(err)
	JSON(c, status, message)
}
