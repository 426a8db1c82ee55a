package httpserver

import (
	"errors"
	"net/http"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/service/session"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable,omitempty"`
}

// statusFor maps a service error onto an HTTP status and whether a client may
// retry the same request.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, false
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, false
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, false
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, true
	case errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized, false
	default:
		return http.StatusInternalServerError, false
	}
}

func writeError(c *gin.Context, err error) {
	status, retryable := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, errorResponse{StatusCode: status, Message: msg, Retryable: retryable})
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{StatusCode: status, Message: msg})
}
