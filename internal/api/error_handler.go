package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Errors is
// only set for validation failures.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs every error server-side; 5xx causes never reach the client.
//   - Renders a consistent JSON envelope: {"message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)

		ev := log.Warn()
		if code >= http.StatusInternalServerError {
			ev = log.Error().Stack()
		}
		ev.Err(err).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorResponse{Message: verr.Message, Errors: verr.Fields}
	}

	// Domain error kinds → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, errorResponse{Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}
