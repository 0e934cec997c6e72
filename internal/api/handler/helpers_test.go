package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/middleware"
	"github.com/wilsy/service-tracker/internal/core/domain"
)

// newJSONContext builds an echo.Context for a JSON request with the validator
// registered. claims may be nil for unauthenticated routes.
func newJSONContext(method, target, body string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, claims)
	}
	return c, rec
}

func actor(id string, role domain.Role) *domain.Claims {
	return &domain.Claims{UserID: id, Role: role}
}
