package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/middleware"
	"github.com/wilsy/service-tracker/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their absence
// means the route was registered without Auth, which is reported as 401.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// bind decodes the request body and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &domain.ValidationError{Message: "invalid request body"}
	}
	return c.Validate(req)
}

// bodyKeys returns the sorted top-level keys of a JSON object body and leaves
// the body readable for bind.
func bodyKeys(c echo.Context) ([]string, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, &domain.ValidationError{Message: "invalid request body"}
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(raw))

	keys := []string{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return keys, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &domain.ValidationError{Message: "invalid request body"}
	}
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
