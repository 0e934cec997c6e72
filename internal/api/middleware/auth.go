package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// ClaimsKey is the echo.Context key holding the verified *domain.Claims.
const ClaimsKey = "claims"

// Auth verifies the bearer token and injects its claims into context. Every
// failure (missing, malformed, expired) ends the request with 401.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return deny(domain.ErrMissingToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return deny(domain.ErrTokenMalformed)
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return deny(err)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// Claims returns the claims set by Auth, or nil when the request was not
// authenticated.
func Claims(c echo.Context) *domain.Claims {
	claims, _ := c.Get(ClaimsKey).(*domain.Claims)
	return claims
}

func deny(err error) error {
	reason := "forbidden"
	if errors.Is(err, domain.ErrUnauthenticated) {
		reason = "unauthenticated"
	}
	metrics.AccessDeniedTotal.WithLabelValues(reason).Inc()
	return err
}
