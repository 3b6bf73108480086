package middleware

import (
	"errors"
	"net/http"
	"strings"

	"tgbridge/internal/service"
	"tgbridge/internal/utils"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the bearer token and attaches a live platform
// connection to the request context, rehydrating one from the token's session
// blob when no cached handle exists.
type AuthMiddleware struct {
	Tokens *utils.TokenManager
	Auth   *service.AuthService
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Tokens == nil || m.Auth == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access token is required")
		}
		claims, err := m.Tokens.Parse(token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		conn, err := m.Auth.Recover(c.Request().Context(), claims)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "telegram unavailable")
		}
		SetAuthContext(c, claims, conn)
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
