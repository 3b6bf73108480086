package middleware

import (
	"tgbridge/internal/service"
	"tgbridge/internal/utils"

	"github.com/labstack/echo/v4"
)

const (
	contextClaimsKey = "auth_session_claims"
	contextConnKey   = "auth_platform_conn"
)

func SetAuthContext(c echo.Context, claims *utils.SessionClaims, conn service.PlatformConn) {
	c.Set(contextClaimsKey, claims)
	c.Set(contextConnKey, conn)
}

func ClaimsFromContext(c echo.Context) (*utils.SessionClaims, bool) {
	claims, ok := c.Get(contextClaimsKey).(*utils.SessionClaims)
	return claims, ok && claims != nil
}

func ConnFromContext(c echo.Context) (service.PlatformConn, bool) {
	conn, ok := c.Get(contextConnKey).(service.PlatformConn)
	return conn, ok && conn != nil
}
