package http

import (
	"github.com/labstack/echo/v4"
)

// ClientKey identifies the caller for inbound throttling. Echo resolves the
// address through its IP extractor, so proxies are honoured only when the
// server is configured to trust them.
func ClientKey(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return c.Request().RemoteAddr
}
