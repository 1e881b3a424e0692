package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower admits or rejects one request for a key.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the caller identified by keyFn
// exceeds its rate.
func RateLimit(limiter Allower, keyFn func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter.Allow(keyFn(c)) {
				return next(c)
			}
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": http.StatusText(http.StatusTooManyRequests),
				"data":    "request rate exceeded, slow down",
			})
		}
	}
}
