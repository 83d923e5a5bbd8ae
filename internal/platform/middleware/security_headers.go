package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the optional parts of SecurityHeaders.
type SecurityConfig struct {
	// HSTS adds Strict-Transport-Security. Leave it off when the server is
	// reached over plain HTTP, as in local development.
	HSTS bool
}

const hstsValue = "max-age=31536000; includeSubDomains"

// apiHeaders apply to every response. The API serves JSON and workbook
// downloads only, so nothing may be framed, sniffed or cached.
var apiHeaders = []struct{ name, value string }{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
}

// SecurityHeaders sets apiHeaders on the response before the handler runs,
// so error responses carry them too.
func SecurityHeaders(cfg SecurityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range apiHeaders {
				h.Set(kv.name, kv.value)
			}
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			return next(c)
		}
	}
}
