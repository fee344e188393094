package logger

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// AccessMiddleware records one event per request: method, path, status,
// response bytes, duration and remote address. Request bodies are never read
// here.
func AccessMiddleware(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			res := c.Response()
			l.Debug("http_access",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", res.Status,
				"bytes", res.Size,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)
			return nil
		}
	}
}
