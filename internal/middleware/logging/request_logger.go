package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
)

// RequestLogger puts a request-scoped logger into the context and writes one
// line per request. Errors are rendered here so the logged status is final.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = res.Header().Get(echo.HeaderXRequestID)
			}
			l := base.With("method", req.Method, "url", req.URL.Path, "remote_ip", c.RealIP())
			if rid != "" {
				l = l.With("request_id", rid)
				res.Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			attrs := []slog.Attr{
				slog.String("route", c.Path()),
				slog.Int("status", res.Status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("bytes", res.Size),
			}
			if uid, ok := c.Get(authmw.CtxUserID).(string); ok && uid != "" {
				attrs = append(attrs, slog.String("user_id", uid))
			}

			lvl := slog.LevelInfo
			switch {
			case res.Status >= 500:
				lvl = slog.LevelError
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
			case res.Status >= 400:
				lvl = slog.LevelWarn
			case strings.HasPrefix(req.URL.Path, "/health/"):
				lvl = slog.LevelDebug
			}
			l.LogAttrs(req.Context(), lvl, "request completed", attrs...)
			return nil
		}
	}
}
