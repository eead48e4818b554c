package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one structured line per request through logger.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []any{
				slog.Int("status", v.Status),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.String("route", v.RoutePath),
				slog.String("ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
				slog.String("user_agent", v.UserAgent),
			}
			if v.RequestID != "" {
				fields = append(fields, slog.String("request_id", v.RequestID))
			}
			if uid, ok := UserID(c); ok {
				fields = append(fields, slog.Uint64("user_id", uid))
			}
			if v.Error != nil {
				fields = append(fields, slog.String("error", v.Error.Error()))
				logger.Error("request failed", fields...)
				return nil
			}
			logger.Info("request processed", fields...)
			return nil
		},
	})
}
