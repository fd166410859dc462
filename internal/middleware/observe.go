package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/metrics"
)

// RequestID tags every request with a uuid in X-Request-ID, keeping one
// supplied by the client.
func RequestID() echo.MiddlewareFunc {
    return echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString})
}

// statusOf picks the status the client will see, including errors that
// Echo's HTTPErrorHandler has not written yet.
func statusOf(c echo.Context, err error) int {
    status := c.Response().Status
    if err != nil {
        if he, ok := err.(*echo.HTTPError); ok {
            status = he.Code
        } else if !c.Response().Committed {
            status = 500
        }
    }
    return status
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            status := statusOf(c, err)

            fields := []zap.Field{
                zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
                zap.String("method", c.Request().Method),
                zap.String("route", c.Path()),
                zap.Int("status", status),
                zap.Duration("latency", time.Since(start)),
                zap.String("ip", c.RealIP()),
            }
            if id, ok := UserID(c); ok {
                fields = append(fields, zap.Uint64("user_id", id))
            }
            switch {
            case status >= 500:
                log.Error("request", append(fields, zap.Error(err))...)
            case status >= 400:
                log.Warn("request", fields...)
            default:
                log.Info("request", fields...)
            }
            return err
        }
    }
}

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            m.ObserveRequest(c.Request().Method, route, statusOf(c, err), time.Since(start))
            return err
        }
    }
}
