package handler // HTTP handlers for the coursehub REST API

import (
    "context"
    "errors"
    "strconv"
    "time"

    validation "github.com/go-ozzo/ozzo-validation"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/apperr"
    "github.com/iliyamo/coursehub/internal/middleware"
)

// storageTimeout bounds every storage round trip made on behalf of a request.
const storageTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), storageTimeout)
}

// base carries what every handler needs to report failures.
type base struct {
    log *zap.Logger
}

func newBase(log *zap.Logger) base {
    if log == nil {
        log = zap.NewNop()
    }
    return base{log: log}
}

// fail writes err as {"error": msg} with the status of its kind.  Unknown
// errors are logged with their cause and reported opaquely.
func (b base) fail(c echo.Context, err error) error {
    kind := apperr.KindOf(err)
    if kind == apperr.Unknown {
        b.log.Error("request failed",
            zap.String("method", c.Request().Method),
            zap.String("route", c.Path()),
            zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
            zap.Error(err))
    }
    return c.JSON(kind.Status(), echo.Map{"error": apperr.PublicMessage(err)})
}

// bind decodes the body into dst and runs its validation rules.  Both
// failures are reported as Validation.
func bind(c echo.Context, dst validation.Validatable) error {
    if err := c.Bind(dst); err != nil {
        return apperr.E(apperr.Validation, "invalid request body")
    }
    if err := dst.Validate(); err != nil {
        var verrs validation.Errors
        if errors.As(err, &verrs) {
            return apperr.E(apperr.Validation, verrs.Error())
        }
        return apperr.E(apperr.Validation, err.Error())
    }
    return nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, apperr.E(apperr.Validation, "invalid "+name)
    }
    return id, nil
}

// getUserID returns the authenticated caller or an Unauthorized error.
func getUserID(c echo.Context) (uint64, error) {
    id, ok := middleware.UserID(c)
    if !ok {
        return 0, apperr.E(apperr.Unauthorized, "unauthorized")
    }
    return id, nil
}
