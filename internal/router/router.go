package router // route tables for the coursehub API

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/handler"
    "github.com/iliyamo/coursehub/internal/middleware"
    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/utils"
)

// Guards bundles the middleware chains routes are mounted with.
type Guards struct {
    Authn     echo.MiddlewareFunc // valid access token
    Admin     []echo.MiddlewareFunc
    RateLimit echo.MiddlewareFunc // credential endpoints
}

// NewGuards builds the chains from the token issuer and the rate limiter.
// A nil limiter disables rate limiting.
func NewGuards(issuer *utils.TokenIssuer, limiter echo.MiddlewareFunc) Guards {
    authn := middleware.JWTAuth(issuer)
    if limiter == nil {
        limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return Guards{
        Authn:     authn,
        Admin:     []echo.MiddlewareFunc{authn, middleware.RequireRole(model.RoleAdmin)},
        RateLimit: limiter,
    }
}

// RegisterRoutes registers the unauthenticated operational endpoints.
// metrics may be nil.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metrics http.Handler) {
    e.GET("/healthz", handler.Health(db))
    if metrics != nil {
        e.GET("/metrics", echo.WrapHandler(metrics))
    }
}

// RegisterAuth registers /auth.  Register, login and refresh hand out
// tokens and sit behind the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
    auth := e.Group("/auth")
    auth.POST("/register", a.Register, g.RateLimit)
    auth.POST("/login", a.Login, g.RateLimit)
    auth.POST("/refresh", a.Refresh, g.RateLimit)
    auth.POST("/logout", a.Logout)
    auth.GET("/check", a.Check)
    auth.GET("/me", a.Me, g.Authn)
}

// RegisterCatalog registers courses and lessons: public reads, admin writes.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, g Guards) {
    e.GET("/courses", h.ListCourses)
    e.GET("/courses/:id", h.GetCourse)
    e.GET("/courses/:id/lessons", h.ListLessons)
    e.GET("/lessons/:id", h.GetLesson)

    e.POST("/courses", h.CreateCourse, g.Admin...)
    e.PUT("/courses/:id", h.UpdateCourse, g.Admin...)
    e.DELETE("/courses/:id", h.DeleteCourse, g.Admin...)
    e.POST("/lessons", h.CreateLesson, g.Admin...)
    e.PUT("/lessons/:id", h.UpdateLesson, g.Admin...)
    e.DELETE("/lessons/:id", h.DeleteLesson, g.Admin...)
}
