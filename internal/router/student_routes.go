package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/handler"
)

// RegisterEnrollment registers the enrollment and payment flow.  Every
// route acts on the authenticated caller; only the status override is
// admin-only.
func RegisterEnrollment(e *echo.Echo, h *handler.EnrollmentHandler, p *handler.PaymentHandler, g Guards) {
    e.POST("/courses/:id/register", h.Register, g.Authn)
    e.POST("/courses/:id/pay", h.Pay, g.Authn)
    e.GET("/courses/:id/enrollment", h.Get, g.Authn)
    e.GET("/me/enrollments", h.Mine, g.Authn)
    e.PUT("/courses/:id/enrollments/:user_id/status", h.SetStatus, g.Admin...)

    e.GET("/payments", p.List, g.Authn)
    e.GET("/payments/:id", p.Get, g.Authn)
}
