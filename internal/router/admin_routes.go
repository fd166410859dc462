package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/handler"
)

// RegisterUsers registers account administration plus the caller's own
// profile edit.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, g Guards) {
    e.PATCH("/users/me", h.UpdateMe, g.Authn)

    e.GET("/users", h.List, g.Admin...)
    e.GET("/users/:id", h.Get, g.Admin...)
    e.DELETE("/users/:id", h.Delete, g.Admin...)
}
