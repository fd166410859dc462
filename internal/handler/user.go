package handler

import (
    "net/http"
    "strings"

    validation "github.com/go-ozzo/ozzo-validation"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/service"
)

// UserHandler serves account administration and the caller's own profile.
type UserHandler struct {
    base
    Users *service.UserService
}

func NewUserHandler(users *service.UserService, log *zap.Logger) *UserHandler {
    return &UserHandler{base: newBase(log), Users: users}
}

type profileReq struct {
    FirstName string  `json:"first_name"`
    LastName  string  `json:"last_name"`
    Bio       *string `json:"bio"`
}

func (r profileReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
        validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
        validation.Field(&r.Bio, validation.Length(0, 2000)),
    )
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Users.List(ctx)
    if err != nil {
        return h.fail(c, err)
    }
    out := make([]model.UserView, 0, len(users))
    for _, u := range users {
        out = append(out, u.View())
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Get(ctx, id)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, u.View())
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    var req profileReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.UpdateProfile(ctx, uid, model.Profile{
        FirstName: strings.TrimSpace(req.FirstName),
        LastName:  strings.TrimSpace(req.LastName),
        Bio:       req.Bio,
    })
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, u.View())
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Users.Delete(ctx, id); err != nil {
        return h.fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
