package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/middleware"
    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/service"
)

// PaymentHandler exposes the read-only payment ledger.
type PaymentHandler struct {
    base
    Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService, log *zap.Logger) *PaymentHandler {
    return &PaymentHandler{base: newBase(log), Payments: payments}
}

// List handles GET /payments: an admin sees every payment, anyone else
// only their own.
func (h *PaymentHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    var out []*model.Payment
    if middleware.Role(c) == model.RoleAdmin {
        out, err = h.Payments.ListAll(ctx)
    } else {
        out, err = h.Payments.ListForUser(ctx, uid)
    }
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Payments.Get(ctx, id, uid, middleware.Role(c))
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, p)
}
