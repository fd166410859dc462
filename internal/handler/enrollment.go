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

// EnrollmentHandler serves registration for a course and payment for it.
type EnrollmentHandler struct {
    base
    Enrollments *service.EnrollmentService
}

func NewEnrollmentHandler(enrollments *service.EnrollmentService, log *zap.Logger) *EnrollmentHandler {
    return &EnrollmentHandler{base: newBase(log), Enrollments: enrollments}
}

type statusReq struct {
    Status string `json:"status"`
}

func (r statusReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.Status, validation.Required, validation.In(
            string(model.StatusNew), string(model.StatusWaitingForPayment), string(model.StatusPaid))),
    )
}

// Register handles POST /courses/:id/register for the caller.
func (h *EnrollmentHandler) Register(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    courseID, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    e, err := h.Enrollments.RegisterUser(ctx, uid, courseID)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusCreated, e)
}

// Pay handles POST /courses/:id/pay for the caller.
func (h *EnrollmentHandler) Pay(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    courseID, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    res, err := h.Enrollments.Pay(ctx, uid, courseID)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Get handles GET /courses/:id/enrollment for the caller.
func (h *EnrollmentHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    courseID, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    e, err := h.Enrollments.Get(ctx, uid, courseID)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// Mine handles GET /me/enrollments.
func (h *EnrollmentHandler) Mine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Enrollments.ListForUser(ctx, uid)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// SetStatus handles PUT /courses/:id/enrollments/:user_id/status (ADMIN).
func (h *EnrollmentHandler) SetStatus(c echo.Context) error {
    courseID, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    userID, err := pathID(c, "user_id")
    if err != nil {
        return h.fail(c, err)
    }
    var req statusReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    status := model.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
    e, err := h.Enrollments.SetStatus(ctx, userID, courseID, status)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, e)
}
