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

// CatalogHandler serves courses and lessons.  Reads are public; writes
// are mounted behind RequireRole(ADMIN).
type CatalogHandler struct {
    base
    Catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService, log *zap.Logger) *CatalogHandler {
    return &CatalogHandler{base: newBase(log), Catalog: catalog}
}

type courseReq struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    PriceCents  int64  `json:"price_cents"`
}

func (r courseReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
        validation.Field(&r.PriceCents, validation.Min(0)),
    )
}

func (r courseReq) model() *model.Course {
    return &model.Course{
        Title:       strings.TrimSpace(r.Title),
        Description: r.Description,
        PriceCents:  r.PriceCents,
    }
}

// ListCourses handles GET /courses.
func (h *CatalogHandler) ListCourses(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Catalog.ListCourses(ctx)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// GetCourse handles GET /courses/:id.
func (h *CatalogHandler) GetCourse(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    course, err := h.Catalog.GetCourse(ctx, id)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, course)
}

// CreateCourse handles POST /courses.
func (h *CatalogHandler) CreateCourse(c echo.Context) error {
    var req courseReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    course, err := h.Catalog.CreateCourse(ctx, req.model())
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusCreated, course)
}

// UpdateCourse handles PUT /courses/:id.
func (h *CatalogHandler) UpdateCourse(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    var req courseReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    in := req.model()
    in.ID = id
    course, err := h.Catalog.UpdateCourse(ctx, in)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/:id.
func (h *CatalogHandler) DeleteCourse(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Catalog.DeleteCourse(ctx, id); err != nil {
        return h.fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
