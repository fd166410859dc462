package handler

import (
    "net/http"
    "strings"

    validation "github.com/go-ozzo/ozzo-validation"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/model"
)

type lessonReq struct {
    CourseID uint64 `json:"course_id"`
    Title    string `json:"title"`
    Content  string `json:"content"`
    Position int    `json:"position"`
}

func (r lessonReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
        validation.Field(&r.Position, validation.Min(0)),
    )
}

// newLessonReq is lessonReq for POST, where the owning course is required.
type newLessonReq lessonReq

func (r newLessonReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.CourseID, validation.Required),
        validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
        validation.Field(&r.Position, validation.Min(0)),
    )
}

// ListLessons handles GET /courses/:id/lessons.
func (h *CatalogHandler) ListLessons(c echo.Context) error {
    courseID, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    out, err := h.Catalog.ListLessons(ctx, courseID)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// GetLesson handles GET /lessons/:id.
func (h *CatalogHandler) GetLesson(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    l, err := h.Catalog.GetLesson(ctx, id)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, l)
}

// CreateLesson handles POST /lessons.
func (h *CatalogHandler) CreateLesson(c echo.Context) error {
    var req newLessonReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    l, err := h.Catalog.CreateLesson(ctx, &model.Lesson{
        CourseID: req.CourseID,
        Title:    strings.TrimSpace(req.Title),
        Content:  req.Content,
        Position: req.Position,
    })
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusCreated, l)
}

// UpdateLesson handles PUT /lessons/:id.  A lesson cannot move between
// courses; course_id in the body is ignored.
func (h *CatalogHandler) UpdateLesson(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    var req lessonReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    l, err := h.Catalog.UpdateLesson(ctx, &model.Lesson{
        ID:       id,
        Title:    strings.TrimSpace(req.Title),
        Content:  req.Content,
        Position: req.Position,
    })
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, l)
}

// DeleteLesson handles DELETE /lessons/:id.
func (h *CatalogHandler) DeleteLesson(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return h.fail(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Catalog.DeleteLesson(ctx, id); err != nil {
        return h.fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
