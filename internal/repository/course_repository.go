package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coursehub/internal/model"
)

// CourseRepo encapsulates all database queries related to courses.
type CourseRepo struct {
	db *sql.DB
}

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

// DB exposes the pool for callers that need to share a transaction.
func (r *CourseRepo) DB() *sql.DB { return r.db }

const selectCourse = `SELECT id, title, description, price_cents, created_at, updated_at FROM courses`

func scanCourse(row rowScanner) (*model.Course, error) {
	var c model.Course
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.PriceCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts c and reloads it so timestamps are populated.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO courses (title, description, price_cents) VALUES (?, ?, ?)",
		c.Title, c.Description, c.PriceCents)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// GetByID returns ErrNotFound when the course does not exist.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, selectCourse+" WHERE id = ?", id))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// List returns all courses ordered by id.
func (r *CourseRepo) List(ctx context.Context) ([]*model.Course, error) {
	rows, err := r.db.QueryContext(ctx, selectCourse+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of c.ID.
func (r *CourseRepo) Update(ctx context.Context, c *model.Course) error {
	if _, err := r.GetByID(ctx, c.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE courses SET title = ?, description = ?, price_cents = ? WHERE id = ?",
		c.Title, c.Description, c.PriceCents, c.ID); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// Delete removes the course; lessons, enrollments and payments cascade.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
