package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coursehub/internal/model"
)

// LessonRepo provides CRUD for lessons.  Every lesson belongs to a course;
// inserting one for a missing course yields ErrNotFound.
type LessonRepo struct {
	db *sql.DB
}

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{db: db} }

const selectLesson = `SELECT id, course_id, title, content, position, created_at, updated_at FROM lessons`

func scanLesson(row rowScanner) (*model.Lesson, error) {
	var l model.Lesson
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO lessons (course_id, title, content, position) VALUES (?, ?, ?, ?)",
		l.CourseID, l.Title, l.Content, l.Position)
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
	*l = *stored
	return nil
}

func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	l, err := scanLesson(r.db.QueryRowContext(ctx, selectLesson+" WHERE id = ?", id))
	if err != nil {
		return nil, translate(err)
	}
	return l, nil
}

// ListByCourse returns the lessons of one course in display order.
func (r *LessonRepo) ListByCourse(ctx context.Context, courseID uint64) ([]*model.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, selectLesson+" WHERE course_id = ? ORDER BY position, id", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LessonRepo) Update(ctx context.Context, l *model.Lesson) error {
	if _, err := r.GetByID(ctx, l.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE lessons SET title = ?, content = ?, position = ? WHERE id = ?",
		l.Title, l.Content, l.Position, l.ID); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

func (r *LessonRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
