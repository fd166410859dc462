package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coursehub/internal/model"
)

// EnrollmentRepo persists the user↔course relationship and settles
// payments against it.  The unique index on (user_id, course_id) is the
// final guard against double enrollment.
type EnrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

const selectEnrollment = `SELECT id, user_id, course_id, status, created_at, updated_at FROM enrollments`

func scanEnrollment(row rowScanner) (*model.Enrollment, error) {
	var (
		e      model.Enrollment
		status string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = model.EnrollmentStatus(status)
	return &e, nil
}

// Create inserts an enrollment in state NEW.  ErrDuplicate when the pair is
// already enrolled, ErrNotFound when the user or course row is missing.
func (r *EnrollmentRepo) Create(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO enrollments (user_id, course_id, status) VALUES (?, ?, ?)",
		userID, courseID, string(model.StatusNew)); err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, userID, courseID)
}

// Get returns ErrNotFound when the user is not enrolled in the course.
func (r *EnrollmentRepo) Get(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRowContext(ctx,
		selectEnrollment+" WHERE user_id = ? AND course_id = ?", userID, courseID))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// ListByUser returns the user's enrollments, newest first.
func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, selectEnrollment+" WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetStatus overwrites the status of an existing enrollment without
// consulting the transition table.
func (r *EnrollmentRepo) SetStatus(ctx context.Context, userID, courseID uint64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	if _, err := r.Get(ctx, userID, courseID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE enrollments SET status = ? WHERE user_id = ? AND course_id = ?",
		string(status), userID, courseID); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, courseID)
}

// SettlePayment records a ledger row for the course price and flips the
// enrollment to PAID in a single transaction.  The enrollment row is locked
// so two concurrent payments cannot both succeed.  ErrNotFound when there
// is no enrollment, ErrConflict when its status cannot move to PAID.
func (r *EnrollmentRepo) SettlePayment(ctx context.Context, userID, courseID uint64) (*model.Payment, *model.Enrollment, error) {
	var paymentID uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			enrollmentID uint64
			status       string
			price        int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT e.id, e.status, c.price_cents
			 FROM enrollments e
			 JOIN courses c ON c.id = e.course_id
			 WHERE e.user_id = ? AND e.course_id = ?
			 FOR UPDATE`, userID, courseID).Scan(&enrollmentID, &status, &price)
		if err != nil {
			return translate(err)
		}
		if !model.EnrollmentStatus(status).CanTransition(model.StatusPaid) {
			return ErrConflict
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO payments (user_id, course_id, amount_cents) VALUES (?, ?, ?)",
			userID, courseID, price)
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		paymentID = uint64(id)
		_, err = tx.ExecContext(ctx, "UPDATE enrollments SET status = ? WHERE id = ?",
			string(model.StatusPaid), enrollmentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := NewPaymentRepo(r.db).GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	e, err := r.Get(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	return p, e, nil
}
