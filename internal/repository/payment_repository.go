package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coursehub/internal/model"
)

// PaymentRepo reads the payment ledger.  Rows are written only by
// EnrollmentRepo.SettlePayment and are never updated.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const selectPayment = `SELECT id, user_id, course_id, amount_cents, created_at FROM payments`

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.AmountCents, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, selectPayment+" WHERE id = ?", id))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// ListByUser returns the user's payments, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Payment, error) {
	return r.list(ctx, selectPayment+" WHERE user_id = ? ORDER BY id DESC", userID)
}

// ListAll returns every payment, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]*model.Payment, error) {
	return r.list(ctx, selectPayment+" ORDER BY id DESC")
}

func (r *PaymentRepo) list(ctx context.Context, q string, args ...any) ([]*model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
