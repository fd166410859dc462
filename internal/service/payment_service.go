package service

import (
	"context"

	"github.com/iliyamo/coursehub/internal/apperr"
	"github.com/iliyamo/coursehub/internal/model"
)

// PaymentService is read-only access to the payment ledger.
type PaymentService struct {
	payments PaymentStore
}

func NewPaymentService(payments PaymentStore) *PaymentService {
	return &PaymentService{payments: payments}
}

// ListForUser returns the caller's payments, newest first.
func (s *PaymentService) ListForUser(ctx context.Context, userID uint64) ([]*model.Payment, error) {
	out, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "payment not found")
	}
	return out, nil
}

func (s *PaymentService) ListAll(ctx context.Context) ([]*model.Payment, error) {
	out, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "payment not found")
	}
	return out, nil
}

// Get returns one payment.  Only its owner or an admin may read it.
func (s *PaymentService) Get(ctx context.Context, id, callerID uint64, callerRole model.Role) (*model.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "payment not found")
	}
	if p.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, apperr.E(apperr.Forbidden, "forbidden")
	}
	return p, nil
}
