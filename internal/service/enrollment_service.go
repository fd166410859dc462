package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/coursehub/internal/apperr"
	"github.com/iliyamo/coursehub/internal/metrics"
	"github.com/iliyamo/coursehub/internal/model"
	"github.com/iliyamo/coursehub/internal/queue"
	"github.com/iliyamo/coursehub/internal/repository"
)

// PaymentResult is what a successful Pay returns.
type PaymentResult struct {
	Success    bool              `json:"success"`
	Payment    *model.Payment    `json:"payment"`
	Enrollment *model.Enrollment `json:"enrollment"`
}

// EnrollmentService drives an enrollment through NEW → WAITING_FOR_PAYMENT → PAID.
type EnrollmentService struct {
	users       UserStore
	courses     CourseStore
	enrollments EnrollmentStore
	publisher   PaymentPublisher
	log         *zap.Logger
	metrics     *metrics.Metrics
}

// NewEnrollmentService wires the service.  publisher may be nil, in which
// case payments are not announced.
func NewEnrollmentService(users UserStore, courses CourseStore, enrollments EnrollmentStore,
	publisher PaymentPublisher, log *zap.Logger, m *metrics.Metrics) *EnrollmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnrollmentService{users: users, courses: courses, enrollments: enrollments,
		publisher: publisher, log: log, metrics: m}
}

// RegisterUser enrolls userID in courseID with status NEW.  Missing user or
// course is NotFound; an existing enrollment is Duplicate.
func (s *EnrollmentService) RegisterUser(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	if _, err := s.users.FindOrFailByID(ctx, userID); err != nil {
		return nil, fromRepo(err, "user not found")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	if _, err := s.enrollments.Get(ctx, userID, courseID); err == nil {
		return nil, apperr.E(apperr.Duplicate, "user is already registered for this course")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fromRepo(err, "enrollment not found")
	}

	e, err := s.enrollments.Create(ctx, userID, courseID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.E(apperr.Duplicate, "user is already registered for this course")
	case err != nil:
		return nil, fromRepo(err, "user or course not found")
	}
	s.metrics.EnrollmentStatus(string(e.Status))
	s.log.Info("user enrolled", zap.Uint64("user_id", userID), zap.Uint64("course_id", courseID))
	return e, nil
}

// SetStatus overwrites the enrollment status.  It is an administrative
// override and does not consult the transition table.
func (s *EnrollmentService) SetStatus(ctx context.Context, userID, courseID uint64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	if !status.Valid() {
		return nil, apperr.E(apperr.Validation, "unknown enrollment status")
	}
	e, err := s.enrollments.SetStatus(ctx, userID, courseID, status)
	if err != nil {
		return nil, fromRepo(err, "enrollment not found")
	}
	s.metrics.EnrollmentStatus(string(status))
	s.log.Info("enrollment status set",
		zap.Uint64("user_id", userID), zap.Uint64("course_id", courseID), zap.String("status", string(status)))
	return e, nil
}

// Pay records a payment for the course price and marks the enrollment PAID
// atomically.  NotFound without a prior registration, Conflict when the
// course is already paid.
func (s *EnrollmentService) Pay(ctx context.Context, userID, courseID uint64) (*PaymentResult, error) {
	p, e, err := s.enrollments.SettlePayment(ctx, userID, courseID)
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, apperr.E(apperr.Conflict, "course is already paid")
	case err != nil:
		return nil, fromRepo(err, "user is not registered for this course")
	}
	s.metrics.EnrollmentStatus(string(e.Status))
	s.metrics.PaymentRecorded(p.AmountCents)
	s.log.Info("payment recorded",
		zap.Uint64("payment_id", p.ID), zap.Uint64("user_id", userID),
		zap.Uint64("course_id", courseID), zap.Int64("amount_cents", p.AmountCents))

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		ev := queue.PaymentRecordedEvent{
			PaymentID:    p.ID,
			EnrollmentID: e.ID,
			UserID:       p.UserID,
			CourseID:     p.CourseID,
			AmountCents:  p.AmountCents,
			PaidAt:       p.CreatedAt.UTC().Format(time.RFC3339),
		}
		// The ledger row is committed; a lost event only costs the audit trail.
		if err := s.publisher.PublishPaymentRecorded(pubCtx, ev); err != nil {
			s.log.Warn("publish payment event failed", zap.Uint64("payment_id", p.ID), zap.Error(err))
		}
	}
	return &PaymentResult{Success: true, Payment: p, Enrollment: e}, nil
}

// Get returns the caller's enrollment in a course.
func (s *EnrollmentService) Get(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	e, err := s.enrollments.Get(ctx, userID, courseID)
	if err != nil {
		return nil, fromRepo(err, "enrollment not found")
	}
	return e, nil
}

// ListForUser returns every enrollment of userID.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error) {
	out, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "enrollment not found")
	}
	return out, nil
}
