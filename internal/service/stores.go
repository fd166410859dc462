// Package service holds the business flows: authentication, enrollment and
// payment, plus thin CRUD wrappers.  Services depend on the store
// interfaces below; the repository package provides the MySQL versions.
package service

import (
	"context"

	"github.com/iliyamo/coursehub/internal/model"
	"github.com/iliyamo/coursehub/internal/queue"
	"github.com/iliyamo/coursehub/internal/repository"
)

// UserStore is the credential store.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindOrFailByID(ctx context.Context, id uint64) (*model.User, error)
	Create(ctx context.Context, in repository.NewUser) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, p model.Profile) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

type CourseStore interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id uint64) (*model.Course, error)
	List(ctx context.Context) ([]*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id uint64) error
}

type LessonStore interface {
	Create(ctx context.Context, l *model.Lesson) error
	GetByID(ctx context.Context, id uint64) (*model.Lesson, error)
	ListByCourse(ctx context.Context, courseID uint64) ([]*model.Lesson, error)
	Update(ctx context.Context, l *model.Lesson) error
	Delete(ctx context.Context, id uint64) error
}

type EnrollmentStore interface {
	Create(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error)
	Get(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error)
	SetStatus(ctx context.Context, userID, courseID uint64, status model.EnrollmentStatus) (*model.Enrollment, error)
	SettlePayment(ctx context.Context, userID, courseID uint64) (*model.Payment, *model.Enrollment, error)
}

type PaymentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Payment, error)
	ListAll(ctx context.Context) ([]*model.Payment, error)
}

// PaymentPublisher announces recorded payments to other processes.
type PaymentPublisher interface {
	PublishPaymentRecorded(ctx context.Context, ev queue.PaymentRecordedEvent) error
}

var (
	_ UserStore       = (*repository.UserRepo)(nil)
	_ CourseStore     = (*repository.CourseRepo)(nil)
	_ LessonStore     = (*repository.LessonRepo)(nil)
	_ EnrollmentStore = (*repository.EnrollmentRepo)(nil)
	_ PaymentStore    = (*repository.PaymentRepo)(nil)
)
