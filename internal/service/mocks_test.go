package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/coursehub/internal/model"
	"github.com/iliyamo/coursehub/internal/queue"
	"github.com/iliyamo/coursehub/internal/repository"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) user(args mock.Arguments) (*model.User, error) {
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *mockUsers) FindOrFailByID(ctx context.Context, id uint64) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUsers) Create(ctx context.Context, in repository.NewUser) (*model.User, error) {
	return m.user(m.Called(ctx, in))
}

func (m *mockUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.User)
	return out, args.Error(1)
}

func (m *mockUsers) UpdateProfile(ctx context.Context, id uint64, p model.Profile) (*model.User, error) {
	return m.user(m.Called(ctx, id, p))
}

func (m *mockUsers) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCourses struct{ mock.Mock }

func (m *mockCourses) Create(ctx context.Context, c *model.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCourses) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourses) List(ctx context.Context) ([]*model.Course, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Course)
	return out, args.Error(1)
}

func (m *mockCourses) Update(ctx context.Context, c *model.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCourses) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockLessons struct{ mock.Mock }

func (m *mockLessons) Create(ctx context.Context, l *model.Lesson) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLessons) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Lesson)
	return l, args.Error(1)
}

func (m *mockLessons) ListByCourse(ctx context.Context, courseID uint64) ([]*model.Lesson, error) {
	args := m.Called(ctx, courseID)
	out, _ := args.Get(0).([]*model.Lesson)
	return out, args.Error(1)
}

func (m *mockLessons) Update(ctx context.Context, l *model.Lesson) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLessons) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockEnrollments struct{ mock.Mock }

func (m *mockEnrollments) enrollment(args mock.Arguments) (*model.Enrollment, error) {
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollments) Create(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	return m.enrollment(m.Called(ctx, userID, courseID))
}

func (m *mockEnrollments) Get(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	return m.enrollment(m.Called(ctx, userID, courseID))
}

func (m *mockEnrollments) ListByUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]*model.Enrollment)
	return out, args.Error(1)
}

func (m *mockEnrollments) SetStatus(ctx context.Context, userID, courseID uint64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	return m.enrollment(m.Called(ctx, userID, courseID, status))
}

func (m *mockEnrollments) SettlePayment(ctx context.Context, userID, courseID uint64) (*model.Payment, *model.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	p, _ := args.Get(0).(*model.Payment)
	e, _ := args.Get(1).(*model.Enrollment)
	return p, e, args.Error(2)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) ListByUser(ctx context.Context, userID uint64) ([]*model.Payment, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]*model.Payment)
	return out, args.Error(1)
}

func (m *mockPayments) ListAll(ctx context.Context) ([]*model.Payment, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Payment)
	return out, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishPaymentRecorded(ctx context.Context, ev queue.PaymentRecordedEvent) error {
	return m.Called(ctx, ev).Error(0)
}
