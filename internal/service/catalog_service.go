package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/coursehub/internal/model"
)

// CatalogService is CRUD over courses and their lessons.
type CatalogService struct {
	courses CourseStore
	lessons LessonStore
	log     *zap.Logger
}

func NewCatalogService(courses CourseStore, lessons LessonStore, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{courses: courses, lessons: lessons, log: log}
}

func (s *CatalogService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	s.log.Info("course created", zap.Uint64("course_id", c.ID))
	return c, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, id uint64) (*model.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "course not found")
	}
	return c, nil
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]*model.Course, error) {
	out, err := s.courses.List(ctx)
	if err != nil {
		return nil, fromRepo(err, "course not found")
	}
	return out, nil
}

func (s *CatalogService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.courses.Update(ctx, c); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	return c, nil
}

// DeleteCourse removes the course together with its lessons, enrollments
// and payments.
func (s *CatalogService) DeleteCourse(ctx context.Context, id uint64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return fromRepo(err, "course not found")
	}
	s.log.Info("course deleted", zap.Uint64("course_id", id))
	return nil
}

// CreateLesson adds a lesson to an existing course.
func (s *CatalogService) CreateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error) {
	if _, err := s.courses.GetByID(ctx, l.CourseID); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	if err := s.lessons.Create(ctx, l); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	return l, nil
}

func (s *CatalogService) GetLesson(ctx context.Context, id uint64) (*model.Lesson, error) {
	l, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "lesson not found")
	}
	return l, nil
}

// ListLessons returns the lessons of courseID in position order.  An
// unknown course is NotFound rather than an empty list.
func (s *CatalogService) ListLessons(ctx context.Context, courseID uint64) ([]*model.Lesson, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fromRepo(err, "course not found")
	}
	out, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fromRepo(err, "lesson not found")
	}
	return out, nil
}

// UpdateLesson keeps the lesson in its current course.
func (s *CatalogService) UpdateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error) {
	current, err := s.lessons.GetByID(ctx, l.ID)
	if err != nil {
		return nil, fromRepo(err, "lesson not found")
	}
	l.CourseID = current.CourseID
	if err := s.lessons.Update(ctx, l); err != nil {
		return nil, fromRepo(err, "lesson not found")
	}
	return l, nil
}

func (s *CatalogService) DeleteLesson(ctx context.Context, id uint64) error {
	if err := s.lessons.Delete(ctx, id); err != nil {
		return fromRepo(err, "lesson not found")
	}
	return nil
}
