package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/coursehub/internal/model"
)

// UserService covers account administration and profile edits.
type UserService struct {
	users UserStore
	log   *zap.Logger
}

func NewUserService(users UserStore, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, fromRepo(err, "user not found")
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindOrFailByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "user not found")
	}
	return u, nil
}

// UpdateProfile overwrites the caller's profile.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, p model.Profile) (*model.User, error) {
	u, err := s.users.UpdateProfile(ctx, id, p)
	if err != nil {
		return nil, fromRepo(err, "user not found")
	}
	return u, nil
}

// Delete removes the account and everything that cascades from it.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fromRepo(err, "user not found")
	}
	s.log.Info("user deleted", zap.Uint64("user_id", id))
	return nil
}
