package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/coursehub/internal/apperr"
	"github.com/iliyamo/coursehub/internal/metrics"
	"github.com/iliyamo/coursehub/internal/model"
	"github.com/iliyamo/coursehub/internal/repository"
	"github.com/iliyamo/coursehub/internal/utils"
)

// Login failures share one message whether the email is unknown or the
// password is wrong, so the endpoint cannot be used to enumerate accounts.
const msgInvalidCredentials = "invalid credentials"

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService orchestrates registration, login, identity lookup and token
// refresh.  Tokens are never stored; only register writes to the database.
type AuthService struct {
	users   UserStore
	tokens  *utils.TokenIssuer
	log     *zap.Logger
	metrics *metrics.Metrics

	// dummyHash is compared against on unknown emails so both login
	// failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, tokens *utils.TokenIssuer, log *zap.Logger, m *metrics.Metrics) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, log: log, metrics: m}
}

func claimsFor(u *model.User) utils.Claims {
	return utils.Claims{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// Register creates the identity and its profile and returns a fresh token
// pair.  An existing email is a Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (utils.TokenPair, *model.User, error) {
	if len(in.Password) > utils.MaxPasswordBytes {
		return utils.TokenPair{}, nil, apperr.E(apperr.Validation, "password: must be at most 72 bytes")
	}
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return utils.TokenPair{}, nil, fromRepo(err, "user not found")
	}
	if existing != nil {
		s.metrics.AuthEvent("register", "rejected")
		return utils.TokenPair{}, nil, apperr.E(apperr.Conflict, "email already exists")
	}

	u, err := s.users.Create(ctx, repository.NewUser{
		Email:     in.Email,
		Password:  in.Password,
		Role:      model.RoleUser,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent registration for the same email.
		s.metrics.AuthEvent("register", "rejected")
		return utils.TokenPair{}, nil, apperr.E(apperr.Conflict, "email already exists")
	}
	if err != nil {
		return utils.TokenPair{}, nil, fromRepo(err, "user not found")
	}

	pair, err := s.tokens.IssuePair(claimsFor(u))
	if err != nil {
		return utils.TokenPair{}, nil, apperr.Wrap(err, apperr.Unknown, "issue tokens failed")
	}
	s.metrics.AuthEvent("register", "ok")
	s.log.Info("user registered", zap.Uint64("user_id", u.ID))
	return pair, u, nil
}

// Login verifies the credentials and returns a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return utils.TokenPair{}, fromRepo(err, "user not found")
	}
	if u == nil {
		utils.VerifyPassword(s.fakeHash(), password)
		s.metrics.AuthEvent("login", "rejected")
		return utils.TokenPair{}, apperr.E(apperr.Unauthorized, msgInvalidCredentials)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.metrics.AuthEvent("login", "rejected")
		return utils.TokenPair{}, apperr.E(apperr.Unauthorized, msgInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(claimsFor(u))
	if err != nil {
		return utils.TokenPair{}, apperr.Wrap(err, apperr.Unknown, "issue tokens failed")
	}
	s.metrics.AuthEvent("login", "ok")
	return pair, nil
}

// GetMe returns the authenticated identity with its profile.
func (s *AuthService) GetMe(ctx context.Context, userID uint64) (*model.User, error) {
	u, err := s.users.FindOrFailByID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "user not found")
	}
	return u, nil
}

// Check reports whether an account exists for email.
func (s *AuthService) Check(ctx context.Context, email string) (bool, error) {
	ok, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fromRepo(err, "user not found")
	}
	return ok, nil
}

// Refresh exchanges a valid refresh token for a new pair.  The identity is
// reloaded so a deleted user or a changed role is picked up.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.metrics.AuthEvent("refresh", "rejected")
		return utils.TokenPair{}, apperr.E(apperr.Unauthorized, "invalid refresh token")
	}
	u, err := s.users.FindOrFailByID(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.AuthEvent("refresh", "rejected")
		return utils.TokenPair{}, apperr.E(apperr.Unauthorized, "invalid refresh token")
	}
	if err != nil {
		return utils.TokenPair{}, fromRepo(err, "user not found")
	}
	pair, err := s.tokens.IssuePair(claimsFor(u))
	if err != nil {
		return utils.TokenPair{}, apperr.Wrap(err, apperr.Unknown, "issue tokens failed")
	}
	s.metrics.AuthEvent("refresh", "ok")
	return pair, nil
}

// Logout has no server-side state to clear; the transport drops the
// refresh cookie.  It exists so the flow is logged in one place.
func (s *AuthService) Logout(ctx context.Context) {
	s.log.Debug("logout")
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("coursehub-dummy-password", utils.DefaultBcryptCost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
