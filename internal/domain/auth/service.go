package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"owltrack/internal/pkg/validator"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	log    *slog.Logger
}

func NewService(repo Repository, tokens TokenIssuer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, log: log}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, errs)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.issue(u, req.Password)
}

// AdminLogin only succeeds for admins. The literal "admin" resolves to the
// account with that username when no e-mail matches.
func (s *Service) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) && strings.TrimSpace(req.Email) == AdminAlias {
		u, err = s.repo.GetByUsername(ctx, AdminAlias)
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsAdmin() {
		s.log.Warn("admin login attempt by non-admin", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	return s.issue(u, req.Password)
}

func (s *Service) issue(u *User, password string) (*LoginResult, error) {
	if err := CheckPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{Token: token, User: u, Name: DisplayName(u)}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// IsAdmin reads the stored role, so demotions apply to live tokens.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}
