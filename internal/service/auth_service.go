package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/config"
	"github.com/spec-kit/quote-service/internal/domain"
	"github.com/spec-kit/quote-service/internal/repository"
	apperrors "github.com/spec-kit/quote-service/pkg/util/errorutil"
)

const invalidCredentials = "invalid email or password"

// AuthService coordinates registration, login and sessions.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	bcryptCost int
	admins     map[string]struct{}
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Sessions auth.SessionStore
	Logger   *zap.Logger
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	ProfileImageURL *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if e := normalizeEmail(email); e != "" {
			admins[e] = struct{}{}
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		bcryptCost: cfg.BcryptCost,
		admins:     admins,
		logger:     logger,
	}
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *auth.Session, error) {
	email := normalizeEmail(input.Email)
	errs := fieldErrors{}
	if email == "" || !strings.Contains(email, "@") {
		errs.add("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(input.Password) < auth.MinPasswordLength {
		errs.add("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength))
	}
	if strings.TrimSpace(input.FirstName) == "" {
		errs.add("firstName", "is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		errs.add("lastName", "is required")
	}
	if err := errs.err("invalid registration"); err != nil {
		return nil, nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	_, isAdmin := s.admins[email]
	user := &domain.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		ProfileImageURL: trimmedOrNil(input.ProfileImageURL),
		IsAdmin:         isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, nil, err
	}
	if isAdmin {
		s.logger.Info("admin account registered", zap.String("user_id", user.ID))
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return user, session, nil
}

// Login authenticates a user and opens a session. Unknown e-mails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, nil, err
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return user, session, nil
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// CurrentUser reloads the caller's account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
