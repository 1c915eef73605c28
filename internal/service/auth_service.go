package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"miniportfolio/api/internal/apperr"
	"miniportfolio/api/internal/config"
	"miniportfolio/api/internal/ids"
	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
	"miniportfolio/api/internal/security"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot probe which one failed.
	ErrInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
	ErrEmailTaken         = apperr.New(apperr.KindDuplicate, "User already exists")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "User not found")
	ErrSelfDeletion       = apperr.New(apperr.KindForbidden, "Cannot delete your own account")
	ErrAdminProtected     = apperr.New(apperr.KindForbidden, "Cannot delete admin accounts")
)

type AuthService struct {
	store repository.UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(store repository.UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.New(apperr.KindValidation, "All fields are required")
	}
	if len(input.Name) > models.MaxNameLength {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Name cannot be more than 50 characters")
	}
	if !models.ValidEmail(input.Email) {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Please enter a valid email")
	}
	if len(input.Password) < 6 {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Password must be at least 6 characters")
	}

	// Check-then-insert has a narrow race window; the unique index on
	// LOWER(email) is the backstop and surfaces as the same error.
	if _, err := s.store.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:             ids.New(),
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		Role:           models.UserRoleUser,
		IsActive:       true,
		PortfolioItems: []models.PortfolioItem{},
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return AuthResult{Token: token, User: user}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Email and password are required")
	}

	user, err := s.store.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if !security.CheckPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return AuthResult{}, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.issueToken(user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: user}, nil
}

// CurrentUser resolves a verified token's subject to a user record. A
// deactivated user still resolves; only a missing record fails.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns summaries of all active users, newest first. Role gating
// happens at the route: this is only reachable with a verified admin token.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	summaries, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return summaries, nil
}

// DeactivateUser soft-deletes the target. Deactivating an already inactive
// user succeeds silently.
func (s *AuthService) DeactivateUser(ctx context.Context, requesterID string, targetID string) error {
	target, err := s.store.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get target user: %w", err)
	}

	if target.ID == requesterID {
		return ErrSelfDeletion
	}
	if target.Role == models.UserRoleAdmin {
		return ErrAdminProtected
	}

	if err := s.store.SetActive(ctx, target.ID, false); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.log.Info().Str("user_id", target.ID).Str("admin_id", requesterID).Msg("user deactivated")
	return nil
}

func (s *AuthService) Stats(ctx context.Context) (models.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	token, err := security.GenerateToken(s.cfg.Security.JWTSecret, userID, s.cfg.Security.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
