package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	pkgauth "github.com/precure-app/precure-api/pkg/auth"
	pkglogger "github.com/precure-app/precure-api/pkg/logger"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateProfile(ctx context.Context, id string, account *models.Account) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error
}

// RevokedTokenRepository defines the interface for the per-account token
// blacklist
type RevokedTokenRepository interface {
	Append(ctx context.Context, accountID, token string) error
	IsRevoked(ctx context.Context, accountID, token string) (bool, error)
}

// AuthService handles signup, login and logout business logic
type AuthService struct {
	repo       AccountRepository
	revokeRepo RevokedTokenRepository
	tm         *auth.TokenManager
	hasher     *pkgauth.Hasher
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo AccountRepository, revokeRepo RevokedTokenRepository, tm *auth.TokenManager, hasher *pkgauth.Hasher, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		revokeRepo: revokeRepo,
		tm:         tm,
		hasher:     hasher,
		logger:     logger,
	}
}

// AccountResponse represents an account in HTTP responses. The password hash,
// secondary ID and reset-code fields never leave the service layer.
type AccountResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	EmergencyPhone string `json:"emergency_phone,omitempty"`
	ProfileImage   string `json:"profile_image"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// AuthResponse represents the response from signup and login
type AuthResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

func toAccountResponse(account *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		EmergencyPhone: account.EmergencyPhone,
		ProfileImage:   account.ProfileImage,
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}

// Signup registers a new account and returns a fresh token for it.
func (s *AuthService) Signup(ctx context.Context, name, email, emergencyPhone, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// The secondary ID is derived from a random UUID minted here and
	// discarded; only its bcrypt hash is stored.
	secondaryID, err := s.hasher.Hash(uuid.New().String())
	if err != nil {
		s.logger.Error("failed to derive secondary id", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account := &models.Account{
		Name:           strings.TrimSpace(name),
		Email:          email,
		EmergencyPhone: strings.TrimSpace(emergencyPhone),
		PasswordHash:   passwordHash,
		SecondaryID:    secondaryID,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("signup rejected: email already registered",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, models.ErrEmailTaken
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.Issue(created.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("account_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account created", slog.String("account_id", created.ID))

	return &AuthResponse{Token: token, Account: toAccountResponse(created)}, nil
}

// Login authenticates an account by email and password. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.logger.Info("login failed: invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tm.Issue(account.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login successful", slog.String("account_id", account.ID))

	return &AuthResponse{Token: token, Account: toAccountResponse(account)}, nil
}

// Logout appends the presented token to the account's blacklist. The token
// stays valid cryptographically; the blacklist is what retires it.
func (s *AuthService) Logout(ctx context.Context, accountID, token string) error {
	if err := s.revokeRepo.Append(ctx, accountID, token); err != nil {
		s.logger.Error("failed to blacklist token", slog.String("account_id", accountID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("logout successful", slog.String("account_id", accountID))
	return nil
}

// GetAccount returns the account for an authenticated token's subject.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return toAccountResponse(account), nil
}
