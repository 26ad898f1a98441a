package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	pkgauth "github.com/precure-app/precure-api/pkg/auth"
	pkglogger "github.com/precure-app/precure-api/pkg/logger"
)

// PasswordService handles password changes and the email reset-code flow
type PasswordService struct {
	repo       AccountRepository
	resetCodes *auth.ResetCodeManager
	hasher     *pkgauth.Hasher
	email      EmailService
	logger     *slog.Logger
}

// NewPasswordService creates a new PasswordService
func NewPasswordService(repo AccountRepository, resetCodes *auth.ResetCodeManager, hasher *pkgauth.Hasher, email EmailService, logger *slog.Logger) *PasswordService {
	return &PasswordService{
		repo:       repo,
		resetCodes: resetCodes,
		hasher:     hasher,
		email:      email,
		logger:     logger,
	}
}

// Change replaces an authenticated account's password after verifying the
// current one.
func (s *PasswordService) Change(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", accountID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if !s.hasher.Compare(account.PasswordHash, currentPassword) {
		s.logger.Info("password change rejected: current password incorrect",
			slog.String("account_id", accountID))
		return models.ErrWrongPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, accountID, newHash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to update password", slog.String("account_id", accountID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("account_id", accountID))
	return nil
}

// Forgot generates a one-time reset code, stores its hash against the account
// and emails the plaintext to the account holder. A new request supersedes
// any earlier outstanding code.
func (s *PasswordService) Forgot(ctx context.Context, email string) error {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("reset code requested for unknown email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	code, err := auth.GenerateCode()
	if err != nil {
		s.logger.Error("failed to generate reset code", slog.Any("error", err))
		return models.ErrInternalServer
	}

	expiresAt := s.resetCodes.ExpiresAt()
	if err := s.repo.SetResetCode(ctx, account.ID, auth.HashCode(code), expiresAt); err != nil {
		s.logger.Error("failed to store reset code", slog.String("account_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendPasswordResetCode(ctx, account.Email, account.Name, code, s.resetCodes.TTL()); err != nil {
		// The stored hash stays; it expires on its own and a retry
		// supersedes it.
		s.logger.Error("failed to send reset code email",
			slog.String("account_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("reset code issued", slog.String("account_id", account.ID))
	return nil
}

// Reset redeems a reset code and sets a new password. The code is cleared on
// success; an expired code is reported as such and left in place.
func (s *PasswordService) Reset(ctx context.Context, email, code, newPassword string) error {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.resetCodes.Verify(account, code); err != nil {
		s.logger.Info("reset code rejected",
			slog.String("account_id", account.ID), slog.Any("error", err))
		return err
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.ResetPassword(ctx, account.ID, newHash); err != nil {
		s.logger.Error("failed to reset password", slog.String("account_id", account.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset", slog.String("account_id", account.ID))
	return nil
}
