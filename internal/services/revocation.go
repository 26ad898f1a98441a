package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/precure-app/precure-api/internal/models"
)

// TokenRevocationChecker answers the middleware's revocation question. It
// always consults the account's blacklist, and when password-change
// revocation is enabled it also rejects tokens issued before the account's
// last password change.
type TokenRevocationChecker struct {
	blacklist              RevokedTokenRepository
	accounts               AccountRepository
	revokeOnPasswordChange bool
	logger                 *slog.Logger
}

// NewTokenRevocationChecker creates a new TokenRevocationChecker
func NewTokenRevocationChecker(blacklist RevokedTokenRepository, accounts AccountRepository, revokeOnPasswordChange bool, logger *slog.Logger) *TokenRevocationChecker {
	return &TokenRevocationChecker{
		blacklist:              blacklist,
		accounts:               accounts,
		revokeOnPasswordChange: revokeOnPasswordChange,
		logger:                 logger,
	}
}

func (c *TokenRevocationChecker) IsRevoked(ctx context.Context, claims *models.TokenClaims, token string) (bool, error) {
	revoked, err := c.blacklist.IsRevoked(ctx, claims.AccountID, token)
	if err != nil {
		return false, err
	}
	if revoked {
		return true, nil
	}

	if !c.revokeOnPasswordChange {
		return false, nil
	}

	account, err := c.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// A token for a deleted account is as good as revoked.
			return true, nil
		}
		return false, err
	}

	if account.PasswordChangedAt == nil || claims.IssuedAt == nil {
		return false, nil
	}
	return claims.IssuedAt.Time.Before(*account.PasswordChangedAt), nil
}
