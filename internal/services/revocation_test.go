package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precure-app/precure-api/internal/models"
)

func claimsIssuedAt(accountID string, issuedAt time.Time) *models.TokenClaims {
	return &models.TokenClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
}

func TestTokenRevocationChecker_BlacklistedToken(t *testing.T) {
	mockRevoke := &MockRevokedTokenRepository{
		IsRevokedFunc: func(ctx context.Context, accountID, token string) (bool, error) {
			return accountID == "account-123" && token == "dead-token", nil
		},
	}

	checker := NewTokenRevocationChecker(mockRevoke, &MockAccountRepository{}, false, slog.Default())

	revoked, err := checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", time.Now()), "dead-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", time.Now()), "live-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRevocationChecker_PasswordChangeDisabled(t *testing.T) {
	account := testAccount("$2a$04$hash")
	changedAt := time.Now()
	account.PasswordChangedAt = &changedAt

	mockRepo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			t.Fatal("account lookup should not happen when the flag is off")
			return nil, nil
		},
	}

	checker := NewTokenRevocationChecker(&MockRevokedTokenRepository{}, mockRepo, false, slog.Default())

	revoked, err := checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", changedAt.Add(-time.Hour)), "token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRevocationChecker_PasswordChangeEnabled(t *testing.T) {
	changedAt := time.Now().Add(-time.Minute)
	account := testAccount("$2a$04$hash")
	account.PasswordChangedAt = &changedAt

	mockRepo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return account, nil
		},
	}

	checker := NewTokenRevocationChecker(&MockRevokedTokenRepository{}, mockRepo, true, slog.Default())

	// Issued before the password change: revoked.
	revoked, err := checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", changedAt.Add(-time.Hour)), "old-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Issued after the password change: still valid.
	revoked, err = checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", changedAt.Add(time.Second)), "new-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRevocationChecker_NeverChangedPassword(t *testing.T) {
	mockRepo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			return testAccount("$2a$04$hash"), nil
		},
	}

	checker := NewTokenRevocationChecker(&MockRevokedTokenRepository{}, mockRepo, true, slog.Default())

	revoked, err := checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", time.Now().Add(-time.Hour)), "token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRevocationChecker_DeletedAccount(t *testing.T) {
	checker := NewTokenRevocationChecker(&MockRevokedTokenRepository{}, &MockAccountRepository{}, true, slog.Default())

	revoked, err := checker.IsRevoked(context.Background(), claimsIssuedAt("gone-account", time.Now()), "token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenRevocationChecker_StoreError(t *testing.T) {
	mockRevoke := &MockRevokedTokenRepository{
		IsRevokedFunc: func(ctx context.Context, accountID, token string) (bool, error) {
			return false, assert.AnError
		},
	}

	checker := NewTokenRevocationChecker(mockRevoke, &MockAccountRepository{}, false, slog.Default())

	_, err := checker.IsRevoked(context.Background(), claimsIssuedAt("account-123", time.Now()), "token")
	assert.Error(t, err)
}
