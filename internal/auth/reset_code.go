package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/precure-app/precure-api/internal/models"
)

// ResetCodeManager generates and checks one-time password-reset codes.
// Codes are stored hashed; only the emailed copy ever exists in plaintext.
type ResetCodeManager struct {
	ttl time.Duration
}

// NewResetCodeManager creates a ResetCodeManager with the given code lifetime.
func NewResetCodeManager(ttl time.Duration) *ResetCodeManager {
	return &ResetCodeManager{ttl: ttl}
}

// GenerateCode creates a uniformly random zero-padded 6-digit code.
// Always treat the result as a string: leading zeros are significant.
func GenerateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating random code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode returns the hex SHA-256 of a code for at-rest storage.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// TTL returns the configured code lifetime.
func (m *ResetCodeManager) TTL() time.Duration {
	return m.ttl
}

// ExpiresAt returns when a code generated now should expire.
func (m *ResetCodeManager) ExpiresAt() time.Time {
	return time.Now().Add(m.ttl)
}

// Verify checks a supplied code against the account's pending one.
// A missing or mismatched code fails with models.ErrInvalidCode; a matching
// but stale code fails with models.ErrExpiredCode and is left in place.
func (m *ResetCodeManager) Verify(account *models.Account, suppliedCode string) error {
	if !account.HasPendingResetCode() {
		return models.ErrInvalidCode
	}

	suppliedHash := HashCode(suppliedCode)
	if subtle.ConstantTimeCompare([]byte(suppliedHash), []byte(*account.ResetCodeHash)) != 1 {
		return models.ErrInvalidCode
	}

	if time.Now().After(*account.ResetCodeExpiresAt) {
		return models.ErrExpiredCode
	}

	return nil
}
