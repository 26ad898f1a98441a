package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost matches the cost the original deployment used.
	DefaultBcryptCost = 10

	MinPasswordLen = 6
	MaxPasswordLen = 72 // bcrypt input limit
)

// Hasher wraps bcrypt with a configurable cost factor. Every call to Hash
// generates a fresh salt, so two hashes of the same plaintext differ.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. A cost of 0 selects DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("plaintext cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash: %w", err)
	}
	return string(hashedBytes), nil
}

// Compare reports whether plaintext matches the stored hash. It never returns
// an error for a plain mismatch, only false.
func (h *Hasher) Compare(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// ValidatePassword enforces the password length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	return nil
}
