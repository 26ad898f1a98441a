package models

import (
	"time"
)

// DefaultProfileImage is the sentinel filename used when an account has no
// uploaded profile image.
const DefaultProfileImage = "default-profile.png"

type Account struct {
	ID                 string
	SecondaryID        string // bcrypt hash of a one-time random UUID; never used for lookups
	Name               string
	Email              string // stored lowercased
	PasswordHash       string
	EmergencyPhone     string
	ProfileImage       string // filename under the upload dir, or DefaultProfileImage
	ResetCodeHash      *string
	ResetCodeExpiresAt *time.Time
	PasswordChangedAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasPendingResetCode reports whether a reset code is stored, expired or not.
func (a *Account) HasPendingResetCode() bool {
	return a.ResetCodeHash != nil && a.ResetCodeExpiresAt != nil
}

// RevokedToken is one entry in an account's token blacklist.
type RevokedToken struct {
	ID        string
	AccountID string
	Token     string
	CreatedAt time.Time
}
