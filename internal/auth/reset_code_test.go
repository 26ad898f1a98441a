package auth

import (
	"testing"
	"time"

	"github.com/precure-app/precure-api/internal/models"
)

func pendingCodeAccount(code string, expiresAt time.Time) *models.Account {
	hash := HashCode(code)
	return &models.Account{
		ID:                 "acct-1",
		ResetCodeHash:      &hash,
		ResetCodeExpiresAt: &expiresAt,
	}
}

func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	}
}

func TestGenerateCode_LeadingZerosPreserved(t *testing.T) {
	// Codes are strings: "042137" is valid and must stay 6 characters.
	// Probabilistic, but 200 draws make at least one sub-100000 value
	// overwhelmingly likely, and every draw checks its width anyway.
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q lost its zero padding", code)
		}
	}
}

func TestHashCode_Deterministic(t *testing.T) {
	if HashCode("123456") != HashCode("123456") {
		t.Error("hashing the same code twice should be identical")
	}
	if HashCode("123456") == HashCode("654321") {
		t.Error("different codes should hash differently")
	}
}

func TestResetCodeManager_VerifySuccess(t *testing.T) {
	m := NewResetCodeManager(10 * time.Minute)
	account := pendingCodeAccount("042137", time.Now().Add(5*time.Minute))

	if err := m.Verify(account, "042137"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestResetCodeManager_VerifyNoPendingCode(t *testing.T) {
	m := NewResetCodeManager(10 * time.Minute)
	account := &models.Account{ID: "acct-1"}

	if err := m.Verify(account, "123456"); err != models.ErrInvalidCode {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestResetCodeManager_VerifyMismatch(t *testing.T) {
	m := NewResetCodeManager(10 * time.Minute)
	account := pendingCodeAccount("123456", time.Now().Add(5*time.Minute))

	if err := m.Verify(account, "654321"); err != models.ErrInvalidCode {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestResetCodeManager_VerifyExpired(t *testing.T) {
	m := NewResetCodeManager(10 * time.Minute)
	account := pendingCodeAccount("123456", time.Now().Add(-time.Minute))

	if err := m.Verify(account, "123456"); err != models.ErrExpiredCode {
		t.Errorf("expected ErrExpiredCode, got %v", err)
	}

	// Expiry does not clear the stored code; only consume or a new
	// generate call does.
	if !account.HasPendingResetCode() {
		t.Error("expired code should remain on the account")
	}
}

func TestResetCodeManager_ExpiredBeatsMismatchOnlyOnMatch(t *testing.T) {
	// A stale code that no longer matches the stored value fails as
	// invalid, not expired: the stored code was superseded.
	m := NewResetCodeManager(10 * time.Minute)
	account := pendingCodeAccount("111111", time.Now().Add(-time.Minute))

	if err := m.Verify(account, "222222"); err != models.ErrInvalidCode {
		t.Errorf("expected ErrInvalidCode for superseded code, got %v", err)
	}
}

func TestResetCodeManager_ExpiresAt(t *testing.T) {
	m := NewResetCodeManager(10 * time.Minute)

	expiresAt := m.ExpiresAt()
	want := time.Now().Add(10 * time.Minute)
	if diff := expiresAt.Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("expected expiry ~10m from now, got %v", expiresAt)
	}
}
