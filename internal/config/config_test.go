package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Auth.TokenExpiry != 7*24*time.Hour {
		t.Errorf("expected 7d token expiry, got %v", cfg.Auth.TokenExpiry)
	}
	if cfg.Auth.ResetCodeTTL != 10*time.Minute {
		t.Errorf("expected 10m reset code TTL, got %v", cfg.Auth.ResetCodeTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.RevokeOnPasswordChange {
		t.Error("expected revoke-on-password-change to default to false")
	}
	if cfg.Upload.MaxBytes != 5*1024*1024 {
		t.Errorf("expected 5MB upload cap, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "postgres")

	if _, err := Load(); err == nil {
		t.Error("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_MissingDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars")
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_PASSWORD", "postgres")

	if _, err := Load(); err == nil {
		t.Error("expected error for short JWT secret")
	}
}

func TestLoad_ProductionRequiresLongerSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-twenty-chars-ab")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("expected error: production requires a 32-char secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY", "24h")
	t.Setenv("RESET_CODE_TTL", "5m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REVOKE_TOKENS_ON_PASSWORD_CHANGE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Auth.TokenExpiry != 24*time.Hour {
		t.Errorf("expected 24h token expiry, got %v", cfg.Auth.TokenExpiry)
	}
	if cfg.Auth.ResetCodeTTL != 5*time.Minute {
		t.Errorf("expected 5m reset code TTL, got %v", cfg.Auth.ResetCodeTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if !cfg.Auth.RevokeOnPasswordChange {
		t.Error("expected revoke-on-password-change to be enabled")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "50")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range bcrypt cost")
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Name:     "precure",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=postgres password=pw dbname=precure sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("unexpected DSN: %s", got)
	}
}
