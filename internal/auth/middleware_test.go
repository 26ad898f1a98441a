package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/precure-app/precure-api/internal/models"
)

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (s *stubBlacklist) IsRevoked(ctx context.Context, claims *models.TokenClaims, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[claims.AccountID+"|"+token], nil
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("expected claims in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if BearerTokenFromContext(r.Context()) == "" {
			t.Error("expected raw token in context")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(claims.AccountID))
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue("account-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handler := Middleware(tm, &stubBlacklist{})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "account-123" {
		t.Errorf("expected account-123, got %q", rec.Body.String())
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	handler := Middleware(tm, &stubBlacklist{})(protectedEcho(t))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty bearer", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	handler := Middleware(tm, &stubBlacklist{})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -time.Minute)
	token, err := expired.Issue("account-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tm := NewTokenManager(testSecret, time.Hour)
	handler := Middleware(tm, &stubBlacklist{})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_RevokedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue("account-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cryptographically valid and unexpired, but present in the
	// account's blacklist.
	blacklist := &stubBlacklist{revoked: map[string]bool{"account-123|" + token: true}}
	handler := Middleware(tm, blacklist)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_BlacklistCheckFailure(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue("account-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blacklist := &stubBlacklist{err: errors.New("store unreachable")}
	handler := Middleware(tm, blacklist)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when revocation status is unknown, got %d", rec.Code)
	}
}
