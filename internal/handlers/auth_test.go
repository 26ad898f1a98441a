package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/precure-app/precure-api/internal/handlers"
	"github.com/precure-app/precure-api/internal/models"
	"github.com/precure-app/precure-api/internal/services"
)

func TestSignup_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		SignupFunc: func(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				Token: "token_123",
				Account: &services.AccountResponse{
					ID:    "account-123",
					Name:  name,
					Email: "nagisa@example.com",
				},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/signup", handlers.SignupRequest{
		Name:            "Nagisa Misumi",
		Email:           "nagisa@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		EmergencyPhone:  "+15551234567",
	})

	w := httptest.NewRecorder()
	handler.Signup(w, req)

	var resp services.AuthResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "token_123", resp.Token)
	assert.Equal(t, "account-123", resp.Account.ID)
}

func TestSignup_EmailTaken(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		SignupFunc: func(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error) {
			return nil, models.ErrEmailTaken
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/signup", handlers.SignupRequest{
		Name:            "Nagisa Misumi",
		Email:           "taken@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	w := httptest.NewRecorder()
	handler.Signup(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "email_taken")
}

func TestSignup_PasswordMismatch(t *testing.T) {
	called := false
	mockAuth := &handlers.MockAuthService{
		SignupFunc: func(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error) {
			called = true
			return nil, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/signup", handlers.SignupRequest{
		Name:            "Nagisa Misumi",
		Email:           "nagisa@example.com",
		Password:        "secret123",
		ConfirmPassword: "different456",
	})

	w := httptest.NewRecorder()
	handler.Signup(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "password_mismatch")
	assert.False(t, called, "service must not be reached on mismatched passwords")
}

func TestSignup_ValidationFailures(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

	tests := []struct {
		name string
		req  handlers.SignupRequest
	}{
		{
			name: "missing name",
			req:  handlers.SignupRequest{Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123", EmergencyPhone: "+15551234567"},
		},
		{
			name: "name over 50 characters",
			req:  handlers.SignupRequest{Name: strings.Repeat("x", 51), Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123", EmergencyPhone: "+15551234567"},
		},
		{
			name: "bad email",
			req:  handlers.SignupRequest{Name: "A", Email: "not-an-email", Password: "secret123", ConfirmPassword: "secret123", EmergencyPhone: "+15551234567"},
		},
		{
			name: "short password",
			req:  handlers.SignupRequest{Name: "A", Email: "a@example.com", Password: "short", ConfirmPassword: "short", EmergencyPhone: "+15551234567"},
		},
		{
			name: "missing phone",
			req:  handlers.SignupRequest{Name: "A", Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123"},
		},
		{
			name: "bad phone",
			req:  handlers.SignupRequest{Name: "A", Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123", EmergencyPhone: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := handlers.NewTestRequest(t, "POST", "/api/auth/signup", tt.req)
			w := httptest.NewRecorder()
			handler.Signup(w, req)

			handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
		})
	}
}

func TestLogin_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.AuthResponse, error) {
			return &services.AuthResponse{Token: "token_123"}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/login", handlers.LoginRequest{
		Email:    "nagisa@example.com",
		Password: "secret123",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp services.AuthResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "token_123", resp.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.AuthResponse, error) {
			return nil, models.ErrInvalidCredentials
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/login", handlers.LoginRequest{
		Email:    "nagisa@example.com",
		Password: "wrongpassword",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "invalid_credentials")
}

func TestLogout_Success(t *testing.T) {
	var gotAccountID, gotToken string
	mockAuth := &handlers.MockAuthService{
		LogoutFunc: func(ctx context.Context, accountID, token string) error {
			gotAccountID = accountID
			gotToken = token
			return nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/api/auth/logout", nil)
	req = handlers.WithAuthContext(req, "account-123", "raw-token-abc")

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertJSONResponse(t, w, http.StatusOK, nil)
	assert.Equal(t, "account-123", gotAccountID)
	assert.Equal(t, "raw-token-abc", gotToken)
}

func TestLogout_NoClaims(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/api/auth/logout", nil)

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "invalid_token")
}

func TestMe_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		GetAccountFunc: func(ctx context.Context, accountID string) (*services.AccountResponse, error) {
			return &services.AccountResponse{ID: accountID, Email: "nagisa@example.com"}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "GET", "/api/auth/me", nil)
	req = handlers.WithAuthContext(req, "account-123", "raw-token-abc")

	w := httptest.NewRecorder()
	handler.Me(w, req)

	var resp struct {
		Account services.AccountResponse `json:"account"`
	}
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "account-123", resp.Account.ID)
}

func TestMe_AccountDeleted(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/api/auth/me", nil)
	req = handlers.WithAuthContext(req, "gone-account", "raw-token-abc")

	w := httptest.NewRecorder()
	handler.Me(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "account_not_found")
}
