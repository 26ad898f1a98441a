package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	"github.com/precure-app/precure-api/internal/services"
	pkghttp "github.com/precure-app/precure-api/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext injects token claims and a raw bearer token into the
// request context, standing in for the auth middleware.
func WithAuthContext(req *http.Request, accountID, token string) *http.Request {
	claims := &models.TokenClaims{
		AccountID:        accountID,
		RegisteredClaims: jwt.RegisteredClaims{},
	}
	ctx := context.WithValue(req.Context(), auth.ClaimsContextKey, claims)
	ctx = context.WithValue(ctx, auth.BearerTokenContextKey, token)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	SignupFunc     func(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error)
	LoginFunc      func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	LogoutFunc     func(ctx context.Context, accountID, token string) error
	GetAccountFunc func(ctx context.Context, accountID string) (*services.AccountResponse, error)
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error) {
	if m.SignupFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SignupFunc(ctx, name, email, emergencyPhone, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Logout(ctx context.Context, accountID, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, accountID, token)
}

func (m *MockAuthService) GetAccount(ctx context.Context, accountID string) (*services.AccountResponse, error) {
	if m.GetAccountFunc == nil {
		return nil, models.ErrAccountNotFound
	}
	return m.GetAccountFunc(ctx, accountID)
}

// MockPasswordService implements PasswordServiceInterface for testing
type MockPasswordService struct {
	ChangeFunc func(ctx context.Context, accountID, currentPassword, newPassword string) error
	ForgotFunc func(ctx context.Context, email string) error
	ResetFunc  func(ctx context.Context, email, code, newPassword string) error
}

func (m *MockPasswordService) Change(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if m.ChangeFunc == nil {
		return nil
	}
	return m.ChangeFunc(ctx, accountID, currentPassword, newPassword)
}

func (m *MockPasswordService) Forgot(ctx context.Context, email string) error {
	if m.ForgotFunc == nil {
		return nil
	}
	return m.ForgotFunc(ctx, email)
}

func (m *MockPasswordService) Reset(ctx context.Context, email, code, newPassword string) error {
	if m.ResetFunc == nil {
		return nil
	}
	return m.ResetFunc(ctx, email, code, newPassword)
}

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	GetFunc         func(ctx context.Context, accountID string) (*services.AccountResponse, error)
	UpdateFunc      func(ctx context.Context, accountID string, update services.ProfileUpdate) (*services.AccountResponse, error)
	DeleteImageFunc func(ctx context.Context, accountID string) (*services.AccountResponse, error)
}

func (m *MockProfileService) Get(ctx context.Context, accountID string) (*services.AccountResponse, error) {
	if m.GetFunc == nil {
		return nil, models.ErrAccountNotFound
	}
	return m.GetFunc(ctx, accountID)
}

func (m *MockProfileService) Update(ctx context.Context, accountID string, update services.ProfileUpdate) (*services.AccountResponse, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrAccountNotFound
	}
	return m.UpdateFunc(ctx, accountID, update)
}

func (m *MockProfileService) DeleteImage(ctx context.Context, accountID string) (*services.AccountResponse, error) {
	if m.DeleteImageFunc == nil {
		return nil, models.ErrAccountNotFound
	}
	return m.DeleteImageFunc(ctx, accountID)
}
