package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	"github.com/precure-app/precure-api/internal/services"
	pkghttp "github.com/precure-app/precure-api/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Signup(ctx context.Context, name, email, emergencyPhone, password string) (*services.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
	Logout(ctx context.Context, accountID, token string) error
	GetAccount(ctx context.Context, accountID string) (*services.AccountResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	EmergencyPhone  string `json:"emergency_phone" validate:"required,phone"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles account registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}
	if req.Password != req.ConfirmPassword {
		pkghttp.WriteBadRequest(w, "password_mismatch", "Passwords do not match")
		return
	}

	resp, err := h.service.Signup(r.Context(), req.Name, req.Email, req.EmergencyPhone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			pkghttp.WriteBadRequest(w, "email_taken", "Email is already registered")
		default:
			pkghttp.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// Login handles account login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "invalid_credentials", "Invalid email or password")
		default:
			pkghttp.WriteInternalError(w, "Failed to login")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Logout blacklists the presented token for its account
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	token := auth.BearerTokenFromContext(r.Context())
	if claims == nil || token == "" {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims.AccountID, token); err != nil {
		pkghttp.WriteInternalError(w, "Failed to logout")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the account behind the presented token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	account, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to get account")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}
