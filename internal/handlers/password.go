package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	pkghttp "github.com/precure-app/precure-api/pkg/http"
)

// PasswordServiceInterface defines the interface for password business logic
type PasswordServiceInterface interface {
	Change(ctx context.Context, accountID, currentPassword, newPassword string) error
	Forgot(ctx context.Context, email string) error
	Reset(ctx context.Context, email, code, newPassword string) error
}

// PasswordHandler handles password change and reset HTTP requests
type PasswordHandler struct {
	service PasswordServiceInterface
}

// NewPasswordHandler creates a new PasswordHandler
func NewPasswordHandler(service PasswordServiceInterface) *PasswordHandler {
	return &PasswordHandler{service: service}
}

// ChangePasswordRequest represents the request body for an authenticated
// password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ForgotPasswordRequest represents the request body for requesting a reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for redeeming a reset code
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,len=6,numeric"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Change handles an authenticated password change
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		pkghttp.WriteBadRequest(w, "password_mismatch", "Passwords do not match")
		return
	}

	if err := h.service.Change(r.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrWrongPassword):
			pkghttp.WriteBadRequest(w, "wrong_password", "Current password is incorrect")
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to change password")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Forgot handles a reset-code request
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	if err := h.service.Forgot(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "No account registered for that email")
		default:
			pkghttp.WriteInternalError(w, "Failed to send reset code")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Reset code sent to your email"})
}

// Reset redeems an emailed reset code and sets a new password
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		pkghttp.WriteBadRequest(w, "password_mismatch", "Passwords do not match")
		return
	}

	if err := h.service.Reset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCode):
			pkghttp.WriteBadRequest(w, "invalid_code", "Invalid reset code")
		case errors.Is(err, models.ErrExpiredCode):
			pkghttp.WriteBadRequest(w, "expired_code", "Reset code has expired")
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "No account registered for that email")
		default:
			pkghttp.WriteInternalError(w, "Failed to reset password")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
