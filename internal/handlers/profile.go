package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/models"
	"github.com/precure-app/precure-api/internal/services"
	"github.com/precure-app/precure-api/internal/storage"
	pkghttp "github.com/precure-app/precure-api/pkg/http"
)

// maxMultipartMemory bounds how much of a multipart body is buffered in
// memory before spilling to disk.
const maxMultipartMemory = 10 << 20

// ProfileServiceInterface defines the interface for profile business logic
type ProfileServiceInterface interface {
	Get(ctx context.Context, accountID string) (*services.AccountResponse, error)
	Update(ctx context.Context, accountID string, update services.ProfileUpdate) (*services.AccountResponse, error)
	DeleteImage(ctx context.Context, accountID string) (*services.AccountResponse, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// UpdateProfileRequest represents the JSON request body for a profile update.
// Absent fields are left unchanged; an explicit empty emergency_phone clears
// the field.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	EmergencyPhone *string `json:"emergency_phone"`
}

// Get returns the authenticated account's profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	account, err := h.service.Get(r.Context(), claims.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to get profile")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}

// Update applies a partial profile update. Multipart bodies may carry a new
// profile image; JSON bodies update text fields only.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	var update services.ProfileUpdate
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		update, err = h.parseMultipartUpdate(r)
	} else {
		update, err = parseJSONUpdate(r)
	}
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid_request", err.Error())
		return
	}

	if verr := validateProfileUpdate(update); verr != nil {
		pkghttp.WriteValidationError(w, verr.Error())
		return
	}

	account, err := h.service.Update(r.Context(), claims.AccountID, update)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			pkghttp.WriteBadRequest(w, "file_too_large", "Profile image exceeds the size limit")
		case errors.Is(err, storage.ErrDisallowedType):
			pkghttp.WriteBadRequest(w, "invalid_file_type", "Profile image must be a JPEG or PNG")
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}

// DeleteImage removes the uploaded profile image and restores the default
func (h *ProfileHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "invalid_token", "Authentication required")
		return
	}

	account, err := h.service.DeleteImage(r.Context(), claims.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "account_not_found", "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to delete profile image")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile image removed",
		"account": account,
	})
}

func (h *ProfileHandler) parseMultipartUpdate(r *http.Request) (services.ProfileUpdate, error) {
	var update services.ProfileUpdate

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return update, errors.New("invalid multipart body")
	}

	if values, ok := r.MultipartForm.Value["name"]; ok && len(values) > 0 {
		name := values[0]
		update.Name = &name
	}
	if values, ok := r.MultipartForm.Value["emergency_phone"]; ok && len(values) > 0 {
		phone := values[0]
		update.EmergencyPhone = &phone
	}

	file, _, err := r.FormFile("profile_image")
	switch {
	case err == nil:
		// The request's multipart resources are released by the server
		// after the handler returns; the service reads the file before
		// then.
		update.Image = file
	case errors.Is(err, http.ErrMissingFile):
		// No new image in this update.
	default:
		return update, errors.New("invalid profile_image part")
	}

	return update, nil
}

func parseJSONUpdate(r *http.Request) (services.ProfileUpdate, error) {
	var update services.ProfileUpdate

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return update, errors.New("invalid request body")
	}

	update.Name = req.Name
	update.EmergencyPhone = req.EmergencyPhone
	return update, nil
}

func validateProfileUpdate(update services.ProfileUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return errors.New("validation failed: name: must not be empty")
		}
		if len(name) > 50 {
			return errors.New("validation failed: name: must have a maximum of 50 characters")
		}
	}
	if update.EmergencyPhone != nil {
		if !phoneRegex.MatchString(*update.EmergencyPhone) {
			return errors.New("validation failed: emergency_phone: must be a valid phone number")
		}
	}
	return nil
}
