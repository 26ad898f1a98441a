package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/precure-app/precure-api/internal/models"
	"github.com/precure-app/precure-api/internal/storage"
)

// ProfileService handles profile reads and updates, including the profile
// image lifecycle
type ProfileService struct {
	repo   AccountRepository
	images storage.ImageStore
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo AccountRepository, images storage.ImageStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// ProfileUpdate carries the fields of a partial profile update. Nil pointers
// mean "leave unchanged"; a nil Image means no new upload.
type ProfileUpdate struct {
	Name           *string
	EmergencyPhone *string
	Image          io.Reader
}

// Get returns the profile for an account.
func (s *ProfileService) Get(ctx context.Context, accountID string) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return toAccountResponse(account), nil
}

// Update applies a partial profile update. When a new image is part of the
// update it is stored before the record is written, and the previous file is
// removed afterwards on a best effort basis.
func (s *ProfileService) Update(ctx context.Context, accountID string, update ProfileUpdate) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.EmergencyPhone != nil {
		account.EmergencyPhone = *update.EmergencyPhone
	}

	previousImage := account.ProfileImage
	if update.Image != nil {
		filename, err := s.images.Store(ctx, update.Image, accountID)
		if err != nil {
			// Storage validation errors pass through so the handler
			// can report them as client errors.
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrDisallowedType) {
				return nil, err
			}
			s.logger.Error("failed to store profile image", slog.String("account_id", accountID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		account.ProfileImage = filename
	}

	updated, err := s.repo.UpdateProfile(ctx, accountID, account)
	if err != nil {
		if update.Image != nil {
			// The record still points at the old file; drop the
			// orphaned upload.
			s.removeImage(account.ProfileImage, accountID)
		}
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to update profile", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if update.Image != nil && previousImage != updated.ProfileImage {
		s.removeImage(previousImage, accountID)
	}

	s.logger.Info("profile updated", slog.String("account_id", accountID))
	return toAccountResponse(updated), nil
}

// DeleteImage removes the account's uploaded image and restores the default.
// Deleting while already on the default image is a no-op that still succeeds.
func (s *ProfileService) DeleteImage(ctx context.Context, accountID string) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get account", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	previousImage := account.ProfileImage
	account.ProfileImage = models.DefaultProfileImage

	updated, err := s.repo.UpdateProfile(ctx, accountID, account)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to reset profile image", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.removeImage(previousImage, accountID)

	s.logger.Info("profile image removed", slog.String("account_id", accountID))
	return toAccountResponse(updated), nil
}

// removeImage deletes a stored file unless it is the shared default. Failures
// are logged and swallowed; the database record is already authoritative.
func (s *ProfileService) removeImage(filename, accountID string) {
	if filename == "" || filename == models.DefaultProfileImage {
		return
	}
	if err := s.images.Delete(filename); err != nil {
		s.logger.Warn("failed to delete profile image file",
			slog.String("account_id", accountID),
			slog.String("filename", filename),
			slog.Any("error", err))
	}
}
