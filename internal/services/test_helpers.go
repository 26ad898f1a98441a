package services

import (
	"context"
	"io"
	"time"

	"github.com/precure-app/precure-api/internal/models"
)

// MockAccountRepository implements AccountRepository for testing
type MockAccountRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.Account, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.Account, error)
	CreateFunc         func(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateProfileFunc  func(ctx context.Context, id string, account *models.Account) (*models.Account, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	ResetPasswordFunc  func(ctx context.Context, id, passwordHash string) error
	SetResetCodeFunc   func(ctx context.Context, id, codeHash string, expiresAt time.Time) error
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, id string, account *models.Account) (*models.Account, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, account)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockAccountRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockAccountRepository) SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	if m.SetResetCodeFunc != nil {
		return m.SetResetCodeFunc(ctx, id, codeHash, expiresAt)
	}
	return nil
}

// MockRevokedTokenRepository implements RevokedTokenRepository for testing
type MockRevokedTokenRepository struct {
	AppendFunc    func(ctx context.Context, accountID, token string) error
	IsRevokedFunc func(ctx context.Context, accountID, token string) (bool, error)
}

func (m *MockRevokedTokenRepository) Append(ctx context.Context, accountID, token string) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, accountID, token)
	}
	return nil
}

func (m *MockRevokedTokenRepository) IsRevoked(ctx context.Context, accountID, token string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, accountID, token)
	}
	return false, nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendPasswordResetCodeFunc func(ctx context.Context, email, name, code string, ttl time.Duration) error
}

func (m *MockEmailService) SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	if m.SendPasswordResetCodeFunc != nil {
		return m.SendPasswordResetCodeFunc(ctx, email, name, code, ttl)
	}
	return nil
}

// MockImageStore implements storage.ImageStore for testing
type MockImageStore struct {
	StoreFunc  func(ctx context.Context, src io.Reader, accountID string) (string, error)
	DeleteFunc func(filename string) error
}

func (m *MockImageStore) Store(ctx context.Context, src io.Reader, accountID string) (string, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, src, accountID)
	}
	return "stored.png", nil
}

func (m *MockImageStore) Delete(filename string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(filename)
	}
	return nil
}

// testAccount builds a populated account for service tests.
func testAccount(passwordHash string) *models.Account {
	now := time.Now().UTC()
	return &models.Account{
		ID:             "account-123",
		SecondaryID:    "$2a$10$secondaryidhash",
		Name:           "Nagisa Misumi",
		Email:          "nagisa@example.com",
		PasswordHash:   passwordHash,
		EmergencyPhone: "+15551234567",
		ProfileImage:   models.DefaultProfileImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
