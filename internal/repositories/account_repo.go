package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/precure-app/precure-api/internal/database"
	"github.com/precure-app/precure-api/internal/models"
)

type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, secondary_id, name, email, password_hash, emergency_phone, profile_image,
		reset_code_hash, reset_code_expires_at, password_changed_at, created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var resetCodeHash *string
	var resetCodeExpiresAt, passwordChangedAt *time.Time

	err := scanner.Scan(
		&account.ID, &account.SecondaryID, &account.Name, &account.Email,
		&account.PasswordHash, &account.EmergencyPhone, &account.ProfileImage,
		&resetCodeHash, &resetCodeExpiresAt, &passwordChangedAt,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	account.ResetCodeHash = resetCodeHash
	account.ResetCodeExpiresAt = resetCodeExpiresAt
	account.PasswordChangedAt = passwordChangedAt

	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail looks up an account case-insensitively. Emails are stored
// lowercased, so only the input needs folding.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.ID = uuid.New().String()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	if account.ProfileImage == "" {
		account.ProfileImage = models.DefaultProfileImage
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO accounts (id, secondary_id, name, email, password_hash, emergency_phone, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, accountColumns)

	created, err := scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		account.ID, account.SecondaryID, account.Name, account.Email,
		account.PasswordHash, account.EmergencyPhone, account.ProfileImage,
		account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateProfile writes the mutable profile fields. Callers apply the partial
// update semantics (unchanged fields keep their current value) before calling.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, account *models.Account) (*models.Account, error) {
	query := fmt.Sprintf(`
		UPDATE accounts SET name = $1, emergency_phone = $2, profile_image = $3, updated_at = $4
		WHERE id = $5
		RETURNING %s
	`, accountColumns)

	updated, err := scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		account.Name, account.EmergencyPhone, account.ProfileImage, time.Now(), id,
	))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdatePassword replaces the password hash wholesale and records the change
// timestamp.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE accounts SET password_hash = $1, password_changed_at = $2, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Pool.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ResetPassword replaces the password hash and clears the pending reset code
// in a single transaction so a redeemed code can never be replayed against
// the new password.
func (r *AccountRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now()

		result, err := tx.Exec(ctx, `
			UPDATE accounts SET password_hash = $1, password_changed_at = $2, updated_at = $2
			WHERE id = $3
		`, passwordHash, now, id)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE accounts SET reset_code_hash = NULL, reset_code_expires_at = NULL, updated_at = $1
			WHERE id = $2
		`, now, id)
		if err != nil {
			return database.MapPostgresError(err)
		}

		return nil
	})
}

// SetResetCode stores a new pending reset code, overwriting any previous one
// in a single statement. Last writer wins under concurrent requests.
func (r *AccountRepository) SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	query := `
		UPDATE accounts SET reset_code_hash = $1, reset_code_expires_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Pool.Exec(ctx, query, codeHash, expiresAt, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

