package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/precure-app/precure-api/internal/database"
)

// RevokedTokenRepository is the per-account token blacklist. Every logout
// appends the raw bearer token; membership checks are scoped to one account,
// never global.
type RevokedTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRevokedTokenRepository(db *database.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{pool: db.Pool}
}

// Append adds a token to the account's blacklist. A single INSERT, so two
// concurrent logouts append two rows without a lost-update window. No dedup:
// a double logout appends twice, which is harmless for a membership check.
func (r *RevokedTokenRepository) Append(ctx context.Context, accountID, token string) error {
	query := `
		INSERT INTO revoked_tokens (id, account_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, uuid.New().String(), accountID, token, time.Now())
	if err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

// IsRevoked checks whether a raw token appears in the account's blacklist.
func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, accountID, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE account_id = $1 AND token = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, accountID, token).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

// DeleteOlderThan prunes blacklist entries past the cutoff. An entry older
// than the token lifetime can never match a token that still passes expiry
// verification, so pruning it is safe.
func (r *RevokedTokenRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}
