// Package sessions provides a PostgreSQL-backed repository for the rotating
// refresh tokens used by the identity boundary.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements session token storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token for accountID expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, accountID string, token string, validity time.Duration) error {
	query := `
		INSERT INTO session_tokens (account_id, token, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, token, time.Now().Add(validity)); err != nil {
		return store.WrapError(err)
	}
	return nil
}

// Find returns the session token row for the given token string.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.SessionToken, error) {
	query := `
		SELECT account_id, expires_at
		FROM session_tokens
		WHERE token = $1
	`
	sessionToken := &models.SessionToken{Token: token}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&sessionToken.AccountID, &sessionToken.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, store.WrapError(err)
	}
	return sessionToken, nil
}

// Delete removes a session token by its token string.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM session_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return store.WrapError(err)
	}
	return nil
}
