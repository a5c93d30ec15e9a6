// Package profiles provides the PostgreSQL-backed repository for user
// profiles. Profiles are created and updated through an upsert keyed on the
// account ID; the username uniqueness constraint surfaces as a RemoteError
// with code 23505.
package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements profile storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, username, email, bio, location, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id)
		DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Username, profile.Email, profile.Bio, profile.Location, profile.AvatarURL); err != nil {
		return store.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, username, email, bio, location, avatar_url, updated_at
		FROM profiles
		WHERE id = $1
	`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Username, &profile.Email, &profile.Bio,
		&profile.Location, &profile.AvatarURL, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, store.WrapError(err)
	}
	return profile, nil
}
