// Package reactions provides the PostgreSQL-backed repository for post
// reactions. The table carries a unique index on (post_id, profile_id) and
// inserts go through ON CONFLICT DO NOTHING, so a rapid double-toggle can
// never produce a duplicate row even though the client's toggle decision is
// a non-atomic check-then-act on cached data.
package reactions

import (
	"context"

	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements reaction storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Reaction, error) {
	query := `
		SELECT id, post_id, profile_id
		FROM post_reactions
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Reaction
	for rows.Next() {
		var item models.Reaction
		if err := rows.Scan(&item.ID, &item.PostID, &item.ProfileID); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	query := `
		INSERT INTO post_reactions (post_id, profile_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, profile_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, reaction.PostID, reaction.ProfileID); err != nil {
		return store.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM post_reactions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return store.WrapError(err)
	}
	return nil
}
