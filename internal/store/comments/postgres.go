// Package comments provides the PostgreSQL-backed repository for post
// comments. Comments are append-only: no edit or delete operations exist.
package comments

import (
	"context"

	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements comment storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.profile_id, c.content, c.created_at,
		       pr.username, pr.avatar_url
		FROM post_comments c
		JOIN profiles pr ON pr.id = c.profile_id
		ORDER BY c.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		var item models.Comment
		if err := rows.Scan(
			&item.ID, &item.PostID, &item.ProfileID, &item.Content, &item.CreatedAt,
			&item.AuthorUsername, &item.AuthorAvatarURL,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO post_comments (post_id, profile_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.ProfileID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return store.WrapError(err)
	}
	return nil
}
