// Package posts provides the PostgreSQL-backed repository for pet posts.
// Reads join the profiles table so views can show the author's name and
// avatar without a second query. Deletion is predicated on both the post ID
// and the owning profile ID: ownership is enforced here, not in the views.
package posts

import (
	"context"
	"fmt"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `
	p.id, p.profile_id, p.pet_name, p.pet_breed, p.pet_age, p.photo_url, p.caption, p.created_at,
	pr.username, pr.avatar_url
`

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM pet_posts p
		JOIN profiles pr ON pr.id = p.profile_id
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.WrapError(err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostgresRepository) SelectByProfile(ctx context.Context, profileID string) ([]*models.Post, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM pet_posts p
		JOIN profiles pr ON pr.id = p.profile_id
		WHERE p.profile_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, store.WrapError(err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO pet_posts (profile_id, pet_name, pet_breed, pet_age, photo_url, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		post.ProfileID, post.PetName, post.PetBreed, post.PetAge, post.PhotoURL, post.Caption).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return store.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM pet_posts
		WHERE id = $1 AND profile_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return store.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPosts(rows rowScanner) ([]*models.Post, error) {
	var result []*models.Post
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(
			&item.ID, &item.ProfileID, &item.PetName, &item.PetBreed, &item.PetAge,
			&item.PhotoURL, &item.Caption, &item.CreatedAt,
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
