package posts

import (
	"context"

	"github.com/avolkov/pawshare/internal/models"
)

type Repository interface {
	// SelectAll returns every post joined with its author profile,
	// newest first.
	SelectAll(ctx context.Context) ([]*models.Post, error)

	// SelectByProfile returns one profile's posts, newest first.
	SelectByProfile(ctx context.Context, profileID string) ([]*models.Post, error)

	// Create inserts a post and fills in the generated ID and timestamp.
	Create(ctx context.Context, post *models.Post) error

	// Delete removes the post only when ownerID matches the owning profile.
	// A non-matching owner (or missing post) yields common.ErrorNotFound.
	Delete(ctx context.Context, id, ownerID string) error
}
