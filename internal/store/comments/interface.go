package comments

import (
	"context"

	"github.com/avolkov/pawshare/internal/models"
)

type Repository interface {
	// SelectAll returns every comment joined with its author profile,
	// oldest first.
	SelectAll(ctx context.Context) ([]*models.Comment, error)

	// Create inserts a comment and fills in the generated ID and
	// timestamp. Content must already be trimmed and non-empty.
	Create(ctx context.Context, comment *models.Comment) error
}
