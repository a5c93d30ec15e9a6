package reactions

import (
	"context"

	"github.com/avolkov/pawshare/internal/models"
)

type Repository interface {
	// SelectAll returns every reaction row.
	SelectAll(ctx context.Context) ([]*models.Reaction, error)

	// Create inserts a reaction. A concurrent duplicate for the same
	// (post, profile) pair is silently dropped by the store's unique
	// index, keeping the at-most-one invariant.
	Create(ctx context.Context, reaction *models.Reaction) error

	// Delete removes a reaction by its ID.
	Delete(ctx context.Context, id string) error
}
