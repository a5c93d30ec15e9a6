package profiles

import (
	"context"

	"github.com/avolkov/pawshare/internal/models"
)

type Repository interface {
	// Upsert inserts or updates the profile keyed by its ID.
	Upsert(ctx context.Context, profile *models.Profile) error

	// GetByID returns the profile for the given account ID, or
	// common.ErrorNotFound if it does not exist yet.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}
