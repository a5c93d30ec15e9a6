package sessions

import (
	"context"
	"time"

	"github.com/avolkov/pawshare/internal/models"
)

type Repository interface {
	Create(ctx context.Context, accountID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.SessionToken, error)
	Delete(ctx context.Context, token string) error
}
