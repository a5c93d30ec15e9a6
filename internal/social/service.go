// Package social implements the data-access functions and mutation
// definitions of the client. Reads go through the query cache; writes run
// through the mutation executor with fixed invalidation sets.
package social

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/config"
	"github.com/avolkov/pawshare/internal/logging"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/mutate"
	"github.com/avolkov/pawshare/internal/objstore"
	"github.com/avolkov/pawshare/internal/querycache"
	"github.com/avolkov/pawshare/internal/store/storemanager"
)

// FieldError is a validation failure tied to one input field, caught before
// any remote call. Views render it inline next to the field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Uploader is the slice of the object storage boundary this package needs.
type Uploader interface {
	Upload(ctx context.Context, bucket string, path string, data []byte, opts objstore.UploadOptions) error
	PublicURL(bucket string, path string) string
}

// Identity supplies the implicit caller identity for every operation.
type Identity interface {
	CurrentAccountID(ctx context.Context) (string, error)
}

// Service exposes the entity reads and mutations the views consume.
type Service struct {
	db       *sql.DB
	stores   storemanager.Manager
	cache    *querycache.Cache
	exec     *mutate.Executor
	objects  Uploader
	identity Identity
	config   *config.Config
	logger   logging.Logger
}

func NewService(db *sql.DB, stores storemanager.Manager, cache *querycache.Cache,
	exec *mutate.Executor, objects Uploader, idm Identity,
	cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		stores:   stores,
		cache:    cache,
		exec:     exec,
		objects:  objects,
		identity: idm,
		config:   cfg,
		logger:   logger,
	}
}

// Posts returns the public gallery, newest first.
func (s *Service) Posts(ctx context.Context) ([]*models.Post, error) {
	return querycache.Read(ctx, s.cache, KeyPosts, func(ctx context.Context) ([]*models.Post, error) {
		return s.stores.Posts(s.db).SelectAll(ctx)
	})
}

// UserPosts returns one profile's posts, newest first.
func (s *Service) UserPosts(ctx context.Context, profileID string) ([]*models.Post, error) {
	return querycache.Read(ctx, s.cache, KeyUserPosts(profileID), func(ctx context.Context) ([]*models.Post, error) {
		return s.stores.Posts(s.db).SelectByProfile(ctx, profileID)
	})
}

// Reactions returns every reaction row.
func (s *Service) Reactions(ctx context.Context) ([]*models.Reaction, error) {
	return querycache.Read(ctx, s.cache, KeyReactions, func(ctx context.Context) ([]*models.Reaction, error) {
		return s.stores.Reactions(s.db).SelectAll(ctx)
	})
}

// Comments returns every comment joined with its author, oldest first.
func (s *Service) Comments(ctx context.Context) ([]*models.Comment, error) {
	return querycache.Read(ctx, s.cache, KeyComments, func(ctx context.Context) ([]*models.Comment, error) {
		return s.stores.Comments(s.db).SelectAll(ctx)
	})
}

// Profile returns a single profile, or common.ErrorNotFound when the account
// has not created one yet.
func (s *Service) Profile(ctx context.Context, profileID string) (*models.Profile, error) {
	return querycache.Read(ctx, s.cache, KeyProfile(profileID), func(ctx context.Context) (*models.Profile, error) {
		return s.stores.Profiles(s.db).GetByID(ctx, profileID)
	})
}
