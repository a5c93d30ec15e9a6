// Package storemanager provides a concrete Manager for PostgreSQL, wiring
// together repository constructors and database migrations (via goose).
package storemanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/store/accounts"
	"github.com/avolkov/pawshare/internal/store/comments"
	"github.com/avolkov/pawshare/internal/store/migrations"
	"github.com/avolkov/pawshare/internal/store/posts"
	"github.com/avolkov/pawshare/internal/store/profiles"
	"github.com/avolkov/pawshare/internal/store/reactions"
	"github.com/avolkov/pawshare/internal/store/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresManager vends PostgreSQL-backed repository implementations and
// exposes a schema migration hook.
type PostgresManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *PostgresManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// Posts returns a posts.Repository bound to the provided DBTX.
func (m *PostgresManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

// Reactions returns a reactions.Repository bound to the provided DBTX.
func (m *PostgresManager) Reactions(db dbx.DBTX) reactions.Repository {
	return reactions.NewPostgresRepository(db)
}

// Comments returns a comments.Repository bound to the provided DBTX.
func (m *PostgresManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresManager constructs a PostgreSQL-backed Manager.
func NewPostgresManager() Manager {
	return &PostgresManager{}
}

// Open opens a database connection using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}
