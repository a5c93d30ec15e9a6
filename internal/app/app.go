// Package app wires the PawShare client together: config, logger, database,
// migrations, object storage, identity, query cache, mutation executor,
// social service, and the CLI views.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/avolkov/pawshare/internal/cli"
	"github.com/avolkov/pawshare/internal/config"
	"github.com/avolkov/pawshare/internal/identity"
	"github.com/avolkov/pawshare/internal/logging"
	"github.com/avolkov/pawshare/internal/mutate"
	"github.com/avolkov/pawshare/internal/notify"
	"github.com/avolkov/pawshare/internal/objstore"
	"github.com/avolkov/pawshare/internal/querycache"
	"github.com/avolkov/pawshare/internal/social"
	"github.com/avolkov/pawshare/internal/store/storemanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	cli    *cli.App
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stderr)

	db, err := storemanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	stores := storemanager.NewPostgresManager()
	if err := stores.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cache := querycache.New(logger)
	notifier := notify.NewQueue(logger)
	executor := mutate.NewExecutor(cache, notifier, logger)
	objects := objstore.NewStore(cfg)
	idm := identity.NewManager(db, stores, cfg, logger)
	service := social.NewService(db, stores, cache, executor, objects, idm, cfg, logger)

	ui := cli.NewApp(service, idm, cache, notifier, logger)

	return &App{config: cfg, logger: logger, db: db, cli: ui}, nil
}

func (a *App) Run(ctx context.Context) {
	a.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "db close error", "error", err)
		}
	}()

	a.cli.Run(ctx)
}
