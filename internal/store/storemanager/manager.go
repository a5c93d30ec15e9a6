package storemanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/store/accounts"
	"github.com/avolkov/pawshare/internal/store/comments"
	"github.com/avolkov/pawshare/internal/store/posts"
	"github.com/avolkov/pawshare/internal/store/profiles"
	"github.com/avolkov/pawshare/internal/store/reactions"
	"github.com/avolkov/pawshare/internal/store/sessions"
)

// Manager vends repository implementations bound to a DBTX, so services can
// run any repository against either the shared connection or a transaction.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Posts(db dbx.DBTX) posts.Repository
	Reactions(db dbx.DBTX) reactions.Repository
	Comments(db dbx.DBTX) comments.Repository
}
