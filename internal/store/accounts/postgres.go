// Package accounts provides the PostgreSQL-backed repository used by the
// identity boundary. Accounts store the per-user salt and password verifier;
// profiles reference accounts by ID.
package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store"
)

// PostgresRepository implements account storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, salt, verifier)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Salt, account.Verifier).Scan(&account.ID)
	if err != nil {
		return nil, store.WrapError(err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, salt, verifier
		FROM accounts
		WHERE email = $1
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.Salt, &account.Verifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, store.WrapError(err)
	}
	return account, nil
}
