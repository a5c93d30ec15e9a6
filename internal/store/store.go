// Package store defines the client's view of the remote data store boundary.
// Every repository call performs exactly one remote operation and fails fast:
// no retries, no fallback values. Failures carry the store's structured error
// so callers can branch on machine-readable codes.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// CodeUniqueViolation is the store's error code for a uniqueness violation,
// used to surface "username already taken".
const CodeUniqueViolation = "23505"

// RemoteError is a failed remote operation's structured error: a
// machine-readable code plus the store's human-readable message.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote operation failed (code %s): %s", e.Code, e.Message)
}

// WrapError translates a driver error into the store layer's vocabulary:
// sql.ErrNoRows becomes common.ErrorNotFound, a structured postgres error
// becomes a *RemoteError preserving code and message, anything else is
// wrapped unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &RemoteError{Code: pgErr.Code, Message: pgErr.Message}
	}
	return fmt.Errorf("db error: %w", err)
}

// IsUniqueViolation reports whether err is a RemoteError carrying the
// uniqueness violation code.
func IsUniqueViolation(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.Code == CodeUniqueViolation
}
