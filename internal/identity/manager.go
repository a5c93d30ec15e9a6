// Package identity implements client-side authentication: registration,
// credential verification, token issuance with rotating refresh tokens, and
// session change notifications for the views.
package identity

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/config"
	"github.com/avolkov/pawshare/internal/dbx"
	"github.com/avolkov/pawshare/internal/logging"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/store/storemanager"
)

// Session describes the currently signed-in account. A nil Session means
// signed out.
type Session struct {
	AccountID string
	Email     string
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Manager owns the authentication state of the client. Views consult it to
// decide what to render; it never blocks a data read on their behalf.
type Manager struct {
	db     *sql.DB
	stores storemanager.Manager
	logger logging.Logger

	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	mu           sync.Mutex
	session      *Session
	accessToken  string
	refreshToken string
	subscribers  map[int]func(*Session)
	nextSubID    int
}

// NewManager constructs a Manager using repositories and client config.
func NewManager(db *sql.DB, stores storemanager.Manager, cfg *config.Config, logger logging.Logger) *Manager {
	return &Manager{
		db:                           db,
		stores:                       stores,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		subscribers:                  make(map[int]func(*Session)),
	}
}

// Register creates an account with a random salt and an argon2id-derived
// verifier, then signs the new account in.
func (m *Manager) Register(ctx context.Context, email string, password []byte) error {
	if email == "" || len(password) == 0 {
		return fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	salt := common.GenerateRandByteArray(32)
	key := DeriveKey(password, salt)
	verifier := MakeVerifier(key)

	repo := m.stores.Accounts(m.db)
	account, err := repo.Create(ctx, &models.Account{Email: email, Salt: salt, Verifier: verifier})
	if err != nil {
		return err
	}

	pair, err := m.generateTokenPair(ctx, account.ID, m.db)
	if err != nil {
		return err
	}

	m.setSession(&Session{AccountID: account.ID, Email: email}, pair)
	return nil
}

// Login verifies the password against the stored verifier and, on success,
// mints a token pair and switches the session.
func (m *Manager) Login(ctx context.Context, email string, password []byte) error {
	repo := m.stores.Accounts(m.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}

	key := DeriveKey(password, account.Salt)
	candidate := MakeVerifier(key)
	if subtle.ConstantTimeCompare(account.Verifier, candidate) == 0 {
		return common.ErrorUnauthorized
	}

	pair, err := m.generateTokenPair(ctx, account.ID, m.db)
	if err != nil {
		return err
	}

	m.setSession(&Session{AccountID: account.ID, Email: email}, pair)
	return nil
}

// Logout revokes the refresh token and clears the session. Revocation
// failures are logged but do not keep the client signed in.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refresh := m.refreshToken
	m.mu.Unlock()

	if refresh != "" {
		repo := m.stores.Sessions(m.db)
		if err := repo.Delete(ctx, refresh); err != nil {
			m.logger.Warn(ctx, "error revoking refresh token", "error", err)
		}
	}

	m.setSession(nil, nil)
}

// Refresh validates the refresh token, rotates it transactionally, and
// installs a fresh token pair. Expired tokens end the session.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	refresh := m.refreshToken
	m.mu.Unlock()

	if session == nil {
		return common.ErrNotSignedIn
	}

	repo := m.stores.Sessions(m.db)
	token, err := repo.Find(ctx, refresh)
	if err != nil {
		return fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		m.setSession(nil, nil)
		return common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := m.stores.Sessions(tx)
		if err := repoTx.Delete(ctx, refresh); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = m.generateTokenPair(ctx, token.AccountID, tx)
		return genErr
	}); err != nil {
		return err
	}

	m.setSession(session, pair)
	return nil
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// CurrentAccountID returns the signed-in account's ID or ErrNotSignedIn.
// It revalidates the access token first, rotating via the refresh token
// when expired; an expired refresh token ends the session, so a stale
// client falls back to signed out instead of issuing writes it no longer
// may make.
func (m *Manager) CurrentAccountID(ctx context.Context) (string, error) {
	if _, err := m.AccessToken(ctx); err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			return "", common.ErrNotSignedIn
		}
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", common.ErrNotSignedIn
	}
	return m.session.AccountID, nil
}

// AccessToken returns the current access token, minting a replacement via
// Refresh when the stored one has expired.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	session := m.session
	access := m.accessToken
	m.mu.Unlock()

	if session == nil {
		return "", common.ErrNotSignedIn
	}

	if _, err := GetAccountIDFromToken(access, m.jwtSecret); err == nil {
		return access, nil
	}

	if err := m.Refresh(ctx); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, nil
}

// OnSessionChange registers a callback invoked after every session switch.
// The returned function unsubscribes it.
func (m *Manager) OnSessionChange(fn func(*Session)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) setSession(session *Session, pair *TokenPair) {
	m.mu.Lock()
	m.session = session
	if pair != nil {
		m.accessToken = pair.AccessToken
		m.refreshToken = pair.RefreshToken
	} else {
		m.accessToken = ""
		m.refreshToken = ""
	}
	subs := make([]func(*Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	// Callbacks run outside the lock so they can call back into the manager.
	for _, fn := range subs {
		fn(session)
	}
}

func (m *Manager) generateTokenPair(ctx context.Context, accountID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := GenerateToken(accountID, m.jwtSecret, m.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	repo := m.stores.Sessions(tx)
	if err := repo.Create(ctx, accountID, refresh, m.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
