// Package cli implements the terminal views: a REPL whose command set follows
// the sign-in state, a gallery view with reaction/comment/delete commands, and
// forms for posting and profile editing. Views hold only local state
// (drafts, previews, selection) and drop it on teardown; everything rendered
// comes from the query cache.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/avolkov/pawshare/internal/identity"
	"github.com/avolkov/pawshare/internal/logging"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/notify"
	"github.com/avolkov/pawshare/internal/querycache"
	"github.com/avolkov/pawshare/internal/social"
)

// socialService is the slice of the social layer the views consume.
type socialService interface {
	Posts(ctx context.Context) ([]*models.Post, error)
	UserPosts(ctx context.Context, profileID string) ([]*models.Post, error)
	Reactions(ctx context.Context) ([]*models.Reaction, error)
	Comments(ctx context.Context) ([]*models.Comment, error)
	Profile(ctx context.Context, profileID string) (*models.Profile, error)
	CreatePost(ctx context.Context, draft social.PostDraft) error
	DeletePost(ctx context.Context, postID string) error
	ToggleReaction(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID string, content string) error
	SaveProfile(ctx context.Context, draft social.ProfileDraft) error
}

// identityService is the slice of the identity boundary the views consume.
type identityService interface {
	Register(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context)
	Current() *identity.Session
	CurrentAccountID(ctx context.Context) (string, error)
	OnSessionChange(fn func(*identity.Session)) func()
}

type App struct {
	service  socialService
	identity identityService
	cache    *querycache.Cache
	notifier *notify.Queue
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu      sync.Mutex
	session *identity.Session
}

func NewApp(service socialService, idm identityService, cache *querycache.Cache,
	notifier *notify.Queue, logger logging.Logger) *App {
	return &App{
		service:  service,
		identity: idm,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// setSession records the session the prompt and gates render from. It is
// the identity manager's session-change callback, so sign-in, sign-out and
// a mid-use expiry all reach the REPL through the same path.
func (a *App) setSession(session *identity.Session) {
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
}

func (a *App) currentSession() *identity.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) isLoggedIn() bool {
	return a.currentSession() != nil
}

// getStatus renders the prompt's session marker: the profile's username when
// one exists, otherwise the signed-in email.
func (a *App) getStatus() string {
	session := a.currentSession()
	if session == nil {
		return ""
	}
	name := session.Email
	if profile, err := a.service.Profile(context.Background(), session.AccountID); err == nil {
		name = profile.Username
	}
	return "(" + name + ")"
}

func (a *App) Run(ctx context.Context) {
	unsub := a.identity.OnSessionChange(a.setSession)
	defer unsub()
	a.setSession(a.identity.Current())

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// showNotifications drains and prints pending transient messages.
func (a *App) showNotifications() {
	for _, msg := range a.notifier.Drain() {
		printlnFn("! " + msg)
	}
}
