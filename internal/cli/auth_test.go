package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/identity"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/social"
)

type fakeIdentityService struct {
	session     *identity.Session
	onChange    func(*identity.Session)
	registerErr error
	loginErr    error

	registered []string
	loggedOut  bool
}

func (f *fakeIdentityService) switchSession(s *identity.Session) {
	f.session = s
	if f.onChange != nil {
		f.onChange(s)
	}
}

func (f *fakeIdentityService) Register(ctx context.Context, email string, password []byte) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, email)
	f.switchSession(&identity.Session{AccountID: "a1", Email: email})
	return nil
}

func (f *fakeIdentityService) Login(ctx context.Context, email string, password []byte) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.switchSession(&identity.Session{AccountID: "a1", Email: email})
	return nil
}

func (f *fakeIdentityService) Logout(ctx context.Context) {
	f.loggedOut = true
	f.switchSession(nil)
}

func (f *fakeIdentityService) Current() *identity.Session { return f.session }

func (f *fakeIdentityService) CurrentAccountID(context.Context) (string, error) {
	if f.session == nil {
		return "", common.ErrNotSignedIn
	}
	return f.session.AccountID, nil
}

func (f *fakeIdentityService) OnSessionChange(fn func(*identity.Session)) func() {
	f.onChange = fn
	return func() { f.onChange = nil }
}

type fakeSocialService struct {
	profile *models.Profile
}

func (f *fakeSocialService) Posts(context.Context) ([]*models.Post, error)         { return nil, nil }
func (f *fakeSocialService) UserPosts(context.Context, string) ([]*models.Post, error) {
	return nil, nil
}
func (f *fakeSocialService) Reactions(context.Context) ([]*models.Reaction, error) { return nil, nil }
func (f *fakeSocialService) Comments(context.Context) ([]*models.Comment, error)   { return nil, nil }
func (f *fakeSocialService) Profile(context.Context, string) (*models.Profile, error) {
	if f.profile == nil {
		return nil, common.ErrorNotFound
	}
	return f.profile, nil
}
func (f *fakeSocialService) CreatePost(context.Context, social.PostDraft) error     { return nil }
func (f *fakeSocialService) DeletePost(context.Context, string) error               { return nil }
func (f *fakeSocialService) ToggleReaction(context.Context, string) error           { return nil }
func (f *fakeSocialService) AddComment(context.Context, string, string) error       { return nil }
func (f *fakeSocialService) SaveProfile(context.Context, social.ProfileDraft) error { return nil }

func stubInput(t *testing.T, lines []string, pw []byte) {
	t.Helper()
	origText := getSimpleText
	origPw := getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		line := lines[i]
		i++
		return line, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return pw, nil }
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPw
	})
}

func newTestApp(ident *fakeIdentityService, svc *fakeSocialService) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	app := &App{
		service:  svc,
		identity: ident,
		out:      &out,
	}
	// Mirror Run's wiring: prompt state follows the session subscription.
	app.identity.OnSessionChange(app.setSession)
	app.setSession(ident.Current())
	return app, &out
}

func TestRegister_SignsIn(t *testing.T) {
	silencePrintln(t)
	stubInput(t, []string{"x@y.z"}, []byte("pw"))

	ident := &fakeIdentityService{}
	app, _ := newTestApp(ident, &fakeSocialService{})

	if err := app.Register(context.Background()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if ident.session == nil || ident.session.Email != "x@y.z" {
		t.Fatalf("expected session, got %+v", ident.session)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	silencePrintln(t)
	stubInput(t, []string{"x@y.z"}, []byte("bad"))

	ident := &fakeIdentityService{loginErr: common.ErrorUnauthorized}
	app, _ := newTestApp(ident, &fakeSocialService{})

	if err := app.Login(context.Background()); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if ident.session != nil {
		t.Fatal("expected no session")
	}
}

func TestLogout(t *testing.T) {
	silencePrintln(t)

	ident := &fakeIdentityService{session: &identity.Session{AccountID: "a1", Email: "x@y.z"}}
	app, _ := newTestApp(ident, &fakeSocialService{})

	if err := app.Logout(context.Background()); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if !ident.loggedOut || ident.session != nil {
		t.Fatal("expected logged out state")
	}
}

func TestSessionSubscription_DrivesPromptState(t *testing.T) {
	silencePrintln(t)
	stubInput(t, []string{"x@y.z"}, []byte("pw"))

	ident := &fakeIdentityService{}
	app, _ := newTestApp(ident, &fakeSocialService{})

	if app.isLoggedIn() {
		t.Fatal("expected signed-out state before login")
	}

	if err := app.Login(context.Background()); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !app.isLoggedIn() {
		t.Fatal("expected prompt state to follow sign-in")
	}
	if got := app.getStatus(); got != "(x@y.z)" {
		t.Fatalf("want email status after sign-in, got %q", got)
	}

	// A session ended outside the REPL, e.g. an expired refresh token
	// discovered during a mutation, must also reach the prompt.
	ident.switchSession(nil)
	if app.isLoggedIn() {
		t.Fatal("expected prompt state to follow session end")
	}
}

func TestGetStatus(t *testing.T) {
	ident := &fakeIdentityService{}
	app, _ := newTestApp(ident, &fakeSocialService{})

	if got := app.getStatus(); got != "" {
		t.Fatalf("want empty status, got %q", got)
	}

	ident.switchSession(&identity.Session{AccountID: "a1", Email: "x@y.z"})
	if got := app.getStatus(); got != "(x@y.z)" {
		t.Fatalf("want email status, got %q", got)
	}

	app2, _ := newTestApp(ident, &fakeSocialService{profile: &models.Profile{ID: "a1", Username: "ann"}})
	if got := app2.getStatus(); got != "(ann)" {
		t.Fatalf("want username status, got %q", got)
	}
}
