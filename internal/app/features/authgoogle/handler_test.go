package authgoogle_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/features/authgoogle"
	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/identity"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

const frontend = "http://frontend.test"

type memStates struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memStates) Save(_ context.Context, state, returnURL string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[state] = returnURL
	return nil
}

func (s *memStates) Consume(_ context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret, ok := s.m[state]
	delete(s.m, state)
	return ret, ok, nil
}

type memLogins struct{ emails []string }

func (l *memLogins) Record(ctx context.Context, _ *http.Request, acct models.Account, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.emails = append(l.emails, acct.Email)
	return nil
}

type fakeProvider struct {
	acct    models.Account
	err     error
	delay   time.Duration
	revoked []string
}

func (f *fakeProvider) Name() string { return "google" }
func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}
func (f *fakeProvider) Exchange(context.Context, string) (models.Account, string, error) {
	time.Sleep(f.delay)
	return f.acct, "tok", f.err
}
func (f *fakeProvider) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

type fixture struct {
	h      *authgoogle.Handler
	sm     *auth.SessionManager
	states *memStates
	logins *memLogins
	prov   *fakeProvider
}

func newFixture(t *testing.T, prov *fakeProvider) *fixture {
	t.Helper()
	logger := zap.NewNop()
	allow := allowlist.New(allowlist.DefaultSuffix)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", time.Hour, false, allow, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	f := &fixture{
		sm:     sm,
		states: &memStates{m: map[string]string{}},
		logins: &memLogins{},
		prov:   prov,
	}
	gw := identity.NewGateway(prov, allow, logger)
	f.h = authgoogle.NewHandler(gw, sm, f.states, f.logins, timeouts.Defaults(), frontend+"/", logger)
	return f
}

// begin runs ServeLogin and returns the state the provider was given.
func (f *fixture) begin(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("ServeLogin status = %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("no state in provider URL")
	}
	return state
}

func (f *fixture) callback(q string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+q, nil))
	return rec
}

func loginError(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, frontend+"/login?") {
		t.Fatalf("Location = %q, want front end login page", loc)
	}
	u, _ := url.Parse(loc)
	return u.Query()
}

func TestServeLogin_SavesState(t *testing.T) {
	f := newFixture(t, &fakeProvider{})
	state := f.begin(t)
	if _, ok := f.states.m[state]; !ok {
		t.Fatal("state not persisted")
	}
}

func TestCallback_Success(t *testing.T) {
	f := newFixture(t, &fakeProvider{acct: models.Account{ID: "g1", Email: "student@srmist.edu.in", DisplayName: "S"}})
	state := f.begin(t)

	rec := f.callback("state=" + url.QueryEscape(state) + "&code=abc")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, frontend) || strings.Contains(loc, "error=") {
		t.Fatalf("Location = %q", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Fatal("expected session cookie")
	}
	if len(f.logins.emails) != 1 || f.logins.emails[0] != "student@srmist.edu.in" {
		t.Fatalf("logins = %v", f.logins.emails)
	}

	// The session cookie restores the account.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	var got *models.Account
	f.sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentAccount(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Email != "student@srmist.edu.in" {
		t.Fatalf("restored account = %+v", got)
	}
}

func TestCallback_SlowExchangeStillRecordsLogin(t *testing.T) {
	f := newFixture(t, &fakeProvider{
		acct:  models.Account{ID: "g1", Email: "student@srmist.edu.in"},
		delay: 100 * time.Millisecond,
	})
	f.h.Timeouts = timeouts.Defaults().Merge(timeouts.Timeouts{Short: 50 * time.Millisecond, Long: time.Second})
	state := f.begin(t)

	rec := f.callback("state=" + url.QueryEscape(state) + "&code=abc")
	if loc := rec.Header().Get("Location"); rec.Code != http.StatusSeeOther || strings.Contains(loc, "error=") {
		t.Fatalf("status = %d, Location = %q", rec.Code, loc)
	}
	if len(f.logins.emails) != 1 {
		t.Fatalf("logins = %v, want one record", f.logins.emails)
	}
}

func TestCallback_StateIsSingleUse(t *testing.T) {
	f := newFixture(t, &fakeProvider{acct: models.Account{Email: "student@srmist.edu.in"}})
	state := f.begin(t)
	_ = f.callback("state=" + url.QueryEscape(state) + "&code=abc")

	q := loginError(t, f.callback("state="+url.QueryEscape(state)+"&code=abc"))
	if q.Get("error") != "invalid_state" {
		t.Fatalf("error = %q", q.Get("error"))
	}
}

func TestCallback_DomainRejected(t *testing.T) {
	f := newFixture(t, &fakeProvider{acct: models.Account{Email: "someone@gmail.com"}})
	state := f.begin(t)

	rec := f.callback("state=" + url.QueryEscape(state) + "&code=abc")
	q := loginError(t, rec)
	if q.Get("error") != "domain_rejected" {
		t.Fatalf("error = %q", q.Get("error"))
	}
	if q.Get("message") != allowlist.New(allowlist.DefaultSuffix).RejectionMessage() {
		t.Fatalf("message = %q", q.Get("message"))
	}
	if len(f.prov.revoked) != 1 {
		t.Fatalf("provider session not revoked: %v", f.prov.revoked)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("rejected sign-in must not set a session cookie")
	}
	if len(f.logins.emails) != 0 {
		t.Fatal("rejected sign-in must not be recorded")
	}
}

func TestCallback_ProviderError(t *testing.T) {
	f := newFixture(t, &fakeProvider{})
	q := loginError(t, f.callback("error=access_denied"))
	if q.Get("error") != "auth_aborted" {
		t.Fatalf("error = %q", q.Get("error"))
	}
}

func TestCallback_ExchangeFailure(t *testing.T) {
	f := newFixture(t, &fakeProvider{err: errors.New("popup closed")})
	state := f.begin(t)
	q := loginError(t, f.callback("state="+url.QueryEscape(state)+"&code=abc"))
	if q.Get("error") != "auth_aborted" || q.Get("message") != identity.MsgAuthAborted {
		t.Fatalf("query = %v", q)
	}
}

func TestCallback_MissingStateOrCode(t *testing.T) {
	f := newFixture(t, &fakeProvider{acct: models.Account{Email: "student@srmist.edu.in"}})
	if q := loginError(t, f.callback("code=abc")); q.Get("error") != "invalid_state" {
		t.Fatalf("missing state: %v", q)
	}
	state := f.begin(t)
	if q := loginError(t, f.callback("state="+url.QueryEscape(state))); q.Get("error") != "auth_aborted" {
		t.Fatalf("missing code: %v", q)
	}
}
