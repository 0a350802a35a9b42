package logout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/features/logout"
	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/testutil"
	"go.uber.org/zap"
)

type fakeRevoker struct {
	tokens []string
	err    error
}

func (f *fakeRevoker) SignOut(_ context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

type fakeState struct{ dropped []string }

func (f *fakeState) Drop(sid string) { f.dropped = append(f.dropped, sid) }

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", 24*time.Hour, false, allowlist.New(allowlist.DefaultSuffix), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// signedInCookies performs a sign-in and returns the resulting cookies.
func signedInCookies(t *testing.T, sm *auth.SessionManager) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("GET", "/setup", nil), testutil.Student(), "provider-token"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rec.Result().Cookies()
}

func TestServeLogout_BrowserRedirectsToFrontEnd(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), nil, nil, timeouts.Defaults(), "http://frontend.test/", zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://frontend.test/" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeLogout_JSON(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), nil, nil, timeouts.Defaults(), "", zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, httptest.NewRequest("POST", "/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["account"]) != "null" || string(raw["loading"]) != "false" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestServeLogout_HTMX_ReturnsHXRedirect(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), nil, nil, timeouts.Defaults(), "", zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if hx := rec.Header().Get("HX-Redirect"); hx != "/" {
		t.Errorf("HX-Redirect: got %q, want %q", hx, "/")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeLogout_RevokesAndDropsState(t *testing.T) {
	sm := newSessionManager(t)
	rev := &fakeRevoker{}
	state := &fakeState{}
	handler := logout.NewHandler(sm, rev, state, timeouts.Defaults(), "", zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range signedInCookies(t, sm) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if len(rev.tokens) != 1 || rev.tokens[0] != "provider-token" {
		t.Errorf("revoked = %v", rev.tokens)
	}
	if len(state.dropped) != 1 || state.dropped[0] == "" {
		t.Errorf("dropped = %v", state.dropped)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge after logout: got %d, want -1", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestServeLogout_RevokeFailureStillSignsOut(t *testing.T) {
	sm := newSessionManager(t)
	rev := &fakeRevoker{err: errors.New("provider down")}
	handler := logout.NewHandler(sm, rev, nil, timeouts.Defaults(), "", zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range signedInCookies(t, sm) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Fatal("cookie not cleared")
	}
}
