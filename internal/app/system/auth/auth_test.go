package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

const testKey = "test-session-key-must-be-32-chars-long"

func newTestSessionManager(t *testing.T, suffix string) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "test-session", "", 24*time.Hour, false, allowlist.New(suffix), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// signInCookies runs SignIn against a recorder and returns the cookies it set.
func signInCookies(t *testing.T, sm *auth.SessionManager, acct models.Account, token string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	if err := sm.SignIn(rec, req, acct, token); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}
	return cookies
}

func protected(sm *auth.SessionManager) http.Handler {
	return sm.LoadSessionUser(sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, _ := auth.CurrentAccount(r)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(acct.Email))
	})))
}

func TestRequireSignedIn_NoAccount_HTML_RedirectsToSignIn(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)

	req := httptest.NewRequest(http.MethodGet, "/doubts/mine", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	protected(sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/auth/google?return=") || !strings.Contains(loc, "%2Fdoubts%2Fmine") {
		t.Errorf("Location: got %q", loc)
	}
}

func TestRequireSignedIn_NoAccount_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)

	req := httptest.NewRequest(http.MethodGet, "/doubts", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	protected(sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSignedIn_NoAccount_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)

	req := httptest.NewRequest(http.MethodGet, "/doubts", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	protected(sm).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.HasPrefix(rec.Header().Get("HX-Redirect"), "/auth/google") {
		t.Errorf("HX-Redirect: got %q", rec.Header().Get("HX-Redirect"))
	}
}

func TestRequireSignedIn_BeforeRestore_IsPending(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)

	// RequireSignedIn without LoadSessionUser: restoration never ran.
	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run while restoration is pending")
	}))

	req := httptest.NewRequest(http.MethodGet, "/doubts", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if rec.Header().Get("Location") != "" {
		t.Error("must not redirect while pending")
	}
}

func TestRequireSignedIn_WithTestAccount(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)
	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := auth.WithTestAccount(httptest.NewRequest(http.MethodGet, "/", nil), &models.Account{ID: "1", Email: "a@srmist.edu.in"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestSignIn_ThenRestore(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)
	acct := models.Account{ID: "g-1", Email: "student@srmist.edu.in", DisplayName: "Student"}
	cookies := signInCookies(t, sm, acct, "tok")

	var gotSID string
	var got *models.Account
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentAccount(r)
		gotSID = auth.SessionID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected account to be restored")
	}
	if *got != acct {
		t.Errorf("restored account: got %+v, want %+v", *got, acct)
	}
	if gotSID == "" {
		t.Error("expected a session id")
	}
}

func TestSignIn_RefusesForeignDomain(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)
	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), models.Account{Email: "x@gmail.com"}, "tok")
	if err == nil {
		t.Fatal("expected SignIn to refuse a foreign-domain account")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be written")
	}
}

func TestRestore_InvalidDomainClearsSession(t *testing.T) {
	// Same signing key, different suffix: simulates an account that no
	// longer passes the domain check.
	issuer := newTestSessionManager(t, "@old.edu")
	checker := newTestSessionManager(t, allowlist.DefaultSuffix)

	cookies := signInCookies(t, issuer, models.Account{ID: "1", Email: "a@old.edu"}, "tok")

	var found bool
	h := checker.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentAccount(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if found {
		t.Error("account failing the domain check must not be admitted")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be expired")
	}
}

func TestSignOut_ReturnsTokenAndExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t, allowlist.DefaultSuffix)
	cookies := signInCookies(t, sm, models.Account{ID: "1", Email: "a@srmist.edu.in"}, "access-123")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	token, sid, err := sm.SignOut(rec, req)
	if err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if token != "access-123" {
		t.Errorf("token: got %q", token)
	}
	if sid == "" {
		t.Error("expected the session id")
	}

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected cookie to be expired")
	}
}

func TestNewSessionManager_RejectsEmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, allowlist.New(allowlist.DefaultSuffix), zap.NewNop())
	if err == nil {
		t.Error("expected an error for an empty key")
	}
}
