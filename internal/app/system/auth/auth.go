package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/guard"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// userKey holds the serialized Account, mirroring the "user" entry a
	// browser client keeps in local storage.
	userKey  = "user"
	tokenKey = "token"
	sidKey   = "sid"
)

// DefaultLoginPath is where unauthenticated browser navigation is sent.
const DefaultLoginPath = "/auth/google"

/*─────────────────────────────────────────────────────────────────────────────*
| Context                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const (
	accountKey  ctxKey = "currentAccount"
	restoredKey ctxKey = "sessionRestored"
	sessionKey  ctxKey = "sessionID"
)

// CurrentAccount returns the admitted account and a found flag.
func CurrentAccount(r *http.Request) (*models.Account, bool) {
	a, ok := r.Context().Value(accountKey).(*models.Account)
	return a, ok && a != nil
}

// Restored reports whether session restoration has run for this request.
func Restored(r *http.Request) bool {
	v, _ := r.Context().Value(restoredKey).(bool)
	return v
}

// SessionID returns the per-browser session identifier, or "" when the
// request carries no session.
func SessionID(r *http.Request) string {
	v, _ := r.Context().Value(sessionKey).(string)
	return v
}

// WithTestAccount injects acct as a restored session. For tests only.
func WithTestAccount(r *http.Request, acct *models.Account) *http.Request {
	ctx := context.WithValue(r.Context(), accountKey, acct)
	ctx = context.WithValue(ctx, restoredKey, true)
	ctx = context.WithValue(ctx, sessionKey, "test-"+acct.ID)
	return r.WithContext(ctx)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the signed cookie store and the current-account
// context. It is the only writer of the persisted account.
type SessionManager struct {
	store     *sessions.CookieStore
	name      string
	allow     allowlist.Allowlist
	loginPath string
	log       *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure + SameSite=None so a
// separately hosted front end can send them. In local dev over
// http://localhost use secure=false.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, allow allowlist.Allowlist, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	store.MaxAge(store.Options.MaxAge)

	return &SessionManager{
		store:     store,
		name:      name,
		allow:     allow,
		loginPath: DefaultLoginPath,
		log:       logger,
	}, nil
}

// Store exposes the cookie store, used when a cookie must be cleared with
// matching options.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the session for r. On a decode failure (rotated key,
// tampered cookie) it returns a fresh session together with the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	// gorilla returns a usable new session alongside a decode error
	return sm.store.Get(r, sm.name)
}

// SignIn persists an admitted account and the provider access token.
// A new session id is issued on every sign-in.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, acct models.Account, token string) error {
	if !sm.allow.Admits(acct.Email) {
		return fmt.Errorf("refusing to persist account outside %s", sm.allow.Suffix())
	}
	raw, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	sess, _ := sm.GetSession(r)
	sess.Values[userKey] = string(raw)
	sess.Values[tokenKey] = token
	sess.Values[sidKey] = uuid.NewString()
	return sess.Save(r, w)
}

// SignOut clears the persisted account and expires the cookie. It
// returns the stored provider token and session id so the caller can
// revoke the one and drop state keyed by the other.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) (token, sid string, err error) {
	sess, getErr := sm.GetSession(r)
	if getErr != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(getErr))
	}
	token, _ = sess.Values[tokenKey].(string)
	sid, _ = sess.Values[sidKey].(string)

	return token, sid, sm.expire(w, r, sess)
}

// expire deletes the cookie using the store's own options.
func (sm *SessionManager) expire(w http.ResponseWriter, r *http.Request, sess *sessions.Session) error {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	opts := *sm.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// LoadSessionUser restores the persisted account into the request
// context. The email domain is re-checked on every restore; an account
// that no longer passes is wiped from the cookie. The request is always
// marked restored, so downstream guards never see a pending state once
// this middleware has run.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), restoredKey, true)

		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			var scErr securecookie.Error
			if errors.As(err, &scErr) && scErr.IsDecode() {
				sm.log.Debug("ignoring undecodable session cookie", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if sid, _ := sess.Values[sidKey].(string); sid != "" {
			ctx = context.WithValue(ctx, sessionKey, sid)
		}

		raw, _ := sess.Values[userKey].(string)
		if raw == "" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		var acct models.Account
		if err := json.Unmarshal([]byte(raw), &acct); err != nil || !sm.allow.Admits(acct.Email) {
			sm.log.Warn("persisted account failed validation; clearing session",
				zap.String("email", acct.Email))
			if err := sm.expire(w, r, sess); err != nil {
				sm.log.Error("clear invalid session", zap.Error(err))
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, "")))
			return
		}

		ctx = context.WithValue(ctx, accountKey, &acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSignedIn lets the request through only when an admitted account
// is present.
//   - restoration not run: 503 (nothing is rendered, no redirect)
//   - HTMX: HX-Redirect to the sign-in path with 401
//   - HTML: 303 redirect to the sign-in path with ?return=
//   - API:  401 Unauthorized
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := CurrentAccount(r)

		switch guard.Decide(!Restored(r), has) {
		case guard.Allow:
			next.ServeHTTP(w, r)
			return
		case guard.Pending:
			w.Header().Set("Retry-After", "1")
			http.Error(w, "session not ready", http.StatusServiceUnavailable)
			return
		}

		dest := sm.loginPath + "?return=" + url.QueryEscape(r.URL.RequestURI())

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Please sign in to continue."}`))
	})
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
