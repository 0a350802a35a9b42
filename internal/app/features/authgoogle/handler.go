// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/identity"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// stateTTL bounds how long a sign-in attempt may take.
const stateTTL = 10 * time.Minute

// StateStore persists OAuth state tokens between redirect and callback.
type StateStore interface {
	Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error
	Consume(ctx context.Context, state string) (returnURL string, valid bool, err error)
}

// LoginRecorder records successful sign-ins.
type LoginRecorder interface {
	Record(ctx context.Context, r *http.Request, acct models.Account, provider string) error
}

// Handler handles Google OAuth authentication.
type Handler struct {
	Gateway    *identity.Gateway
	SessionMgr *auth.SessionManager
	States     StateStore
	Logins     LoginRecorder
	Timeouts   timeouts.Timeouts
	Log        *zap.Logger

	// FrontendURL is where the browser lands after the callback; blank
	// means this origin.
	FrontendURL string
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	gw *identity.Gateway,
	sessionMgr *auth.SessionManager,
	states StateStore,
	logins LoginRecorder,
	t timeouts.Timeouts,
	frontendURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Gateway:     gw,
		SessionMgr:  sessionMgr,
		States:      states,
		Logins:      logins,
		Timeouts:    t,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		Log:         logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Starts the sign-in flow by redirecting to the provider's consent screen.     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal", "")
		return
	}

	returnURL := urlutil.SafeReturn(query.Get(r, "return"), "", "/")

	ctx, cancel := h.Timeouts.WithShort(r.Context())
	defer cancel()

	expiresAt := time.Now().UTC().Add(stateTTL)
	if err := h.States.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal", "")
		return
	}

	dest := h.Gateway.Begin(state)
	h.Log.Debug("initiating OAuth flow",
		zap.String("provider", h.Gateway.ProviderName()),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, enforces the institutional domain, and signs in.         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	// The user closed the popup or denied consent.
	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Info("OAuth flow aborted by provider",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		h.redirectToLogin(w, r, apperr.KindAuthFlowAborted.String(), identity.MsgAuthAborted)
		return
	}

	state := query.Get(r, "state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		h.redirectToLogin(w, r, "invalid_state", "")
		return
	}

	sctx, scancel := h.Timeouts.WithShort(r.Context())
	returnURL, valid, err := h.States.Consume(sctx, state)
	scancel()
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal", "")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		h.redirectToLogin(w, r, "invalid_state", "")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToLogin(w, r, apperr.KindAuthFlowAborted.String(), identity.MsgAuthAborted)
		return
	}

	lctx, lcancel := h.Timeouts.WithLong(r.Context())
	defer lcancel()

	acct, token, err := h.Gateway.Complete(lctx, code)
	if err != nil {
		kind := apperr.KindOf(err)
		if kind == apperr.KindDomainRejected {
			h.Log.Info("sign-in rejected: email outside institutional domain")
		} else {
			h.Log.Warn("sign-in did not complete", zap.Error(err))
		}
		h.redirectToLogin(w, r, kind.String(), apperr.Message(err, identity.MsgAuthAborted))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, acct, token); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", acct.Email))
		h.redirectToLogin(w, r, "session", "")
		return
	}

	if h.Logins != nil {
		rctx, rcancel := h.Timeouts.WithShort(r.Context())
		if err := h.Logins.Record(rctx, r, acct, h.Gateway.ProviderName()); err != nil {
			h.Log.Warn("failed to record login", zap.Error(err), zap.String("email", acct.Email))
		}
		rcancel()
	}

	h.Log.Info("user signed in",
		zap.String("email", acct.Email),
		zap.String("provider", h.Gateway.ProviderName()))

	http.Redirect(w, r, h.FrontendURL+returnURL, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// redirectToLogin sends the browser to the front end's login page with an
// error code, and a message when one should be shown.
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, code, msg string) {
	q := url.Values{"error": {code}}
	if msg != "" {
		q.Set("message", msg)
	}
	http.Redirect(w, r, h.FrontendURL+"/login?"+q.Encode(), http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
