// Package identity is the sign-in gateway. It runs the provider flow,
// enforces the institutional domain, and revokes provider sessions that
// fail it or that sign out.
package identity

import (
	"context"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

// MsgAuthAborted is shown when the provider flow did not complete.
const MsgAuthAborted = "Sign-in did not complete. Please try again."

// Provider is an interactive identity provider.
type Provider interface {
	// Name identifies the provider in logs and login records.
	Name() string
	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state string) string
	// Exchange completes the flow for an authorization code and returns
	// the account with its access token.
	Exchange(ctx context.Context, code string) (models.Account, string, error)
	// Revoke ends the provider session for token.
	Revoke(ctx context.Context, token string) error
}

type Gateway struct {
	provider Provider
	allow    allowlist.Allowlist
	log      *zap.Logger
}

func NewGateway(p Provider, allow allowlist.Allowlist, logger *zap.Logger) *Gateway {
	return &Gateway{provider: p, allow: allow, log: logger}
}

// ProviderName returns the configured provider's name.
func (g *Gateway) ProviderName() string { return g.provider.Name() }

// Allowlist returns the domain rule in force.
func (g *Gateway) Allowlist() allowlist.Allowlist { return g.allow }

// Begin returns the provider URL for a new sign-in attempt.
func (g *Gateway) Begin(state string) string {
	return g.provider.AuthCodeURL(state)
}

// Complete finishes a sign-in. On success the returned account is
// admitted and may be persisted. A provider failure yields an
// auth-aborted error. An account outside the institutional domain is
// signed back out at the provider and yields a domain-rejected error; no
// account is returned in either case.
func (g *Gateway) Complete(ctx context.Context, code string) (models.Account, string, error) {
	acct, token, err := g.provider.Exchange(ctx, code)
	if err != nil {
		return models.Account{}, "", apperr.Wrap(apperr.KindAuthFlowAborted, MsgAuthAborted, err)
	}
	acct.Email = strings.TrimSpace(acct.Email)
	if acct.Email == "" {
		g.revoke(ctx, token)
		return models.Account{}, "", apperr.New(apperr.KindAuthFlowAborted, MsgAuthAborted)
	}

	if !g.allow.Admits(acct.Email) {
		g.revoke(ctx, token)
		return models.Account{}, "", apperr.New(apperr.KindDomainRejected, g.allow.RejectionMessage())
	}
	return acct, token, nil
}

// SignOut revokes the provider session. A missing token is a no-op.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.provider.Revoke(ctx, token); err != nil {
		return apperr.Transport("revoke provider session", err)
	}
	return nil
}

func (g *Gateway) revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := g.provider.Revoke(ctx, token); err != nil {
		g.log.Warn("provider revoke failed", zap.String("provider", g.provider.Name()), zap.Error(err))
	}
}
