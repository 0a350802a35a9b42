package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/app/system/identity"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

type fakeProvider struct {
	acct      models.Account
	token     string
	err       error
	revoked   []string
	revokeErr error
}

func (f *fakeProvider) Name() string                  { return "fake" }
func (f *fakeProvider) AuthCodeURL(state string) string { return "https://idp.test/auth?state=" + state }
func (f *fakeProvider) Exchange(context.Context, string) (models.Account, string, error) {
	return f.acct, f.token, f.err
}
func (f *fakeProvider) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}

func newGateway(p identity.Provider) *identity.Gateway {
	return identity.NewGateway(p, allowlist.New(allowlist.DefaultSuffix), zap.NewNop())
}

func TestComplete_Admitted(t *testing.T) {
	p := &fakeProvider{acct: models.Account{ID: "1", Email: "a@srmist.edu.in"}, token: "tok"}
	acct, token, err := newGateway(p).Complete(context.Background(), "code")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if acct.Email != "a@srmist.edu.in" || token != "tok" {
		t.Fatalf("got %+v %q", acct, token)
	}
	if len(p.revoked) != 0 {
		t.Fatalf("unexpected revoke: %v", p.revoked)
	}
}

func TestComplete_DomainRejectedRevokes(t *testing.T) {
	p := &fakeProvider{acct: models.Account{ID: "1", Email: "a@gmail.com"}, token: "tok"}
	acct, token, err := newGateway(p).Complete(context.Background(), "code")
	if !errors.Is(err, apperr.ErrDomainRejected) {
		t.Fatalf("err = %v, want domain rejected", err)
	}
	if acct.Email != "" || token != "" {
		t.Fatalf("rejected sign-in leaked account %+v %q", acct, token)
	}
	if len(p.revoked) != 1 || p.revoked[0] != "tok" {
		t.Fatalf("revoked = %v", p.revoked)
	}
	if got := apperr.Message(err, ""); got != allowlist.New(allowlist.DefaultSuffix).RejectionMessage() {
		t.Fatalf("message = %q", got)
	}
}

func TestComplete_RejectedEvenIfRevokeFails(t *testing.T) {
	p := &fakeProvider{acct: models.Account{Email: "a@gmail.com"}, token: "tok", revokeErr: errors.New("down")}
	_, _, err := newGateway(p).Complete(context.Background(), "code")
	if !errors.Is(err, apperr.ErrDomainRejected) {
		t.Fatalf("err = %v", err)
	}
}

func TestComplete_ExchangeFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("popup closed")}
	_, _, err := newGateway(p).Complete(context.Background(), "code")
	if !errors.Is(err, apperr.ErrAuthFlowAborted) {
		t.Fatalf("err = %v, want auth aborted", err)
	}
}

func TestComplete_MissingEmail(t *testing.T) {
	p := &fakeProvider{acct: models.Account{ID: "1"}, token: "tok"}
	_, _, err := newGateway(p).Complete(context.Background(), "code")
	if !errors.Is(err, apperr.ErrAuthFlowAborted) {
		t.Fatalf("err = %v, want auth aborted", err)
	}
	if len(p.revoked) != 1 {
		t.Fatalf("revoked = %v", p.revoked)
	}
}

func TestSignOut(t *testing.T) {
	p := &fakeProvider{}
	g := newGateway(p)
	if err := g.SignOut(context.Background(), ""); err != nil {
		t.Fatalf("empty token: %v", err)
	}
	if len(p.revoked) != 0 {
		t.Fatal("empty token should not reach the provider")
	}
	if err := g.SignOut(context.Background(), "tok"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	p.revokeErr = errors.New("down")
	if err := g.SignOut(context.Background(), "tok"); !errors.Is(err, apperr.ErrTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
}

func TestBegin(t *testing.T) {
	if got := newGateway(&fakeProvider{}).Begin("xyz"); got != "https://idp.test/auth?state=xyz" {
		t.Fatalf("Begin = %q", got)
	}
}
