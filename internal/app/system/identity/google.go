package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleRevokeURL   = "https://oauth2.googleapis.com/revoke"
)

// Google signs users in with Google OAuth2.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
	revokeURL   string
	httpClient  *http.Client
	hd          string
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://doubts.example/auth/google/callback"
	HostedDomain string // optional "hd" hint, e.g. "srmist.edu.in"

	// Overrides for tests; empty selects Google's endpoints.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
	RevokeURL   string
	HTTPClient  *http.Client
}

func NewGoogle(c GoogleConfig) *Google {
	ep := c.Endpoint
	if ep.AuthURL == "" {
		ep = google.Endpoint
	}
	g := &Google{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: ep,
		},
		userInfoURL: c.UserInfoURL,
		revokeURL:   c.RevokeURL,
		httpClient:  c.HTTPClient,
	}
	if g.userInfoURL == "" {
		g.userInfoURL = googleUserInfoURL
	}
	if g.revokeURL == "" {
		g.revokeURL = googleRevokeURL
	}
	if g.httpClient == nil {
		g.httpClient = http.DefaultClient
	}
	g.hd = c.HostedDomain
	return g
}

func (g *Google) Name() string { return "google" }

func (g *Google) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "select_account")}
	if g.hd != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", g.hd))
	}
	return g.cfg.AuthCodeURL(state, opts...)
}

// googleUserInfo is the subset of the userinfo response used here.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (g *Google) Exchange(ctx context.Context, code string) (models.Account, string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return models.Account{}, "", fmt.Errorf("exchange code: %w", err)
	}

	client := g.cfg.Client(ctx, token)
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return models.Account{}, token.AccessToken, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Account{}, token.AccessToken, fmt.Errorf("fetch user info: unexpected status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return models.Account{}, token.AccessToken, fmt.Errorf("decode user info: %w", err)
	}
	if !info.EmailVerified {
		// unverified addresses are treated as having no email claim
		info.Email = ""
	}

	return models.Account{
		ID:          info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
	}, token.AccessToken, nil
}

func (g *Google) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 400 means the token was already invalid, which is the goal.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("revoke: unexpected status %d", resp.StatusCode)
	}
	return nil
}
