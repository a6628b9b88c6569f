package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
)

// Default scopes per provider.
var (
	GoogleScopes    = []string{"https://www.googleapis.com/auth/calendar", "openid", "email"}
	MicrosoftScopes = []string{"offline_access", "User.Read", "Calendars.ReadWrite"}
)

// ProviderConfig holds the OAuth client registration of one provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Tenant       string // microsoft only
	TokenURL     string // overrides the provider's token endpoint
}

// Config holds every provider registration.
type Config struct {
	Google    ProviderConfig
	Microsoft ProviderConfig
}

var ErrProviderNotConfigured = errors.New("oauth provider not configured")

// Manager issues consent URLs, exchanges codes and refreshes tokens.
type Manager struct {
	configs    map[string]*oauth2.Config
	httpClient *http.Client
}

// NewManager builds oauth2 configs for every provider with a client id.
func NewManager(cfg Config, httpClient *http.Client) *Manager {
	m := &Manager{configs: make(map[string]*oauth2.Config), httpClient: httpClient}

	if cfg.Google.ClientID != "" {
		m.configs["google"] = build(cfg.Google, google.Endpoint, GoogleScopes)
	}
	if cfg.Microsoft.ClientID != "" {
		tenant := cfg.Microsoft.Tenant
		if tenant == "" {
			tenant = "common"
		}
		m.configs["microsoft"] = build(cfg.Microsoft, microsoft.AzureADEndpoint(tenant), MicrosoftScopes)
	}
	return m
}

func build(pc ProviderConfig, endpoint oauth2.Endpoint, defaultScopes []string) *oauth2.Config {
	if pc.TokenURL != "" {
		endpoint.TokenURL = pc.TokenURL
	}
	scopes := pc.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	return &oauth2.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		RedirectURL:  pc.RedirectURL,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

func (m *Manager) config(provider string) (*oauth2.Config, error) {
	c, ok := m.configs[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}
	return c, nil
}

func (m *Manager) ctx(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// AuthCodeURL returns the consent page URL. Offline access and a forced
// consent prompt make the provider issue a refresh token.
func (m *Manager) AuthCodeURL(provider, state string) (string, error) {
	c, err := m.config(provider)
	if err != nil {
		return "", err
	}
	return c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// Exchange trades an authorization code for tokens.
func (m *Manager) Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	c, err := m.config(provider)
	if err != nil {
		return nil, err
	}
	tok, err := c.Exchange(m.ctx(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// Refresh trades a refresh token for a new access token. The returned
// token carries the old refresh token unless the provider rotated it.
func (m *Manager) Refresh(ctx context.Context, provider, refreshToken string) (*oauth2.Token, error) {
	c, err := m.config(provider)
	if err != nil {
		return nil, err
	}
	tok, err := c.TokenSource(m.ctx(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

// IsRevoked reports whether err means the grant is gone for good and the
// user must consent again. invalid_client is an app credential problem and
// does not count.
func IsRevoked(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return false
	}
	switch re.ErrorCode {
	case "invalid_grant", "unauthorized_client":
		return true
	}
	return false
}
