package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

const tokenFilename = "token.json"

// TokenManager owns the process-wide OAuth token state: the consent flow,
// the on-disk cache, and transparent refresh. Callers never see a distinct
// "token expired" condition, only eventual success or a provider error after
// refresh was attempted.
type TokenManager struct {
	conf *oauth2.Config
	path string
	enc  *sealer

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenManager wires the OAuth config and loads any cached token from the
// data directory. A non-empty passphrase seals the cached token at rest.
func NewTokenManager(clientID, clientSecret, redirectURL, dataDir, passphrase string) (*TokenManager, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	m := &TokenManager{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{gcal.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		path: filepath.Join(dataDir, tokenFilename),
		enc:  newSealer(passphrase),
	}

	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// AuthURL returns the offline-access consent URL to present to the user.
func (m *TokenManager) AuthURL(state string) string {
	return m.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and caches them.
func (m *TokenManager) Exchange(ctx context.Context, code string) error {
	token, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return m.persistLocked()
}

// Authenticated reports whether a token is currently held. It says nothing
// about freshness beyond present vs. absent.
func (m *TokenManager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != nil
}

// Token returns a valid access token, refreshing with the stored refresh
// token when the current one has expired. A refreshed token is re-persisted.
func (m *TokenManager) Token(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return nil, fmt.Errorf("not authenticated: run auth login first")
	}
	if m.token.Valid() {
		return m.token, nil
	}

	refreshed, err := m.conf.TokenSource(ctx, m.token).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	m.token = refreshed
	if err := m.persistLocked(); err != nil {
		return nil, err
	}
	return m.token, nil
}

// TokenSource adapts the manager to the oauth2.TokenSource interface used by
// the Google API client.
func (m *TokenManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) { return m.Token(ctx) })
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func (m *TokenManager) load() error {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading token cache: %w", err)
	}

	raw, err = m.enc.open(raw)
	if err != nil {
		return fmt.Errorf("unsealing token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return fmt.Errorf("parsing token cache: %w", err)
	}
	m.token = &token
	return nil
}

func (m *TokenManager) persistLocked() error {
	raw, err := json.Marshal(m.token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	raw, err = m.enc.seal(raw)
	if err != nil {
		return fmt.Errorf("sealing token: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}
