package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newTokenEndpoint fakes the provider's token endpoint. It serves both the
// auth-code exchange and refresh grants and counts how often it is hit.
func newTokenEndpoint(t *testing.T, status int, accessToken string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if status != http.StatusOK {
			http.Error(w, `{"error":"server_error"}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestTokenManager(t *testing.T, dir, passphrase string, srv *httptest.Server) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("client-id", "client-secret", "http://localhost/cb", dir, passphrase)
	require.NoError(t, err)
	if srv != nil {
		m.conf.Endpoint = oauth2.Endpoint{
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
	return m
}

func TestAuthURLRequestsOfflineAccess(t *testing.T) {
	m := newTestTokenManager(t, t.TempDir(), "", nil)
	url := m.AuthURL("state-1")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "state=state-1")
}

func TestExchangeCachesToken(t *testing.T) {
	dir := t.TempDir()
	srv, _ := newTokenEndpoint(t, http.StatusOK, "access-1")

	m := newTestTokenManager(t, dir, "", srv)
	assert.False(t, m.Authenticated())

	require.NoError(t, m.Exchange(context.Background(), "auth-code"))
	assert.True(t, m.Authenticated())

	// A fresh manager picks the token up from the cache file.
	m2 := newTestTokenManager(t, dir, "", nil)
	assert.True(t, m2.Authenticated())

	tok, err := m2.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
}

func TestTokenReturnsValidTokenWithoutNetwork(t *testing.T) {
	srv, calls := newTokenEndpoint(t, http.StatusOK, "unused")

	m := newTestTokenManager(t, t.TempDir(), "", srv)
	m.token = &oauth2.Token{
		AccessToken:  "still-good",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour),
	}

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "still-good", tok.AccessToken)
	assert.Zero(t, *calls)
}

func TestTokenRefreshesExpiredAndRepersists(t *testing.T) {
	dir := t.TempDir()
	srv, calls := newTokenEndpoint(t, http.StatusOK, "refreshed-1")

	m := newTestTokenManager(t, dir, "", srv)
	m.token = &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}

	// Callers get the refreshed token, never an expiry error.
	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", tok.AccessToken)
	assert.Equal(t, 1, *calls)

	// The refreshed token replaced the cache file.
	raw, err := os.ReadFile(filepath.Join(dir, tokenFilename))
	require.NoError(t, err)
	var cached oauth2.Token
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, "refreshed-1", cached.AccessToken)

	// The next call reuses the refreshed token without hitting the provider.
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestTokenRefreshFailureSurfaces(t *testing.T) {
	srv, _ := newTokenEndpoint(t, http.StatusInternalServerError, "")

	m := newTestTokenManager(t, t.TempDir(), "", srv)
	m.token = &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refreshing token")
}

func TestTokenWithoutLogin(t *testing.T) {
	m := newTestTokenManager(t, t.TempDir(), "", nil)

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestSealedCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srv, _ := newTokenEndpoint(t, http.StatusOK, "access-1")

	m := newTestTokenManager(t, dir, "pass-1", srv)
	require.NoError(t, m.Exchange(context.Background(), "auth-code"))

	// The cache file is not plain JSON.
	raw, err := os.ReadFile(filepath.Join(dir, tokenFilename))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-1")

	// Same passphrase reads it back; a different one cannot.
	m2 := newTestTokenManager(t, dir, "pass-1", nil)
	assert.True(t, m2.Authenticated())

	_, err = NewTokenManager("client-id", "client-secret", "http://localhost/cb", dir, "pass-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsealing token cache")
}
