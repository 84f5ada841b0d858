package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const tokenTimeout = 10 * time.Second

// TokenManager owns the provider access token for the process. Tokens are
// acquired on demand via the client-credentials grant and cached until a
// caller forces a refresh (after the provider rejects one). The cache is
// shared by every concurrent sync, so reads and refreshes are serialized;
// a stale-but-valid token handed to several callers at once is fine.
type TokenManager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu         sync.Mutex
	token      string
	acquiredAt time.Time
}

func NewTokenManager(clientID, clientSecret, tokenURL string) *TokenManager {
	return &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   &http.Client{Timeout: tokenTimeout},
	}
}

// Token returns the cached access token, acquiring a new one when none is
// cached or forceRefresh is set. A forced refresh replaces the cached
// token; it is never mutated in place.
func (m *TokenManager) Token(ctx context.Context, forceRefresh bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && !forceRefresh {
		return m.token, nil
	}

	token, err := m.acquire(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.acquiredAt = time.Now()
	return token, nil
}

func (m *TokenManager) acquire(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "read")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", wrapError(KindAuth, err, "failed to build token request")
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", wrapError(KindAuth, err, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapError(KindAuth, err, "failed to read token response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newError(KindAuth, "token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", wrapError(KindAuth, err, "failed to decode token response")
	}
	if payload.AccessToken == "" {
		return "", newError(KindAuth, "token response carried no access_token")
	}

	return payload.AccessToken, nil
}

// AcquiredAt reports when the cached token was obtained, for diagnostics.
func (m *TokenManager) AcquiredAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquiredAt
}
