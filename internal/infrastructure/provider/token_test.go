package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTokenServer(t *testing.T, calls *int32, tokens []string, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)

		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s, want POST", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("token request basic auth = (%s, %s, %v)", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "read" {
			t.Errorf("scope = %q", got)
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}

		idx := int(n) - 1
		if idx >= len(tokens) {
			idx = len(tokens) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + tokens[idx] + `"}`))
	}))
}

func TestTokenManager_CachesToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, []string{"tok-1"}, http.StatusOK)
	defer srv.Close()

	tm := NewTokenManager("client-id", "client-secret", srv.URL)
	ctx := context.Background()

	first, err := tm.Token(ctx, false)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	second, err := tm.Token(ctx, false)
	if err != nil {
		t.Fatalf("Token() failed on cached read: %v", err)
	}

	if first != "tok-1" || second != "tok-1" {
		t.Errorf("tokens = (%q, %q), want tok-1 twice", first, second)
	}
	if calls != 1 {
		t.Errorf("token endpoint hit %d times, want 1", calls)
	}
}

func TestTokenManager_ForceRefreshReplacesToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, []string{"tok-1", "tok-2"}, http.StatusOK)
	defer srv.Close()

	tm := NewTokenManager("client-id", "client-secret", srv.URL)
	ctx := context.Background()

	if _, err := tm.Token(ctx, false); err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	refreshed, err := tm.Token(ctx, true)
	if err != nil {
		t.Fatalf("Token(force) failed: %v", err)
	}

	if refreshed != "tok-2" {
		t.Errorf("refreshed token = %q, want tok-2", refreshed)
	}
	if calls != 2 {
		t.Errorf("token endpoint hit %d times, want 2", calls)
	}
}

func TestTokenManager_RejectionIsAuthError(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, nil, http.StatusUnauthorized)
	defer srv.Close()

	tm := NewTokenManager("client-id", "client-secret", srv.URL)

	_, err := tm.Token(context.Background(), false)
	if err == nil {
		t.Fatal("Token() succeeded against rejecting endpoint")
	}
	if !IsKind(err, KindAuth) {
		t.Errorf("error = %v, want KindAuth", err)
	}

	// A failed acquisition must not poison the cache.
	if _, err := tm.Token(context.Background(), false); err == nil {
		t.Error("second Token() call unexpectedly returned a cached token")
	}
	if calls != 2 {
		t.Errorf("token endpoint hit %d times, want 2 (no caching of failures)", calls)
	}
}

func TestTokenManager_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tm := NewTokenManager("client-id", "client-secret", srv.URL)

	_, err := tm.Token(context.Background(), false)
	if !IsKind(err, KindAuth) {
		t.Errorf("error = %v, want KindAuth for empty token payload", err)
	}
}
