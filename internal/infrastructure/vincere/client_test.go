package vincere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crew-match/internal/config"
)

func newTestClient(t *testing.T, authURL, apiURL string) *Client {
	t.Helper()
	c, err := NewClient(config.VincereConfig{
		ClientID:     "client-id",
		APIKey:       "api-key",
		RefreshToken: "refresh-token",
		AuthURL:      authURL,
		APIBaseURL:   apiURL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientCachesIDToken(t *testing.T) {
	var authCalls atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Fatalf("grant_type = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": "tok-1", "expires_in": 3600})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("id-token"); got != "tok-1" {
			t.Fatalf("id-token header = %q", got)
		}
		if got := r.Header.Get("x-api-key"); got != "api-key" {
			t.Fatalf("x-api-key header = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	c := newTestClient(t, auth.URL, api.URL)

	sync := ApplicationSync{ApplicationID: "a1", CandidateID: "c1", JobID: "j1", Source: "quick_apply"}
	for i := 0; i < 3; i++ {
		if err := c.SyncApplication(context.Background(), sync); err != nil {
			t.Fatalf("SyncApplication: %v", err)
		}
	}

	if got := authCalls.Load(); got != 1 {
		t.Fatalf("auth calls = %d, want 1", got)
	}
}

func TestClientRefreshesBeforeExpiry(t *testing.T) {
	var authCalls atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": "tok", "expires_in": 3600})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	c := newTestClient(t, auth.URL, api.URL)

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.SyncApplication(context.Background(), ApplicationSync{JobID: "j1"}); err != nil {
		t.Fatalf("SyncApplication: %v", err)
	}

	// One second inside the five-minute early-refresh window.
	now = now.Add(3600*time.Second - 299*time.Second)
	if err := c.SyncApplication(context.Background(), ApplicationSync{JobID: "j1"}); err != nil {
		t.Fatalf("SyncApplication: %v", err)
	}

	if got := authCalls.Load(); got != 2 {
		t.Fatalf("auth calls = %d, want 2", got)
	}
}

func TestClientRetriesOnceOnUnauthorized(t *testing.T) {
	var authCalls, apiCalls atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := authCalls.Add(1)
		tok := "stale"
		if n > 1 {
			tok = "fresh"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": tok, "expires_in": 3600})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if r.Header.Get("id-token") == "stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	c := newTestClient(t, auth.URL, api.URL)

	if err := c.SyncApplication(context.Background(), ApplicationSync{JobID: "j1"}); err != nil {
		t.Fatalf("SyncApplication: %v", err)
	}
	if got := apiCalls.Load(); got != 2 {
		t.Fatalf("api calls = %d, want 2", got)
	}
	if got := authCalls.Load(); got != 2 {
		t.Fatalf("auth calls = %d, want 2", got)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": "tok", "expires_in": 3600})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "position not found", http.StatusNotFound)
	}))
	defer api.Close()

	c := newTestClient(t, auth.URL, api.URL)

	if err := c.SyncApplication(context.Background(), ApplicationSync{JobID: "missing"}); err == nil {
		t.Fatal("expected error")
	}
}
