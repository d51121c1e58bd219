package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davisrp/timingboard/internal/auth"
	"github.com/davisrp/timingboard/internal/blob"
	"github.com/davisrp/timingboard/internal/directory"
	"github.com/davisrp/timingboard/internal/notify"
	"github.com/davisrp/timingboard/internal/storage"
)

type testEnv struct {
	router http.Handler
	store  *storage.SQLiteStorage
	dir    *directory.Directory
	broker *notify.Broker
	tokens *auth.TokenIssuer
	auth   *auth.Service
	blobs  *blob.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	broker := notify.NewBroker()
	store, err := storage.New(":memory:", broker)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() }) //nolint:errcheck

	blobs, err := blob.NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenIssuer([]byte("test-secret-0123456789abcdef"))
	authSvc := auth.NewService(store, tokens, time.Hour)
	dir := directory.New(store, logger)
	if err := dir.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload failed: %v", err)
	}

	h := NewHandler(store, dir, authSvc, tokens, blobs, broker, new(slog.LevelVar), logger)
	return &testEnv{
		router: h.NewRouter(),
		store:  store,
		dir:    dir,
		broker: broker,
		tokens: tokens,
		auth:   authSvc,
		blobs:  blobs,
	}
}

// signup registers an account and returns its profile plus a session token.
// Admin accounts are promoted through the store, then re-issued a token so the
// role claim matches.
func (e *testEnv) signup(t *testing.T, email string, role storage.Role) (*storage.Profile, string) {
	t.Helper()

	profile, err := e.auth.SignUp(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if role == storage.RoleAdmin {
		if err := e.store.SetProfileRole(context.Background(), profile.ID, storage.RoleAdmin); err != nil {
			t.Fatalf("failed to promote profile: %v", err)
		}
		profile.Role = storage.RoleAdmin
	}

	token, err := e.tokens.Issue(profile, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return profile, token
}

// createZone inserts a zone through the directory and reloads the view.
func (e *testEnv) createZone(t *testing.T, title, description string, claimedAt time.Time) *storage.Zone {
	t.Helper()

	zone, err := e.dir.CreateZone(context.Background(), title, description, "", claimedAt)
	if err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}
	e.reload(t)
	return zone
}

// reload refreshes the directory snapshot from the store. Handler tests keep
// the reload loop stopped so assertions stay deterministic.
func (e *testEnv) reload(t *testing.T) {
	t.Helper()
	if err := e.dir.Reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
}

// request performs a JSON request against the router.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
