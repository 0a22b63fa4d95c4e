package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shelfwise/shelfwise-core/internal/audit"
	"github.com/shelfwise/shelfwise-core/internal/auth"
	"github.com/shelfwise/shelfwise-core/internal/catalog"
	"github.com/shelfwise/shelfwise-core/internal/infrastructure/config"
	"github.com/shelfwise/shelfwise-core/internal/infrastructure/logging"
	"github.com/shelfwise/shelfwise-core/internal/profile"
	"github.com/shelfwise/shelfwise-core/internal/recommend"
)

// testJWTSecret meets the 32-character minimum enforced by config validation.
const testJWTSecret = "test-secret-key-at-least-32-chars!"

// testSchema mirrors the initial migration, inlined so API tests don't
// depend on the embedded migration files.
const testSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'standard',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
) STRICT;

CREATE TABLE profiles (
    user_id    TEXT PRIMARY KEY REFERENCES users(id),
    email      TEXT,
    first_name TEXT,
    last_name  TEXT,
    phone      TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
) STRICT;

CREATE TABLE products (
    parent_asin    TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    price          REAL,
    average_rating REAL,
    rating_number  INTEGER,
    category       TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
) STRICT;

CREATE TABLE recommendations (
    user_id      TEXT PRIMARY KEY,
    product_list TEXT NOT NULL
) STRICT;

CREATE TABLE category_recommendations (
    user_id      TEXT NOT NULL,
    category     TEXT NOT NULL,
    product_list TEXT NOT NULL,
    PRIMARY KEY (user_id, category)
) STRICT;

CREATE TABLE audit_logs (
    id          TEXT PRIMARY KEY,
    action      TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id   TEXT,
    user_id     TEXT,
    source      TEXT NOT NULL,
    details     TEXT,
    created_at  TEXT NOT NULL
) STRICT;
`

// newTestDB creates a temporary file-backed SQLite database with the full
// schema. A file (not :memory:) so concurrent connections see one store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	f.Close() //nolint:errcheck // only the name is needed
	path := f.Name()
	t.Cleanup(func() {
		os.Remove(path)          //nolint:errcheck // test cleanup
		os.Remove(path + "-wal") //nolint:errcheck // test cleanup
		os.Remove(path + "-shm") //nolint:errcheck // test cleanup
	})

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

// newTestServer builds a Server wired to a fresh database, returning the
// server (for clock and repo access) and its router.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	db := newTestDB(t)
	logger := logging.New(config.LoggingConfig{
		Level:  "error",
		Format: "text",
		Output: "stderr",
	}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 8080},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testJWTSecret, AccessTokenTTL: 15},
		},
		Logger:   logger,
		Users:    auth.NewUserRepository(db),
		Products: catalog.NewSQLiteRepository(db),
		Recs:     recommend.NewSQLiteRepository(db),
		Profiles: profile.NewSQLiteRepository(db),
		Audit:    audit.NewSQLiteRepository(db),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return srv, srv.buildRouter()
}

// doJSON performs a request against the router with an optional JSON body
// and bearer token.
func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// registerUser creates an account through the API and fails the test on
// any non-201 response.
func registerUser(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d, body = %s", username, rec.Code, rec.Body.String())
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}
	return resp.UserID
}

// loginUser logs in through the API and returns the access token.
func loginUser(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %q: status = %d, body = %s", username, rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.AccessToken
}

// decodeErr unpacks the structured error envelope from a response.
func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()

	var e Error
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decoding error envelope from %q: %v", rec.Body.String(), err)
	}
	return e
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestNew_MissingDeps(t *testing.T) {
	logger := logging.Default()

	_, err := New(Deps{Logger: nil})
	if err == nil {
		t.Error("New() without logger should fail")
	}

	_, err = New(Deps{Logger: logger})
	if err == nil {
		t.Error("New() without user repository should fail")
	}

	_, err = New(Deps{
		Logger: logger,
		Users:  auth.NewUserRepository(newTestDB(t)),
	})
	if err == nil {
		t.Error("New() without JWT secret should fail")
	}
}

// TestRoleChangeTakesEffectOnNextLogin walks the full promotion flow: a
// token minted before a role change keeps its old role until the user
// logs in again.
func TestRoleChangeTakesEffectOnNextLogin(t *testing.T) {
	srv, router := newTestServer(t)
	ctx := context.Background()

	aliceID := registerUser(t, router, "alice", "correct-horse")
	aliceToken := loginUser(t, router, "alice", "correct-horse")

	// Standard role cannot reach the admin surface.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"parent_asin": "B0TEST0001",
		"title":       "Widget",
		"category":    "Tools",
	}, aliceToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pre-promotion admin call: status = %d, want 403", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "insufficient permissions" {
		t.Errorf("403 message = %q, want %q", msg, "insufficient permissions")
	}

	// Promote alice directly in the store.
	if err := srv.users.UpdateRole(ctx, aliceID, auth.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}

	// The old token still carries the standard role.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"parent_asin": "B0TEST0001",
		"title":       "Widget",
		"category":    "Tools",
	}, aliceToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stale token admin call: status = %d, want 403", rec.Code)
	}

	// A fresh login mints a token with the new role.
	freshToken := loginUser(t, router, "alice", "correct-horse")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"parent_asin": "B0TEST0001",
		"title":       "Widget",
		"category":    "Tools",
	}, freshToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post-promotion admin call: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
