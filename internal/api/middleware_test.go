package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shelfwise/shelfwise-core/internal/auth"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/profile", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "missing authorization header" {
		t.Errorf("message = %q, want %q", msg, "missing authorization header")
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "missing authorization header" {
		t.Errorf("message = %q, want %q", msg, "missing authorization header")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/profile", nil, "not.a.token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "invalid token" {
		t.Errorf("message = %q, want %q", msg, "invalid token")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	srv, router := newTestServer(t)

	registerUser(t, router, "alice", "correct-horse")

	// Issue a token that expired a minute ago (15m TTL, issued 16m back).
	token, err := srv.tokens.Issue("USER-aaaa1111", auth.RoleStandard, time.Now().Add(-16*time.Minute))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/profile", nil, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "token expired" {
		t.Errorf("message = %q, want %q", msg, "token expired")
	}
}

// TestRequireAuth_ExpiryBoundary pins the server clock and probes both
// sides of the expiry instant: a token expiring exactly now is rejected,
// one second of remaining life is accepted.
func TestRequireAuth_ExpiryBoundary(t *testing.T) {
	srv, router := newTestServer(t)

	registerUser(t, router, "alice", "correct-horse")

	fixed := time.Unix(1756700000, 0)
	srv.now = func() time.Time { return fixed }

	ttl := srv.tokens.TTL()

	// exp == now: already expired.
	atBoundary, err := srv.tokens.Issue("USER-aaaa1111", auth.RoleStandard, fixed.Add(-ttl))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/B0X", nil, atBoundary)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("token expiring exactly now: status = %d, want 401", rec.Code)
	}

	// exp == now + 1s: still alive, so the request reaches the handler
	// (which 404s on the unknown product).
	oneSecondLeft, err := srv.tokens.Issue("USER-aaaa1111", auth.RoleStandard, fixed.Add(-ttl).Add(time.Second))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/B0X", nil, oneSecondLeft)
	if rec.Code != http.StatusNotFound {
		t.Errorf("token with 1s left: status = %d, want 404 from handler", rec.Code)
	}
}

func TestRequireRole_StandardForbidden(t *testing.T) {
	_, router := newTestServer(t)

	registerUser(t, router, "alice", "correct-horse")
	token := loginUser(t, router, "alice", "correct-horse")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/audit", nil, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if msg := decodeErr(t, rec).Message; msg != "insufficient permissions" {
		t.Errorf("message = %q, want %q", msg, "insufficient permissions")
	}
}

func TestRequireRole_MissingHeaderIs401Not403(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/audit", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (authentication precedes authorisation)", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/health", nil, "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header should be set")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want client-supplied-id", got)
	}
}
