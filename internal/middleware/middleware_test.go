package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janmitra/locmaster/internal/middleware"
)

// callWithOrigin wraps a simple 200-OK inner handler in the CORS middleware,
// optionally setting an Origin header, and returns the recorded response.
func callWithOrigin(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.CORSMiddleware(inner)
	req := httptest.NewRequest(method, "/locations/districts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "http://localhost:5173")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://evil.example")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin must not be echoed, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("request itself should still pass, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := callWithOrigin(t, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}
