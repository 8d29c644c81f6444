package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trellis-dev/trellis/pkg/router"
	"github.com/trellis-dev/trellis/pkg/web"
)

// TestUser represents a user for testing.
type TestUser struct {
	ID    string
	Email string
	Role  string
}

// userContextKey is the key for storing user in context.
type userContextKey struct{}

// mockAuthMiddleware simulates authentication middleware.
func mockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer valid-token" {
			user := &TestUser{
				ID:    "user-123",
				Email: "test@example.com",
				Role:  "admin",
			}
			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		// Continue without auth (anonymous)
		next.ServeHTTP(w, r)
	})
}

func newAppRouter(t *testing.T) *router.Router {
	t.Helper()

	decls := []router.Declaration{
		{ID: "index.go", Pattern: "/", Content: "pages/home", IsIndex: true},
		{ID: "_layout.go", Pattern: "/", Content: "layouts/root", IsLayout: true},
		{ID: "users/_layout.go", Pattern: "/users", Content: "layouts/users", IsLayout: true},
		{ID: "users/index.go", Pattern: "/users", Content: "pages/users", IsIndex: true},
		{ID: "users/[id].go", Pattern: "/users/[id]", Content: "pages/user"},
		{ID: "docs/[...slug].go", Pattern: "/docs/[...slug]", Content: "pages/doc"},
	}

	rtr := router.NewRouter()
	if err := rtr.Rebuild(decls); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return rtr
}

// TestChiRouterIntegration mounts the trellis handler under a chi
// router with a realistic middleware stack.
func TestChiRouterIntegration(t *testing.T) {
	rtr := newAppRouter(t)

	h := web.NewHandler(rtr)
	h.HandleFunc("pages/home", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("home"))
	})
	h.HandleFunc("pages/users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("users"))
	})
	h.HandleFunc("pages/user", func(w http.ResponseWriter, r *http.Request) {
		result := web.ResultFrom(r.Context())
		// Authenticated requests see the user from chi middleware
		who := "anonymous"
		if u, ok := r.Context().Value(userContextKey{}).(*TestUser); ok {
			who = u.ID
		}
		fmt.Fprintf(w, "user %s seen by %s with %d layouts",
			result.Param("id"), who, len(result.Layouts))
	})
	h.HandleFunc("pages/doc", func(w http.ResponseWriter, r *http.Request) {
		result := web.ResultFrom(r.Context())
		json.NewEncoder(w).Encode(result.Splat)
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mockAuthMiddleware)

	// Traditional API routes alongside file-derived ones
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Mount trellis handler
	r.Handle("/*", h)

	t.Run("API health endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Errorf("expected OK, got %q", rec.Body.String())
		}
	})

	t.Run("index route", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "home" {
			t.Errorf("expected home, got %q", rec.Body.String())
		}
	})

	t.Run("dynamic route with params and layouts", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users/42", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		want := "user 42 seen by user-123 with 2 layouts"
		if rec.Body.String() != want {
			t.Errorf("expected %q, got %q", want, rec.Body.String())
		}
	})

	t.Run("anonymous request still routes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users/7", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		want := "user 7 seen by anonymous with 2 layouts"
		if rec.Body.String() != want {
			t.Errorf("expected %q, got %q", want, rec.Body.String())
		}
	})

	t.Run("catch-all splat", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/docs/guides/routing", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var splat []string
		if err := json.Unmarshal(rec.Body.Bytes(), &splat); err != nil {
			t.Fatal(err)
		}
		if len(splat) != 2 || splat[0] != "guides" || splat[1] != "routing" {
			t.Errorf("unexpected splat: %v", splat)
		}
	})

	t.Run("static beats dynamic under middleware", func(t *testing.T) {
		// index at /users is more specific than /users/[id]
		req := httptest.NewRequest("GET", "/users", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Body.String() != "users" {
			t.Errorf("expected users, got %q", rec.Body.String())
		}
	})

	t.Run("unmatched path falls to 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nope/a/b", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.URL.Path = "/users/../../etc/passwd"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

// TestChiIntegration_LiveRebuild swaps the route tree while the chi
// server keeps serving.
func TestChiIntegration_LiveRebuild(t *testing.T) {
	rtr := newAppRouter(t)

	h := web.NewHandler(rtr)
	h.HandleFunc("pages/home", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("home"))
	})
	h.HandleFunc("pages/about", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("about"))
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/*", h)

	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/about")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before rebuild, got %d", resp.StatusCode)
	}

	// Add /about and republish
	decls := []router.Declaration{
		{ID: "index.go", Pattern: "/", Content: "pages/home", IsIndex: true},
		{ID: "about.go", Pattern: "/about", Content: "pages/about"},
	}
	if err := rtr.Rebuild(decls); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	resp2, err := http.Get(ts.URL + "/about")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after rebuild, got %d", resp2.StatusCode)
	}
}
