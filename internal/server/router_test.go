package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"labstock/internal/handlers"
)

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	sm := scs.New()
	handlers.Configure(sm, nil)
	t.Cleanup(func() { handlers.Configure(nil, nil) })
	router := sm.LoadAndSave(newRouter())

	paths := []string{
		"/app",
		"/app/audit",
		"/app/labels/a/b",
		"/app/api/chemicals",
		"/app/api/chemicals/abc/lots",
		"/app/api/history/undo",
		"/app/api/audit",
		"/app/api/stats",
		"/app/api/procurement",
		"/app/api/sweep",
		"/app/api/backup",
		"/app/api/catalog?q=acetone",
		"/app/api/ai/lookup",
		"/app/api/admin/users/1/role",
		"/app/export/inventory.xlsx",
		"/app/export/procurement.xlsx",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("expected redirect for %s, got %d", path, rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/login" {
				t.Fatalf("expected redirect to /login, got %q", loc)
			}
		})
	}
}

func TestUnknownPathsAreNotFound(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
