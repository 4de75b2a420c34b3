package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"labstock/models"
)

func postForm(t *testing.T, handler http.HandlerFunc, path string, values url.Values) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx, err := sessionManager.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()
	handler(w, req)
	return w, ctx
}

func TestSignupThenLogin(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	defer smCleanup()
	db, dbCleanup := withTestDatabase(t)
	defer dbCleanup()

	w, ctx := postForm(t, Signup, "/signup", url.Values{
		"name":             {"Lan"},
		"email":            {"Lan@Example.com"},
		"password":         {"correct-horse"},
		"confirm_password": {"correct-horse"},
	})
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Fatalf("expected redirect to /app, got %q", loc)
	}
	if got := sessionManager.GetString(ctx, sessionUserRoleKey); got != string(models.RoleAdmin) {
		t.Fatalf("expected first account to be ADMIN, got %q", got)
	}

	var user models.User
	if err := db.Where("email = ?", "lan@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected stored user: %v", err)
	}

	w, _ = postForm(t, Signup, "/signup", url.Values{
		"email":            {"lan@example.com"},
		"password":         {"correct-horse"},
		"confirm_password": {"correct-horse"},
	})
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "An account with that email already exists.") {
		t.Fatal("expected duplicate email message")
	}

	w, _ = postForm(t, Signup, "/signup", url.Values{
		"email":            {"minh@example.com"},
		"password":         {"short"},
		"confirm_password": {"short"},
	})
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "at least 8 characters") {
		t.Fatal("expected password length message")
	}

	w, ctx = postForm(t, Login, "/login", url.Values{
		"email":    {"lan@example.com"},
		"password": {"correct-horse"},
	})
	expectStatus(t, w, http.StatusSeeOther)
	if got := sessionManager.GetInt(ctx, sessionUserIDKey); got != int(user.ID) {
		t.Fatalf("expected session for user %d, got %d", user.ID, got)
	}

	w, _ = postForm(t, Login, "/login", url.Values{
		"email":    {"lan@example.com"},
		"password": {"wrong-password"},
	})
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Invalid email or password") {
		t.Fatalf("expected invalid credentials message, got %s", w.Body.String())
	}
}

func TestHomeRedirects(t *testing.T) {
	f := newAPIFixture(t)

	w := f.call(t, Home, models.User{}, http.MethodGet, "/", nil)
	expectStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	w = f.call(t, Home, f.viewer, http.MethodGet, "/", nil)
	expectStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Fatalf("expected redirect to /app, got %q", loc)
	}

	w = f.call(t, Home, f.viewer, http.MethodGet, "/missing", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	f := newAPIFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := f.db.Model(&f.staff).Update("password_hash", string(hash)).Error; err != nil {
		t.Fatalf("set password: %v", err)
	}

	protected := RequireAuthentication(http.HandlerFunc(AuditPage))
	req := httptest.NewRequest(http.MethodGet, "/app/audit?limit=5", nil)
	ctx, err := f.sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusSeeOther)

	form := url.Values{"email": {"staff@example.com"}, "password": {"password123"}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(ctx)
	w = httptest.NewRecorder()
	Login(w, req)

	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "/app/audit?limit=5" {
		t.Fatalf("expected redirect back to the audit page, got %q", loc)
	}
}

func TestReturnPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                   "/app",
		"/app":               "/app",
		"/app/audit":         "/app/audit",
		"/app/labels/a/b":    "/app/labels/a/b",
		"/app/api/backup":    "/app",
		"//evil.example/app": "/app",
		"https://evil/app":   "/app",
		"/application":       "/app",
	}
	for input, want := range cases {
		if got := returnPath(input); got != want {
			t.Errorf("returnPath(%q) = %q, want %q", input, got, want)
		}
	}
}
