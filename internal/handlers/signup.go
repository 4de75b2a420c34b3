package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"gorm.io/gorm"

	applog "labstock/internal/log"
	"labstock/internal/views/pages"
)

const (
	minPasswordLength   = 8
	signupFailedMessage = "We couldn't create your account right now. Please try again."
)

type signupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

func readSignupForm(r *http.Request) signupForm {
	return signupForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}
}

// problem returns the message shown for the first invalid field, or "".
func (f signupForm) problem() string {
	switch {
	case f.Email == "" || !strings.Contains(f.Email, "@"):
		return "Please provide a valid email address."
	case len(f.Password) < minPasswordLength:
		return "Password must be at least 8 characters long."
	case f.Password != f.Confirm:
		return "Passwords do not match."
	}
	return ""
}

// Signup registers a new account and signs it in. The first account becomes
// the administrator; later accounts start read-only until an administrator
// promotes them.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", signupForm{})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Warn(r.Context(), "signup attempted without session or database", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse signup form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := readSignupForm(r)
		if message := form.problem(); message != "" {
			renderSignup(w, r, message, form)
			return
		}

		_, err := findUserByEmail(r, form.Email)
		switch {
		case err == nil:
			renderSignup(w, r, "An account with that email already exists.", form)
			return
		case !errors.Is(err, gorm.ErrRecordNotFound):
			applog.Error(r.Context(), "failed to check existing user", "error", err)
			renderSignup(w, r, signupFailedMessage, form)
			return
		}

		user, err := createUser(r, form.Email, form.Name, form.Password)
		if err != nil {
			applog.Error(r.Context(), "failed to create user", "error", err)
			renderSignup(w, r, signupFailedMessage, form)
			return
		}
		applog.Info(r.Context(), "user created via signup", "userID", user.ID, "email", user.Email, "role", user.Role)

		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			renderSignup(w, r, "Your account was created but we couldn't sign you in. Please log in.", form)
			return
		}
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderSignup(w http.ResponseWriter, r *http.Request, message string, form signupForm) {
	var component templ.Component = pages.Signup(message, form.Name, form.Email)
	if isHTMX(r) {
		component = pages.SignupPartial(message, form.Name, form.Email)
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render signup component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
