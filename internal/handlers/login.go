package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "labstock/internal/log"
	"labstock/internal/views/pages"
)

const loginFailedMessage = "We were unable to sign you in. Please try again."

// Login renders the sign-in form and checks submitted credentials. A
// successful sign-in returns the user to the page that sent them here.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderLogin(w, r, message, "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Warn(r.Context(), "login attempted without session or database", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			renderLogin(w, r, "Email and password are required.", email)
			return
		}

		if !authenticate(w, r, email, password) {
			message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if message == "" {
				message = loginFailedMessage
			}
			applog.Info(r.Context(), "sign-in rejected", "email", strings.ToLower(email))
			renderLogin(w, r, message, email)
			return
		}

		target := returnPath(sessionManager.PopString(r.Context(), sessionReturnPathKey))
		applog.Info(r.Context(), "signed in", "email", strings.ToLower(email), "role", sessionManager.GetString(r.Context(), sessionUserRoleKey), "target", target)
		redirect(w, r, target)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	var component templ.Component = pages.Login(message, email)
	if isHTMX(r) {
		component = pages.LoginPartial(message, email)
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render login component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
