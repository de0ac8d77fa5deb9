package web

import (
	"net/http"

	"kitbox/internal/adapters/http/middleware"
	"kitbox/internal/application/orchestrators"
)

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// handleIndex shows the login form, or the registration form with ?mode=register.
func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	mode := modeLogin
	if r.URL.Query().Get("mode") == modeRegister {
		mode = modeRegister
	}
	a.renderTemplate(w, r, "index.html", map[string]any{
		"Mode": mode,
	})
}

// handleLogin handles POST /login
func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		API:         a.upstream(r),
		Credentials: session(r),
	}

	if err := orchestrators.ExecuteLogin(r.Context(), input, deps); err != nil {
		a.renderTemplate(w, r, "index.html", map[string]any{
			"Mode":     modeLogin,
			"Username": input.Username,
			"Error":    bannerMessage("Login failed", err),
		})
		return
	}
	http.Redirect(w, r, "/master_list", http.StatusSeeOther)
}

// handleRegister handles POST /register. Success returns to the login form; it does not sign in.
func (a *app) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterInput{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	username, err := orchestrators.ExecuteRegister(r.Context(), input, a.upstream(r))
	if err != nil {
		a.renderTemplate(w, r, "index.html", map[string]any{
			"Mode":     modeRegister,
			"Username": input.Username,
			"Error":    bannerMessage("Registration failed", err),
		})
		return
	}

	a.renderTemplate(w, r, "index.html", map[string]any{
		"Mode":     modeLogin,
		"Username": username,
		"Notice":   "Registration successful! Please login.",
	})
}

// handleLogout handles POST /logout. The cookie is dropped so the next visit starts a new session.
func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := session(r); sess != nil {
		if err := orchestrators.ExecuteLogout(r.Context(), sess); err != nil {
			internalError(w, r, err)
			return
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
