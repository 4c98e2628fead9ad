package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/middleware"
	"github.com/divvyapps/divvy/internal/models"
)

// authPages serves registration, login, and logout. Both variants mount
// the same handlers; only the dashboard they redirect into differs by
// what's behind "/".
type authPages struct {
	authenticator auth.Authenticator
	sessions      *auth.JWTManager
	renderer      *Renderer
	appName       string
}

func (p *authPages) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /register", p.showRegister)
	mux.HandleFunc("POST /register", p.handleRegister)
	mux.HandleFunc("GET /login", p.showLogin)
	mux.HandleFunc("POST /login", p.handleLogin)
	mux.HandleFunc("GET /logout", p.handleLogout)
}

func (p *authPages) showRegister(w http.ResponseWriter, r *http.Request) {
	p.renderer.render(w, http.StatusOK, "register.html", pageData{
		Title: p.appName + " — register",
		Flash: popFlash(w, r),
	})
}

func (p *authPages) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if password != confirm {
		p.renderer.render(w, http.StatusBadRequest, "register.html", pageData{
			Title: p.appName + " — register",
			Flash: "passwords do not match",
		})
		return
	}

	user, err := p.authenticator.Register(r.Context(), username, r.FormValue("email"), password)
	if err != nil {
		p.renderer.render(w, http.StatusBadRequest, "register.html", pageData{
			Title: p.appName + " — register",
			Flash: flashMessage(err),
		})
		return
	}

	slog.Info("User registered via web", "user_id", user.ID, "username", user.Username)
	p.startSession(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *authPages) showLogin(w http.ResponseWriter, r *http.Request) {
	p.renderer.render(w, http.StatusOK, "login.html", pageData{
		Title: p.appName + " — login",
		Flash: popFlash(w, r),
		Data:  r.URL.Query().Get("next"),
	})
}

func (p *authPages) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := p.authenticator.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		p.renderer.render(w, http.StatusUnauthorized, "login.html", pageData{
			Title: p.appName + " — login",
			Flash: "bad username or password",
			Data:  r.FormValue("next"),
		})
		return
	}

	p.startSession(w, user)

	// Only local paths are safe redirect targets; "//host" is
	// protocol-relative and would leave the site.
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (p *authPages) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	redirectWithFlash(w, r, "/login", "you have been logged out")
}

// startSession issues a signed session token and sets the cookie. A
// signing failure falls through to an expired cookie, which just forces
// another login.
func (p *authPages) startSession(w http.ResponseWriter, user *models.User) {
	token, err := p.sessions.Generate(user)
	if err != nil {
		slog.Error("Session token generation failed", "user_id", user.ID, "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.sessions.TTL().Seconds()),
	})
}

// flashMessage renders a domain error as a user-facing status line.
func flashMessage(err error) string {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Field + ": " + validation.Message
	case errors.Is(err, models.ErrUsernameTaken):
		return "that username is already taken"
	case errors.Is(err, models.ErrEmailTaken):
		return "that email is already registered"
	case errors.Is(err, models.ErrWeakPassword):
		return "password must be at least 8 characters"
	case errors.Is(err, models.ErrAlreadyMember):
		return "already participating"
	case errors.Is(err, models.ErrCannotRemoveCreator):
		return "the creator cannot be removed"
	case errors.Is(err, models.ErrForbidden):
		return "you are not allowed to do that"
	case errors.Is(err, models.ErrNotFound):
		return "not found"
	default:
		slog.Error("Web request failed", "error", err)
		return "something went wrong"
	}
}
