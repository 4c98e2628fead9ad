package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/respond"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDKey is the context key for storing the authenticated user ID.
	userIDKey contextKey = "user_id"
	// usernameKey is the context key for storing the authenticated username.
	usernameKey contextKey = "username"
)

// SessionCookie is the name of the session cookie carrying the signed
// identity token for the server-rendered surface.
const SessionCookie = "divvy_session"

// GetUserID extracts the authenticated user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// GetUsername extracts the authenticated username from the context.
// Returns empty string if not found.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

// withIdentity returns ctx enriched with the validated claims.
func withIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, userIDKey, claims.UserID)
	return context.WithValue(ctx, usernameKey, claims.Username)
}

// RequireBearer validates the Authorization Bearer token and adds the user
// identity to the request context. Failures get a 401 JSON envelope.
func RequireBearer(jwtManager *auth.JWTManager) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, http.StatusUnauthorized, "authorization token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respond.Error(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next(w, r.WithContext(withIdentity(r.Context(), claims)))
		}
	}
}

// RequireSession validates the session cookie and adds the user identity to
// the request context. Failures redirect to the login page with the original
// path preserved in the "next" query parameter.
func RequireSession(jwtManager *auth.JWTManager) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			claims, err := jwtManager.Validate(cookie.Value)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			next(w, r.WithContext(withIdentity(r.Context(), claims)))
		}
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, "/login?next="+next, http.StatusSeeOther)
}
