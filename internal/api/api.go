// Package api implements the JSON API exposed by the checklist variant:
// token issuance, list reads, and user CRUD, all Bearer-token gated except
// token issuance and user creation.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/middleware"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/respond"
	"github.com/divvyapps/divvy/internal/service"
)

// API bundles the handlers for the JSON surface.
type API struct {
	lists         *service.ListService
	users         *service.UserService
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// New creates the API handler set.
func New(lists *service.ListService, users *service.UserService, authenticator auth.Authenticator, tokens *auth.JWTManager) *API {
	return &API{
		lists:         lists,
		users:         users,
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// Register wires the API routes onto mux.
func (a *API) Register(mux *http.ServeMux) {
	requireAuth := middleware.RequireBearer(a.tokens)

	mux.HandleFunc("POST /api/token", a.handleToken)
	mux.HandleFunc("GET /api/list", requireAuth(a.handleLists))
	mux.HandleFunc("GET /api/list/{id}", requireAuth(a.handleListDetail))

	mux.HandleFunc("GET /api/users", requireAuth(a.handleListUsers))
	mux.HandleFunc("POST /api/users", a.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", requireAuth(a.handleGetUser))
	mux.HandleFunc("PUT /api/users/{id}", requireAuth(a.handleUpdateUser))
	mux.HandleFunc("PATCH /api/users/{id}", requireAuth(a.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", requireAuth(a.handleDeleteUser))
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err), models.IsConflict(err), errors.Is(err, models.ErrWeakPassword):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrCannotRemoveCreator):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("API request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
