package api

import (
	"net/http"

	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/respond"
	"github.com/divvyapps/divvy/internal/service"
)

// userView is the serialized user shape; password hashes never leave the
// storage layer.
type userView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}

	respond.JSON(w, http.StatusOK, "users fetched", map[string]any{"users": views})
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.users.Create(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "user created", map[string]any{"user": toUserView(user)})
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "user fetched", map[string]any{"user": toUserView(user)})
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// handleUpdateUser serves both PUT and PATCH: PUT requires the full
// username/email pair, PATCH changes only the fields present in the body.
func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	partial := r.Method == http.MethodPatch
	update := service.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	user, err := a.users.Update(r.Context(), r.PathValue("id"), update, partial)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "user updated", map[string]any{"user": toUserView(user)})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "user deleted", nil)
}
