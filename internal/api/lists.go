package api

import (
	"net/http"

	"github.com/divvyapps/divvy/internal/middleware"
	"github.com/divvyapps/divvy/internal/respond"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// handleToken exchanges username/password for a bearer token.
func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "bad username or password")
		return
	}

	token, err := a.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "token issued", tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(a.tokens.TTL().Seconds()),
	})
}

type listSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	IsCreator bool   `json:"is_creator"`
}

// handleLists returns the lists the token's identity created or
// participates in.
func (a *API) handleLists(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	lists, err := a.lists.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]listSummary, len(lists))
	for i, l := range lists {
		summaries[i] = listSummary{
			ID:        l.ID,
			Name:      l.Name,
			CreatedBy: l.CreatorName,
			CreatedAt: formatTime(l.CreatedAt),
			IsCreator: l.CreatorID == userID,
		}
	}

	respond.JSON(w, http.StatusOK, "ok", map[string]any{"lists": summaries})
}

type itemView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	IsTicked bool    `json:"is_ticked"`
	AddedBy  string  `json:"added_by"`
	AddedAt  string  `json:"added_at"`
	TickedBy *string `json:"ticked_by"`
	TickedAt *string `json:"ticked_at"`
}

type listDetailView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedBy string     `json:"created_by"`
	CreatedAt string     `json:"created_at"`
	Items     []itemView `json:"items"`
	IsCreator bool       `json:"is_creator"`
}

// handleListDetail returns one list with its items. 403 for non-members,
// 404 if the list does not exist.
func (a *API) handleListDetail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	detail, err := a.lists.Detail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	list := detail.List
	items := make([]itemView, len(list.Items))
	for i, item := range list.Items {
		view := itemView{
			ID:       item.ID,
			Name:     item.Name,
			IsTicked: item.Ticked,
			AddedBy:  item.AddedByName,
			AddedAt:  formatTime(item.AddedAt),
		}
		if item.Ticked {
			tickedBy := item.TickedByName
			tickedAt := formatTime(item.TickedAt)
			view.TickedBy = &tickedBy
			view.TickedAt = &tickedAt
		}
		items[i] = view
	}

	respond.JSON(w, http.StatusOK, "ok", map[string]any{
		"list_detail": listDetailView{
			ID:        list.ID,
			Name:      list.Name,
			CreatedBy: list.CreatorName,
			CreatedAt: formatTime(list.CreatedAt),
			Items:     items,
			IsCreator: list.CreatorID == userID,
		},
	})
}
