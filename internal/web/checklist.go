package web

import (
	"net/http"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/middleware"
	"github.com/divvyapps/divvy/internal/service"
)

// ChecklistApp is the server-rendered shared-checklist variant.
type ChecklistApp struct {
	authPages
	lists *service.ListService
}

// NewChecklistApp wires the checklist's web handlers.
func NewChecklistApp(lists *service.ListService, authenticator auth.Authenticator, sessions *auth.JWTManager) *ChecklistApp {
	return &ChecklistApp{
		authPages: authPages{
			authenticator: authenticator,
			sessions:      sessions,
			renderer:      NewRenderer(),
			appName:       "divvy checklist",
		},
		lists: lists,
	}
}

// Register mounts all checklist routes onto mux.
func (app *ChecklistApp) Register(mux *http.ServeMux) {
	app.authPages.register(mux)
	withSession := middleware.RequireSession(app.sessions)

	mux.HandleFunc("GET /{$}", withSession(app.handleDashboard))
	mux.HandleFunc("GET /create_list", withSession(app.showCreateList))
	mux.HandleFunc("POST /create_list", withSession(app.handleCreateList))
	mux.HandleFunc("GET /list/{id}", withSession(app.handleListDetail))
	mux.HandleFunc("POST /list/{id}", withSession(app.handleListAction))
	mux.HandleFunc("POST /delete_list/{id}", withSession(app.handleDeleteList))
	mux.HandleFunc("POST /remove_participant/{id}/{userID}", withSession(app.handleRemoveParticipant))
}

func (app *ChecklistApp) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	lists, err := app.lists.Dashboard(r.Context(), userID)
	if err != nil {
		redirectWithFlash(w, r, "/login", flashMessage(err))
		return
	}

	app.renderer.render(w, http.StatusOK, "lists_index.html", pageData{
		Title:    "your lists",
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
		Data:     lists,
	})
}

func (app *ChecklistApp) showCreateList(w http.ResponseWriter, r *http.Request) {
	app.renderer.render(w, http.StatusOK, "list_new.html", pageData{
		Title:    "new list",
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
	})
}

func (app *ChecklistApp) handleCreateList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := app.lists.Create(r.Context(), userID, r.FormValue("name"))
	if err != nil {
		redirectWithFlash(w, r, "/create_list", flashMessage(err))
		return
	}

	http.Redirect(w, r, "/list/"+list.ID, http.StatusSeeOther)
}

// listPage is the detail template's payload.
type listPage struct {
	Detail *service.ListDetail
	UserID string
}

func (app *ChecklistApp) handleListDetail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	detail, err := app.lists.Detail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		redirectWithFlash(w, r, "/", flashMessage(err))
		return
	}

	app.renderer.render(w, http.StatusOK, "list_detail.html", pageData{
		Title:    detail.List.Name,
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
		Data:     listPage{Detail: detail, UserID: userID},
	})
}

// handleListAction dispatches the detail page's form posts on their
// explicit action field.
func (app *ChecklistApp) handleListAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listID := r.PathValue("id")
	back := "/list/" + listID

	switch r.FormValue("action") {
	case "add_item":
		if _, err := app.lists.AddItem(r.Context(), userID, listID, r.FormValue("name")); err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		redirectWithFlash(w, r, back, "item added")

	case "tick":
		if _, err := app.lists.ToggleItem(r.Context(), userID, listID, r.FormValue("item_id")); err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)

	case "share":
		user, err := app.lists.Share(r.Context(), userID, listID, r.FormValue("username"))
		if err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		redirectWithFlash(w, r, back, "shared with "+user.Username)

	default:
		redirectWithFlash(w, r, back, "unknown action")
	}
}

func (app *ChecklistApp) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := app.lists.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		redirectWithFlash(w, r, "/list/"+r.PathValue("id"), flashMessage(err))
		return
	}

	redirectWithFlash(w, r, "/", "list deleted")
}

func (app *ChecklistApp) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listID := r.PathValue("id")

	if err := app.lists.RemoveParticipant(r.Context(), userID, listID, r.PathValue("userID")); err != nil {
		redirectWithFlash(w, r, "/list/"+listID, flashMessage(err))
		return
	}

	redirectWithFlash(w, r, "/list/"+listID, "participant removed")
}
