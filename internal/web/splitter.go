package web

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/middleware"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/service"
)

// SplitterApp is the server-rendered expense-splitter variant.
type SplitterApp struct {
	authPages
	projects *service.ProjectService
}

// NewSplitterApp wires the splitter's web handlers.
func NewSplitterApp(projects *service.ProjectService, authenticator auth.Authenticator, sessions *auth.JWTManager) *SplitterApp {
	return &SplitterApp{
		authPages: authPages{
			authenticator: authenticator,
			sessions:      sessions,
			renderer:      NewRenderer(),
			appName:       "divvy splitter",
		},
		projects: projects,
	}
}

// Register mounts all splitter routes onto mux.
func (app *SplitterApp) Register(mux *http.ServeMux) {
	app.authPages.register(mux)
	withSession := middleware.RequireSession(app.sessions)

	mux.HandleFunc("GET /{$}", withSession(app.handleDashboard))
	mux.HandleFunc("GET /create_project", withSession(app.showCreateProject))
	mux.HandleFunc("POST /create_project", withSession(app.handleCreateProject))
	mux.HandleFunc("GET /project/{id}", withSession(app.handleProjectDetail))
	mux.HandleFunc("POST /project/{id}", withSession(app.handleProjectAction))
	mux.HandleFunc("POST /delete_project/{id}", withSession(app.handleDeleteProject))
	mux.HandleFunc("POST /delete_expense/{id}", withSession(app.handleDeleteExpense))
	mux.HandleFunc("POST /remove_participant/{id}/{userID}", withSession(app.handleRemoveParticipant))
}

func (app *SplitterApp) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projects, err := app.projects.Dashboard(r.Context(), userID)
	if err != nil {
		redirectWithFlash(w, r, "/login", flashMessage(err))
		return
	}

	app.renderer.render(w, http.StatusOK, "projects_index.html", pageData{
		Title:    "your projects",
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
		Data:     projects,
	})
}

func (app *SplitterApp) showCreateProject(w http.ResponseWriter, r *http.Request) {
	app.renderer.render(w, http.StatusOK, "project_new.html", pageData{
		Title:    "new project",
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
	})
}

func (app *SplitterApp) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	project, err := app.projects.Create(r.Context(), userID, r.FormValue("name"))
	if err != nil {
		redirectWithFlash(w, r, "/create_project", flashMessage(err))
		return
	}

	http.Redirect(w, r, "/project/"+project.ID, http.StatusSeeOther)
}

// projectPage is the detail template's payload.
type projectPage struct {
	Detail *service.ProjectDetail
	UserID string
}

func (app *SplitterApp) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	detail, err := app.projects.Detail(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		redirectWithFlash(w, r, "/", flashMessage(err))
		return
	}

	app.renderer.render(w, http.StatusOK, "project_detail.html", pageData{
		Title:    detail.Project.Name,
		Username: middleware.GetUsername(r.Context()),
		Flash:    popFlash(w, r),
		Data:     projectPage{Detail: detail, UserID: userID},
	})
}

// handleProjectAction dispatches the detail page's form posts on their
// explicit action field.
func (app *SplitterApp) handleProjectAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := r.PathValue("id")
	back := "/project/" + projectID

	switch r.FormValue("action") {
	case "add_expense":
		amount, err := parseAmount(r.FormValue("amount"))
		if err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		payerID := r.FormValue("payer_id")
		if payerID == "" {
			payerID = userID
		}
		if _, err := app.projects.AddExpense(r.Context(), userID, projectID, r.FormValue("description"), amount, payerID); err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		redirectWithFlash(w, r, back, "expense added")

	case "share":
		user, err := app.projects.Share(r.Context(), userID, projectID, r.FormValue("username"))
		if err != nil {
			redirectWithFlash(w, r, back, flashMessage(err))
			return
		}
		redirectWithFlash(w, r, back, "shared with "+user.Username)

	default:
		redirectWithFlash(w, r, back, "unknown action")
	}
}

func (app *SplitterApp) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := app.projects.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		redirectWithFlash(w, r, "/project/"+r.PathValue("id"), flashMessage(err))
		return
	}

	redirectWithFlash(w, r, "/", "project deleted")
}

func (app *SplitterApp) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, err := app.projects.DeleteExpense(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		redirectWithFlash(w, r, "/", flashMessage(err))
		return
	}

	redirectWithFlash(w, r, "/project/"+projectID, "expense deleted")
}

func (app *SplitterApp) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	projectID := r.PathValue("id")

	if err := app.projects.RemoveParticipant(r.Context(), userID, projectID, r.PathValue("userID")); err != nil {
		redirectWithFlash(w, r, "/project/"+projectID, flashMessage(err))
		return
	}

	redirectWithFlash(w, r, "/project/"+projectID, "participant removed")
}

// parseAmount accepts a decimal form value, rejecting negatives, NaN, and
// infinities.
func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &models.ValidationError{Field: "amount", Message: "must be a number"}
	}
	if amount < 0 {
		return 0, &models.ValidationError{Field: "amount", Message: "must not be negative"}
	}
	return amount, nil
}
