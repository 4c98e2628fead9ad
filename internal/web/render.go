// Package web implements the server-rendered surface shared by the
// splitter and checklist variants: registration, login, dashboards, and
// the resource detail pages with their form-post mutations.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

//go:embed templates
var templateFS embed.FS

// flashCookie carries a one-shot status message across the
// post-redirect-get cycle.
const flashCookie = "divvy_flash"

// Renderer holds the parsed page templates. Each page is parsed together
// with the shared layout so {{template "content"}} resolves per page.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"money": func(amount float64) string { return fmt.Sprintf("%.2f", amount) },
	"date": func(unix int64) string {
		return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
	},
}

// NewRenderer parses all embedded page templates. It panics on a parse
// error since a broken template is a build defect, not a runtime
// condition.
func NewRenderer() *Renderer {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.New("layout.html").Funcs(templateFuncs)
		pages[path.Base(name)] = template.Must(t.ParseFS(templateFS, "templates/layout.html", name))
	}
	return &Renderer{pages: pages}
}

// pageData is the root object every template receives.
type pageData struct {
	Title    string
	Username string
	Flash    string
	Data     any
}

func (rd *Renderer) render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := rd.pages[page]
	if !ok {
		slog.Error("Unknown template requested", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		slog.Error("Template execution failed", "page", page, "error", err)
	}
}

// setFlash stores a one-shot message; popFlash returns and clears it.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// redirectWithFlash is the standard mutation exit: set the message, then
// 303 so the browser re-GETs the target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		setFlash(w, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
