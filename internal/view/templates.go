package view

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/casewatch/casewatch/internal/authz"
	"github.com/casewatch/casewatch/internal/shared"
	"github.com/casewatch/casewatch/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates. Perms carries
// the resolved authorization for the current principal so templates can
// gate fragments without any store access of their own.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Perms       authz.State
	Data        any
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"gate": func(st authz.State, permission string, children, fallback string) template.HTML {
			g := authz.Gate{
				Check:    authz.CheckSpec{Permission: permission},
				Children: template.HTML(children),
				Fallback: template.HTML(fallback),
			}
			return g.Render(st)
		},
		// The can* helpers go through Allows so admins pass without
		// explicit grants, matching the route middleware. All answer
		// false while the state is still loading.
		"can": func(st authz.State, permission string) bool {
			return !st.Loading && authz.Allows(st.Resolution, authz.CheckSpec{Permission: permission})
		},
		"canAny": func(st authz.State, permissions ...string) bool {
			return !st.Loading && authz.Allows(st.Resolution, authz.CheckSpec{AnyPermission: permissions})
		},
		"canAll": func(st authz.State, permissions ...string) bool {
			return !st.Loading && authz.Allows(st.Resolution, authz.CheckSpec{AllPermissions: permissions})
		},
		"hasRole": func(st authz.State, role string) bool {
			return !st.Loading && authz.Allows(st.Resolution, authz.CheckSpec{Role: role})
		},
		"isAdmin": func(st authz.State) bool {
			return !st.Loading && st.IsAdmin
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html", "templates/pages/*/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
