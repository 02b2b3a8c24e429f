package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/casewatch/casewatch/internal/admin"
	"github.com/casewatch/casewatch/internal/auth"
	"github.com/casewatch/casewatch/internal/authz"
	"github.com/casewatch/casewatch/internal/cases"
	"github.com/casewatch/casewatch/internal/observability"
	"github.com/casewatch/casewatch/internal/shared"
	"github.com/casewatch/casewatch/internal/view"
	"github.com/casewatch/casewatch/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler       *auth.Handler
	AuthzService      *authz.Service
	AuthzHandler      *authz.Handler
	AuthzAdminHandler *authz.AdminHandler
	EdgeMiddleware    authz.Middleware
	LayoutGuard       authz.Guard
	CasesHandler      *cases.Handler
	AdminHandler      *admin.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with CaseWatch defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	// Edge enforcement runs before any route logic so revoked admins
	// are turned away on their next navigation.
	r.Use(params.EdgeMiddleware.Protect)

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}

		// Unauthenticated visitors land on the public page, where the
		// unauthorized indicator from the edge redirect is surfaced.
		if sess == nil || sess.User() == "" {
			data := view.TemplateData{
				Title:     "CaseWatch",
				CSRFToken: csrfToken,
				Flash:     flash,
				Data:      map[string]any{"Error": r.URL.Query().Get("error")},
			}
			if err := params.Templates.Render(w, "pages/landing.html", data); err != nil {
				params.Logger.Error("render landing", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}

		if r.URL.Query().Get("error") == "unauthorized" && flash == nil {
			flash = &shared.FlashMessage{Kind: "error", Message: "You are not authorised to access that area."}
		}
		data := view.TemplateData{
			Title:       "Dashboard",
			CSRFToken:   csrfToken,
			Flash:       flash,
			CurrentPath: r.URL.Path,
			Perms:       params.AuthzService.ViewState(r.Context(), sess.User(), params.Logger),
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		params.AuthzHandler.MountRoutes(r)
	})

	r.Route("/cases", params.CasesHandler.MountRoutes)

	// The layout guard independently re-checks the admin subtree even
	// though the edge middleware already covers /admin.
	r.Route("/admin", func(r chi.Router) {
		r.Use(params.LayoutGuard.RequireAdmin)
		params.AdminHandler.MountRoutes(r)
		r.Route("/api", params.AuthzAdminHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets may be cached; permission responses never are.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
