// Package admin serves the protected administration page subtree. The
// routes mounted here sit behind both the edge middleware and the
// layout guard.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casewatch/casewatch/internal/authz"
	"github.com/casewatch/casewatch/internal/shared"
	"github.com/casewatch/casewatch/internal/users"
	"github.com/casewatch/casewatch/internal/view"
)

// ActivitySource reads recent audit trail entries for the activity page.
type ActivitySource interface {
	Recent(ctx context.Context, limit int) ([]shared.AuditLog, error)
}

// Handler renders the admin pages.
type Handler struct {
	logger    *slog.Logger
	authz     *authz.Service
	adminSvc  *authz.AdminService
	usersSvc  *users.Service
	activity  ActivitySource
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, authzSvc *authz.Service, adminSvc *authz.AdminService, usersSvc *users.Service, activity ActivitySource, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, authz: authzSvc, adminSvc: adminSvc, usersSvc: usersSvc, activity: activity, templates: templates, csrf: csrf}
}

// MountRoutes registers the admin pages. The caller wraps the subtree
// in the layout guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get("/users", h.listUsers)
	r.Get("/roles", h.rolesMatrix)
	r.Get("/activity", h.recentActivity)
}

type formErrors map[string]string

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/admin/dashboard.html", "Administration", map[string]any{}, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.usersSvc.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		h.render(w, r, "pages/admin/users.html", "Users", map[string]any{"Errors": formErrors{"general": "Could not load users"}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/admin/users.html", "Users", map[string]any{"Users": list, "Errors": formErrors{}}, http.StatusOK)
}

func (h *Handler) rolesMatrix(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminSvc.Overview(r.Context())
	if err != nil {
		h.logger.Error("roles matrix", slog.Any("error", err))
		h.render(w, r, "pages/admin/roles.html", "Roles", map[string]any{"Errors": formErrors{"general": "Could not load roles"}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/admin/roles.html", "Roles", map[string]any{
		"Roles":       overview.Roles,
		"Permissions": overview.Permissions,
		"Grants":      overview.Grants,
		"Errors":      formErrors{},
	}, http.StatusOK)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activity.Recent(r.Context(), 50)
	if err != nil {
		h.logger.Error("recent activity", slog.Any("error", err))
		h.render(w, r, "pages/admin/activity.html", "Activity", map[string]any{"Errors": formErrors{"general": "Could not load activity"}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/admin/activity.html", "Activity", map[string]any{"Entries": entries, "Errors": formErrors{}}, http.StatusOK)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Perms:       h.authz.ViewState(r.Context(), shared.CurrentUserID(r.Context()), h.logger),
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}
