package cases

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casewatch/casewatch/internal/authz"
	"github.com/casewatch/casewatch/internal/shared"
	"github.com/casewatch/casewatch/internal/view"
)

// Handler serves case listing and detail pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     *authz.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	require   authz.Require
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authzSvc *authz.Service, templates *view.Engine, csrf *shared.CSRFManager, require authz.Require) *Handler {
	return &Handler{logger: logger, service: service, authz: authzSvc, templates: templates, csrf: csrf, require: require}
}

// MountRoutes registers case routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.require.Any(shared.PermViewCases))
		r.Get("/", h.listCases)
		r.Get("/{slug}", h.showCase)
	})
}

type formErrors map[string]string

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	list, pagination, err := h.service.ListCases(r.Context(), page)
	if err != nil {
		h.logger.Error("list cases", slog.Any("error", err))
		h.render(w, r, "pages/cases/list.html", "Cases", map[string]any{"Errors": formErrors{"general": "Could not load cases"}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/cases/list.html", "Cases", map[string]any{
		"Cases":      list,
		"Pagination": pagination,
		"Errors":     formErrors{},
	}, http.StatusOK)
}

func (h *Handler) showCase(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("show case", slog.Any("error", err), slog.String("slug", slug))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/cases/detail.html", c.Title, map[string]any{"Case": c}, http.StatusOK)
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
