package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/casewatch/casewatch/internal/platform/httpx"
	"github.com/casewatch/casewatch/internal/shared"
)

// AdminHandler exposes the role/permission management API under the
// admin area. The admin-area guards already fence these routes; the
// handler only needs the current principal for audit attribution.
type AdminHandler struct {
	logger    *slog.Logger
	service   *AdminService
	validator *validator.Validate
}

// NewAdminHandler constructs an AdminHandler instance.
func NewAdminHandler(logger *slog.Logger, service *AdminService) *AdminHandler {
	return &AdminHandler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers management routes. Mounted under /admin/api.
func (h *AdminHandler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.permissionsOverview)
	r.Post("/permissions", h.savePermissions)
	r.Post("/users/{userID}/roles", h.assignRole)
	r.Delete("/users/{userID}/roles/{roleID}", h.removeRole)
}

func (h *AdminHandler) permissionsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("permissions overview", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to load permissions data")
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

type saveGrantsRequest struct {
	Grants GrantMatrix `json:"grants" validate:"required"`
}

func (h *AdminHandler) savePermissions(w http.ResponseWriter, r *http.Request) {
	var req saveGrantsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed grants payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "grants field is required")
		return
	}
	actorID := shared.CurrentUserID(r.Context())
	if err := h.service.SaveGrants(r.Context(), actorID, req.Grants); err != nil {
		h.logger.Error("save grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to save permissions")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type assignRoleRequest struct {
	RoleID string `json:"roleId" validate:"required"`
}

func (h *AdminHandler) assignRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "roleId is required")
		return
	}
	actorID := shared.CurrentUserID(r.Context())
	if err := h.service.AssignRole(r.Context(), actorID, userID, req.RoleID); err != nil {
		h.logger.Error("assign role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to assign role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) removeRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	roleID := chi.URLParam(r, "roleID")
	actorID := shared.CurrentUserID(r.Context())
	if err := h.service.RemoveRole(r.Context(), actorID, userID, roleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "role assignment not found")
			return
		}
		h.logger.Error("remove role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to remove role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
