package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casewatch/casewatch/internal/platform/httpx"
	"github.com/casewatch/casewatch/internal/shared"
)

// Handler exposes the permission delivery endpoint consumed by the
// client tier.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *DecisionMetrics
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *DecisionMetrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers the delivery endpoint. Mounted under /auth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/user-permissions", h.userPermissions)
}

// userPermissions returns the full resolution for the current
// principal. Anonymous is a normal 200 with the empty triple; a store
// fault is a 500 so the client can tell "retry" apart from "you have
// nothing".
func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	setNoStore(w)

	userID := shared.CurrentUserID(r.Context())
	res, err := h.service.Resolve(r.Context(), userID)
	if err != nil {
		h.metrics.Observe(CheckpointDelivery, DecisionFault)
		h.logger.Error("resolve user permissions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Resolution Failed", "unable to resolve permissions")
		return
	}

	if userID == "" {
		h.metrics.Observe(CheckpointDelivery, DecisionAnon)
	} else {
		h.metrics.Observe(CheckpointDelivery, DecisionAllow)
	}
	httpx.JSON(w, http.StatusOK, res)
}

// setNoStore forbids caching at every layer. Permission sets must
// reflect same-second role changes.
func setNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
}
