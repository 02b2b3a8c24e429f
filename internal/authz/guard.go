package authz

import (
	"log/slog"
	"net/http"

	"github.com/casewatch/casewatch/internal/shared"
)

// Guard re-verifies admin access around the protected page subtree. It
// is deliberately independent of the edge middleware: a routing
// misconfiguration that bypasses one checkpoint still hits the other.
// Both call Service.IsAdminUser, so the role set and admin constants
// cannot drift apart.
type Guard struct {
	Service *Service
	Logger  *slog.Logger
	Metrics *DecisionMetrics
}

// RequireAdmin wraps the admin page subtree. Anonymous principals go to
// the sign-in page; authenticated non-admins go to the root. No error
// parameter is attached here; on the common path the edge middleware
// already supplied it.
func (g Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := shared.CurrentUserID(r.Context())
		if userID == "" {
			g.Metrics.Observe(CheckpointLayout, DecisionAnon)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		isAdmin, err := g.Service.IsAdminUser(r.Context(), userID)
		if err != nil {
			g.Metrics.Observe(CheckpointLayout, DecisionFault)
			if g.Logger != nil {
				g.Logger.Error("layout admin check", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !isAdmin {
			g.Metrics.Observe(CheckpointLayout, DecisionDeny)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		g.Metrics.Observe(CheckpointLayout, DecisionAllow)
		next.ServeHTTP(w, r)
	})
}
