package authz

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/casewatch/casewatch/internal/shared"
)

// Redirect targets produced by the enforcement checkpoints.
const (
	// AdminPathPrefix is the protected navigation prefix.
	AdminPathPrefix = "/admin"
	// LoginPath receives unauthenticated principals.
	LoginPath = "/auth/login"
	// UnauthorizedRedirect receives authenticated non-admins, with an
	// error indicator the landing page can surface.
	UnauthorizedRedirect = "/?error=unauthorized"
)

// Middleware enforces admin-area access at the network edge, before any
// page logic runs. It must be installed after the session middleware.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
	Metrics *DecisionMetrics
}

// Protect intercepts every inbound navigation. Paths outside the admin
// prefix pass through untouched; the session middleware's cookie
// refresh still applies to them. Admin paths require an authenticated
// principal holding an admin role, re-checked on every navigation so a
// mid-session revocation is enforced immediately.
func (m Middleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAdminPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID := shared.CurrentUserID(r.Context())
		if userID == "" {
			m.Metrics.Observe(CheckpointEdge, DecisionAnon)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		isAdmin, err := m.Service.IsAdminUser(r.Context(), userID)
		if err != nil {
			m.Metrics.Observe(CheckpointEdge, DecisionFault)
			if m.Logger != nil {
				m.Logger.Error("edge admin check", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !isAdmin {
			m.Metrics.Observe(CheckpointEdge, DecisionDeny)
			http.Redirect(w, r, UnauthorizedRedirect, http.StatusSeeOther)
			return
		}

		m.Metrics.Observe(CheckpointEdge, DecisionAllow)
		next.ServeHTTP(w, r)
	})
}

func isAdminPath(path string) bool {
	return path == AdminPathPrefix || strings.HasPrefix(path, AdminPathPrefix+"/")
}
