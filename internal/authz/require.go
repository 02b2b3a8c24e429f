package authz

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/casewatch/casewatch/internal/shared"
)

// Require builds permission-scoped route middleware for feature
// modules. Unlike the admin gates it evaluates the full permission
// union, so non-admin roles can unlock individual routes.
type Require struct {
	Service *Service
	Logger  *slog.Logger
}

// Any ensures the current user has at least one of the required
// permissions. Admins pass unconditionally.
func (q Require) Any(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return q.middleware(normalized, func(res Resolution, required []string) bool {
		return res.HasAnyPermission(required...)
	})
}

// All ensures the current user has all required permissions. Admins
// pass unconditionally.
func (q Require) All(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return q.middleware(normalized, func(res Resolution, required []string) bool {
		return res.HasAllPermissions(required...)
	})
}

func (q Require) middleware(required []string, pass func(Resolution, []string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			userID := shared.CurrentUserID(r.Context())
			if userID == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			res, err := q.Service.Resolve(r.Context(), userID)
			if err != nil {
				if q.Logger != nil {
					q.Logger.Error("route permission check", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if res.IsAdmin || pass(res, required) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}
