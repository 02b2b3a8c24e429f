package authz

import "sort"

// Role identifiers granting administrative access. The set is shared by
// the edge middleware, the admin layout guard and the delivery
// endpoint's isAdmin computation; call sites must reference AdminRoles
// instead of repeating these literals.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// AdminRoles is the fixed admin-role set.
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

// Resolution is the effective authorization of one principal at one
// point in time. It is derived on demand and never persisted.
type Resolution struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"isAdmin"`
}

// EmptyResolution returns the anonymous / no-access resolution. Slices
// are non-nil so the delivery endpoint serialises them as [].
func EmptyResolution() Resolution {
	return Resolution{Roles: []string{}, Permissions: []string{}}
}

// HasRole reports membership of a single role.
func (r Resolution) HasRole(id string) bool {
	for _, role := range r.Roles {
		if role == id {
			return true
		}
	}
	return false
}

// HasPermission reports membership of a single permission.
func (r Resolution) HasPermission(id string) bool {
	for _, perm := range r.Permissions {
		if perm == id {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of the given
// permissions is held.
func (r Resolution) HasAnyPermission(ids ...string) bool {
	for _, id := range ids {
		if r.HasPermission(id) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every given permission is held.
func (r Resolution) HasAllPermissions(ids ...string) bool {
	for _, id := range ids {
		if !r.HasPermission(id) {
			return false
		}
	}
	return true
}

// ContainsAdminRole reports whether the role set includes any member of
// AdminRoles.
func ContainsAdminRole(roles []string) bool {
	for _, role := range roles {
		for _, admin := range AdminRoles {
			if role == admin {
				return true
			}
		}
	}
	return false
}

// dedupe returns a sorted copy of ids with duplicates removed, so a
// resolution is identical regardless of row enumeration order.
func dedupe(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
