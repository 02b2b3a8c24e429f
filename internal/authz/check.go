package authz

// CheckSpec describes a capability check. Fields are independent
// conditions; every supplied one must hold for the check to pass.
type CheckSpec struct {
	// Permission is a single required permission.
	Permission string
	// AnyPermission passes when at least one listed permission is held.
	AnyPermission []string
	// AllPermissions passes when every listed permission is held.
	AllPermissions []string
	// Role is a single required role.
	Role string
}

// Allows reports whether the resolution satisfies the check. An admin
// resolution passes unconditionally so administrative accounts are
// never locked out of features with incomplete grants.
func Allows(res Resolution, spec CheckSpec) bool {
	if res.IsAdmin {
		return true
	}
	if spec.Permission != "" && !res.HasPermission(spec.Permission) {
		return false
	}
	if len(spec.AnyPermission) > 0 && !res.HasAnyPermission(spec.AnyPermission...) {
		return false
	}
	if len(spec.AllPermissions) > 0 && !res.HasAllPermissions(spec.AllPermissions...) {
		return false
	}
	if spec.Role != "" && !res.HasRole(spec.Role) {
		return false
	}
	return true
}
