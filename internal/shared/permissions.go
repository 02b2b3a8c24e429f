package shared

// Case-tracking permissions declared for RBAC.
const (
	PermViewCases   = "view_cases"
	PermEditCases   = "edit_cases"
	PermDeleteCases = "delete_cases"
	PermManageCases = "manage_cases"

	PermManageUsers  = "manage_users"
	PermManageRoles  = "manage_roles"
	PermViewActivity = "view_activity"
	PermViewReports  = "view_reports"
)

// CaseScopes lists all permissions related to case handling.
func CaseScopes() []string {
	return []string{
		PermViewCases,
		PermEditCases,
		PermDeleteCases,
		PermManageCases,
	}
}

// AdminScopes lists all permissions related to administration.
func AdminScopes() []string {
	return []string{
		PermManageUsers,
		PermManageRoles,
		PermViewActivity,
		PermViewReports,
	}
}
