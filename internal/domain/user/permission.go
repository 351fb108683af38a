package user

type Permission string

const (
	// Attendance
	PermissionAttendanceWrite Permission = "attendance.write"
	PermissionAttendanceView  Permission = "attendance.view"

	// Reports
	PermissionReportsView   Permission = "reports.view"
	PermissionReportsExport Permission = "reports.export"

	// Supervisor management
	PermissionPastDateManage Permission = "user.past_date_manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionAttendanceWrite,
		PermissionAttendanceView,
		PermissionReportsView,
		PermissionReportsExport,
		PermissionPastDateManage,
	},
	RoleAdmin: {
		PermissionAttendanceWrite,
		PermissionAttendanceView,
		PermissionReportsView,
		PermissionReportsExport,
		PermissionPastDateManage,
	},
	RoleSupervisor: {
		PermissionAttendanceWrite,
		PermissionAttendanceView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
