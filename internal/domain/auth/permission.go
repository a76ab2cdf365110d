package auth

type Permission string

const (
	// Requests
	PermissionRequestCreate   Permission = "request.create"
	PermissionRequestViewOwn  Permission = "request.view_own"
	PermissionRequestViewTeam Permission = "request.view_team"
	PermissionRequestViewAll  Permission = "request.view_all"
	PermissionRequestApprove  Permission = "request.approve"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionHolidayManage     Permission = "holiday.manage"

	// Employees
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionAttendanceViewOwn,
	},
	RoleLineManager: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionRequestViewTeam,
		PermissionRequestApprove,
		PermissionAttendanceViewOwn,
		PermissionEmployeeViewAll,
		PermissionReportsView,
	},
	RoleHR: {
		PermissionRequestCreate,
		PermissionRequestViewOwn,
		PermissionRequestViewTeam,
		PermissionRequestViewAll,
		PermissionRequestApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionHolidayManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
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

// Can reports whether any of the session's roles grants permission.
func (s Session) Can(permission Permission) bool {
	if s.EmployeeID != "" && HasPermission(RoleEmployee, permission) {
		return true
	}
	for _, role := range s.Roles {
		if HasPermission(role, permission) {
			return true
		}
	}
	return false
}
