package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceCorrect Permission = "attendance.correct"

	// Edit requests
	PermissionEditRequestCreate Permission = "attendance_edit.create"
	PermissionEditRequestReview Permission = "attendance_edit.review"

	// Reports and jobs
	PermissionReportsView     Permission = "reports.view"
	PermissionAbsenceSweepRun Permission = "absence_sweep.run"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendancePunch,
		PermissionAttendanceViewAll,
		PermissionAttendanceCorrect,
		PermissionEditRequestCreate,
		PermissionEditRequestReview,
		PermissionReportsView,
		PermissionAbsenceSweepRun,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendancePunch,
		PermissionEditRequestCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
