package user

import "errors"

var (
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrEmployeeProfileRequired = errors.New("an employee profile is required for this action")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
