package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews edit requests, corrects records, reads reports
	RoleEmployee Role = "employee" // Punches and submits edit requests for self
)

// Identity is the caller resolved from an access token. Tokens are issued elsewhere.
type Identity struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// IsAdmin checks if the caller has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// HasEmployee reports whether the caller is linked to an employee record.
func (i Identity) HasEmployee() bool {
	return i.EmployeeID != nil && *i.EmployeeID != ""
}
