package employee

import (
	"time"
)

// Employee is the read-only roster entry this service needs. Employee
// records are managed elsewhere.
type Employee struct {
	ID               string
	UserID           *string
	EmployeeCode     string
	FullName         string
	Username         string
	Email            string
	Designation      *string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive && e.DeletedAt == nil
}
