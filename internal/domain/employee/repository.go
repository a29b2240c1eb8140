package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)
	// ListActiveIDs returns the ids of every active, non-deleted employee.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
