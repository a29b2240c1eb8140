package attendance

import (
	"context"
	"time"
)

// AbsenceInsertResult reports a bulk absence insert. Failed holds per-employee
// errors for rows that could not be written.
type AbsenceInsertResult struct {
	Inserted int
	Skipped  int
	Failed   map[string]error
}

// AttendanceRepository defines data access methods for attendance records.
// Records are keyed by (employeeID, date) where date is the organization calendar day.
type AttendanceRepository interface {
	// Create inserts a record, returning ErrAlreadyPunchedIn if one already
	// exists for the employee and date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate holding a row lock
	// until the surrounding transaction ends.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// Update overwrites punches, breaks, totals and status of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// GetMyAttendance retrieves attendance records for a specific employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// BulkCreateAbsences inserts Absent placeholders, leaving existing records untouched.
	BulkCreateAbsences(ctx context.Context, date time.Time, employeeIDs []string) (AbsenceInsertResult, error)
}
