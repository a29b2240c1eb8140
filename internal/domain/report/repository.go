package report

import (
	"context"
	"time"
)

type ReportRepository interface {
	// GetAbsences returns Absent records dated within [start, end], ordered by
	// employee code then date. employeeID narrows the result when set.
	GetAbsences(ctx context.Context, start, end time.Time, employeeID *string) ([]AbsenceRow, error)
}
