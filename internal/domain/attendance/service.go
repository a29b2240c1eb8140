package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// employeeID always identifies the authenticated caller.
type AttendanceService interface {
	PunchIn(ctx context.Context, employeeID string) (AttendanceResponse, error)
	PunchOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	StartBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetToday returns the live summary of the caller's current day
	GetToday(ctx context.Context, employeeID string) (TodayResponse, error)

	// GetMyAttendance retrieves attendance records for authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// CorrectAttendance overwrites an existing record with admin supplied times
	CorrectAttendance(ctx context.Context, req CorrectAttendanceRequest) (AttendanceResponse, error)

	// RunDailySweep writes Absent placeholders for today's missing records
	RunDailySweep(ctx context.Context) (SweepResult, error)

	// RunManualSweep is RunDailySweep for an on-demand trigger. It returns
	// ErrSweepTooEarly before today's sweep time.
	RunManualSweep(ctx context.Context) (SweepResult, error)
}
