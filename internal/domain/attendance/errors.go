package attendance

import "errors"

// Attendance domain errors
var (
	// Lifecycle conflicts
	ErrAlreadyPunchedIn    = errors.New("you have already punched in today")
	ErrAlreadyPunchedOut   = errors.New("you have already punched out today")
	ErrBreakAlreadyOngoing = errors.New("a break is already ongoing")
	ErrNoOngoingBreak      = errors.New("no ongoing break found")
	ErrNoActiveAttendance  = errors.New("you have not punched in today")

	// Time arithmetic
	ErrInvalidInterval = errors.New("interval end is before its start")

	// Absence sweep
	ErrSweepTooEarly = errors.New("absence sweep cannot run before the configured sweep time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
