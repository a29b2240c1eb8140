package editrequest

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var ValidStatuses = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// AdminAction records who reviewed a request and why.
type AdminAction struct {
	ReviewedBy *string
	ReviewedAt *time.Time
	Reason     *string
}

// EditRequest is an employee's proposed replacement for one day's record.
// Proposed totals are computed server side when the request is submitted.
type EditRequest struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	PunchIn           time.Time
	PunchOut          time.Time
	BreakIntervals    attendance.BreakIntervals
	TotalWorkMinutes  int
	TotalBreakMinutes int
	Status            Status
	AdminAction       AdminAction
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	Username     *string
	EmployeeName *string
	EmployeeCode *string
}

func (r EditRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Timesheet returns the proposed values in the form the calculator replays.
func (r EditRequest) Timesheet() attendance.Timesheet {
	return attendance.Timesheet{
		PunchIn:        r.PunchIn,
		PunchOut:       r.PunchOut,
		BreakIntervals: r.BreakIntervals,
	}
}
