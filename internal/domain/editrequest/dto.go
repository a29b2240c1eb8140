package editrequest

import (
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type SubmitEditRequestRequest struct {
	EmployeeID     string                          `json:"-"`
	Date           string                          `json:"date" validate:"required,datetime=2006-01-02"`
	PunchIn        string                          `json:"punch_in" validate:"required"`
	PunchOut       string                          `json:"punch_out" validate:"required"`
	BreakIntervals []attendance.BreakIntervalInput `json:"break_intervals" validate:"dive"`
}

func (r *SubmitEditRequestRequest) Timesheet() attendance.TimesheetInput {
	return attendance.TimesheetInput{
		PunchIn:        r.PunchIn,
		PunchOut:       r.PunchOut,
		BreakIntervals: r.BreakIntervals,
	}
}

func (r *SubmitEditRequestRequest) Validate() error {
	if errs := validator.Struct(r); errs != nil {
		return errs
	}
	_, err := r.Timesheet().Parse()
	return err
}

type ApproveEditRequestRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *ApproveEditRequestRequest) Validate() error {
	return ValidateID(r.ID)
}

type RejectEditRequestRequest struct {
	ID         string `json:"-"`
	ReviewerID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r *RejectEditRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "rejection reason is required")
	}
	return errs.Err()
}

type EditRequestFilter struct {
	Status     *string `json:"status,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ValidateID checks an edit request id. Ids are issued as UUIDv7.
func ValidateID(id string) error {
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}
	return nil
}

func (f *EditRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && *f.Status == "" {
		f.Status = nil
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}

	if f.EmployeeID != nil && !validator.IsUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type AdminActionResponse struct {
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

type EditRequestResponse struct {
	ID                string                             `json:"id"`
	EmployeeID        string                             `json:"employee_id"`
	Username          *string                            `json:"username,omitempty"`
	EmployeeName      *string                            `json:"employee_name,omitempty"`
	EmployeeCode      *string                            `json:"employee_code,omitempty"`
	Date              string                             `json:"date"`
	PunchIn           string                             `json:"punch_in"`
	PunchOut          string                             `json:"punch_out"`
	BreakIntervals    []attendance.BreakIntervalResponse `json:"break_intervals"`
	TotalWorkMinutes  int                                `json:"total_work_minutes"`
	TotalBreakMinutes int                                `json:"total_break_minutes"`
	Status            string                             `json:"status"`
	AdminAction       *AdminActionResponse               `json:"admin_action,omitempty"`
	CreatedAt         string                             `json:"created_at"`
	UpdatedAt         string                             `json:"updated_at"`
}

type ListEditRequestResponse struct {
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
	EditRequests []EditRequestResponse `json:"edit_requests"`
}

type ApprovalOutcome string

const (
	// ApprovalApplied means the record and the request were both written.
	ApprovalApplied ApprovalOutcome = "applied"
	// ApprovalPartial means the record was written but the request is still pending.
	ApprovalPartial ApprovalOutcome = "partial"
)

type ApprovalResult struct {
	Outcome    ApprovalOutcome               `json:"outcome"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
	Request    EditRequestResponse           `json:"request"`
}
