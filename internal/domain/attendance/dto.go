package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// StillWorking is shown instead of a punch out time while the day is open.
const StillWorking = "Still Working"

// ========================================
// ATTENDANCE DTOs
// ========================================

type BreakIntervalResponse struct {
	Start           string  `json:"start"`
	End             *string `json:"end,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type AttendanceResponse struct {
	ID                string                  `json:"id"`
	EmployeeID        string                  `json:"employee_id"`
	EmployeeName      *string                 `json:"employee_name,omitempty"`
	EmployeeCode      *string                 `json:"employee_code,omitempty"`
	Date              string                  `json:"date"`
	PunchIn           *string                 `json:"punch_in,omitempty"`
	PunchOut          *string                 `json:"punch_out,omitempty"`
	BreakIntervals    []BreakIntervalResponse `json:"break_intervals"`
	TotalBreakMinutes int                     `json:"total_break_minutes"`
	TotalWorkMinutes  int                     `json:"total_work_minutes"`
	Status            string                  `json:"status"`
	WorkTimeAnomaly   bool                    `json:"work_time_anomaly,omitempty"`
	CreatedAt         string                  `json:"created_at"`
	UpdatedAt         string                  `json:"updated_at"`
}

// TodayResponse is the live view of the current day. While the employee is
// still working, TotalWorkMinutes is computed up to now.
type TodayResponse struct {
	Date              string                  `json:"date"`
	PunchIn           *string                 `json:"punch_in"`
	PunchOut          string                  `json:"punch_out"`
	OnBreak           bool                    `json:"on_break"`
	BreakIntervals    []BreakIntervalResponse `json:"break_intervals"`
	TotalBreakMinutes int                     `json:"total_break_minutes"`
	TotalWorkMinutes  int                     `json:"total_work_minutes"`
	Status            string                  `json:"status"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, punch_in, punch_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	errs := validatePaging(&f.Page, &f.Limit)
	if f.EmployeeID != nil && !validator.IsUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder, []string{"date", "employee_name", "punch_in", "punch_out", "status"})...)
	return errs.Err()
}

type MyAttendanceFilter struct {
	// Search & Filter (no employee filters)
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, punch_in, punch_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	errs := validatePaging(&f.Page, &f.Limit)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder, []string{"date", "punch_in", "punch_out", "status"})...)
	return errs.Err()
}

func validatePaging(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	return errs
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for field, value := range map[string]*string{"date": date, "start_date": start, "end_date": end} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs.Add(field, field+" must be in YYYY-MM-DD format")
			}
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}

func validateStatus(status *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if status != nil && *status != "" && !validator.IsInSlice(*status, ValidStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(ValidStatuses, ", "))
	}
	return errs
}

func validateSort(sortBy, sortOrder *string, fields []string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if *sortBy == "" {
		*sortBy = "date"
	} else if !validator.IsInSlice(*sortBy, fields) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(fields, ", "))
	}

	if *sortOrder == "" {
		*sortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(*sortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}
	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// TIMESHEET INPUT (shared by corrections and edit requests)
// ========================================

type BreakIntervalInput struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// TimesheetInput carries a full replacement of a day's punches and breaks.
// Times are RFC3339 instants.
type TimesheetInput struct {
	PunchIn        string               `json:"punch_in" validate:"required"`
	PunchOut       string               `json:"punch_out" validate:"required"`
	BreakIntervals []BreakIntervalInput `json:"break_intervals" validate:"dive"`
}

// Timesheet is a parsed TimesheetInput with break durations computed.
type Timesheet struct {
	PunchIn        time.Time
	PunchOut       time.Time
	BreakIntervals BreakIntervals
}

func (t Timesheet) TotalBreakMinutes() int {
	return TotalBreakMinutes(t.BreakIntervals)
}

// Parse validates and converts the input. Breaks must be closed, ordered,
// non-overlapping and inside [punch_in, punch_out].
func (in TimesheetInput) Parse() (Timesheet, error) {
	if errs := validator.Struct(in); errs != nil {
		return Timesheet{}, errs
	}

	var errs validator.ValidationErrors
	punchIn, okIn := validator.IsValidDateTime(in.PunchIn)
	if !okIn {
		errs.Add("punch_in", "punch_in must be an RFC3339 timestamp")
	}
	punchOut, okOut := validator.IsValidDateTime(in.PunchOut)
	if !okOut {
		errs.Add("punch_out", "punch_out must be an RFC3339 timestamp")
	}
	if okIn && okOut && punchOut.Before(punchIn) {
		errs.Add("punch_out", "punch_out must not be before punch_in")
	}
	if len(errs) > 0 {
		return Timesheet{}, errs
	}

	ts := Timesheet{
		PunchIn:        punchIn,
		PunchOut:       punchOut,
		BreakIntervals: make(BreakIntervals, 0, len(in.BreakIntervals)),
	}

	prevEnd := punchIn
	for i, b := range in.BreakIntervals {
		field := fmt.Sprintf("break_intervals[%d]", i)
		start, ok := validator.IsValidDateTime(b.Start)
		if !ok {
			errs.Add(field+".start", "start must be an RFC3339 timestamp")
			continue
		}
		end, ok := validator.IsValidDateTime(b.End)
		if !ok {
			errs.Add(field+".end", "end must be an RFC3339 timestamp")
			continue
		}

		duration, err := BreakDuration(start, end)
		if err != nil {
			errs.Add(field+".end", "end must not be before start")
			continue
		}
		if start.Before(prevEnd) {
			errs.Add(field+".start", "break must start after punch_in and after the previous break")
			continue
		}
		if end.After(punchOut) {
			errs.Add(field+".end", "break must end before punch_out")
			continue
		}

		endCopy := end
		ts.BreakIntervals = append(ts.BreakIntervals, BreakInterval{
			Start:           start,
			End:             &endCopy,
			DurationMinutes: &duration,
		})
		prevEnd = end
	}

	if len(errs) > 0 {
		return Timesheet{}, errs
	}
	return ts, nil
}

// CorrectAttendanceRequest lets an admin overwrite an existing record directly.
type CorrectAttendanceRequest struct {
	EmployeeID     string               `json:"employee_id" validate:"required,uuid"`
	Date           string               `json:"date" validate:"required,datetime=2006-01-02"`
	PunchIn        string               `json:"punch_in" validate:"required"`
	PunchOut       string               `json:"punch_out" validate:"required"`
	BreakIntervals []BreakIntervalInput `json:"break_intervals" validate:"dive"`
	ReviewerID     string               `json:"-"`
}

func (r *CorrectAttendanceRequest) Timesheet() TimesheetInput {
	return TimesheetInput{
		PunchIn:        r.PunchIn,
		PunchOut:       r.PunchOut,
		BreakIntervals: r.BreakIntervals,
	}
}

func (r *CorrectAttendanceRequest) Validate() error {
	if errs := validator.Struct(r); errs != nil {
		return errs
	}
	_, err := r.Timesheet().Parse()
	return err
}

// SweepResult reports one run of the absence sweep.
type SweepResult struct {
	Date     string `json:"date"`
	Inserted int    `json:"inserted"`
}
