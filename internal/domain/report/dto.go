package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// ========================================
// MONTHLY ABSENCE REPORT
// ========================================

type MonthlyAbsenceReportRequest struct {
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	EmployeeCode *string `json:"employee_code,omitempty"`
}

func (r *MonthlyAbsenceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs.Add("year", fmt.Sprintf("year must be between 2020 and %d", currentYear+1))
	}

	if r.EmployeeCode != nil && validator.IsEmpty(*r.EmployeeCode) {
		errs.Add("employee_code", "employee_code must not be empty")
	}

	return errs.Err()
}

type MonthlyAbsenceReport struct {
	PeriodMonth   int    `json:"period_month"`
	PeriodYear    int    `json:"period_year"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	GeneratedAt   string `json:"generated_at"`
	TotalAbsences int    `json:"total_absences"`

	Employees []EmployeeAbsence `json:"employees"`
}

type EmployeeAbsence struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeCode string   `json:"employee_code"`
	EmployeeName string   `json:"employee_name"`
	Username     string   `json:"username"`
	AbsentDays   int      `json:"absent_days"`
	Dates        []string `json:"dates"`
}

// AbsenceRow is one Absent record joined with its employee.
type AbsenceRow struct {
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	Username     string
	Date         time.Time
}
