package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

type ReportServiceImpl struct {
	reportRepo   report.ReportRepository
	employeeRepo employee.EmployeeRepository
	zone         workday.Zone
	now          func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, employeeRepo employee.EmployeeRepository, zone workday.Zone) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		employeeRepo: employeeRepo,
		zone:         zone,
		now:          time.Now,
	}
}

// MonthlyAbsences implements report.ReportService.
func (s *ReportServiceImpl) MonthlyAbsences(ctx context.Context, req report.MonthlyAbsenceReportRequest) (report.MonthlyAbsenceReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.MonthlyAbsenceReport{}, err
	}

	var employeeID *string
	if req.EmployeeCode != nil {
		emp, err := s.employeeRepo.GetByEmployeeCode(ctx, *req.EmployeeCode)
		if err != nil {
			return report.MonthlyAbsenceReport{}, err
		}
		employeeID = &emp.ID
	}

	// Calculate period dates
	periodStart, periodEnd := workday.MonthRange(req.Year, time.Month(req.Month))

	rows, err := s.reportRepo.GetAbsences(ctx, periodStart, periodEnd, employeeID)
	if err != nil {
		return report.MonthlyAbsenceReport{}, fmt.Errorf("failed to get absence data: %w", err)
	}

	// Rows arrive ordered by employee code, so consecutive rows group.
	employees := make([]report.EmployeeAbsence, 0)
	for _, row := range rows {
		n := len(employees)
		if n == 0 || employees[n-1].EmployeeID != row.EmployeeID {
			employees = append(employees, report.EmployeeAbsence{
				EmployeeID:   row.EmployeeID,
				EmployeeCode: row.EmployeeCode,
				EmployeeName: row.EmployeeName,
				Username:     row.Username,
				Dates:        []string{},
			})
			n++
		}
		employees[n-1].AbsentDays++
		employees[n-1].Dates = append(employees[n-1].Dates, row.Date.Format(workday.DateLayout))
	}

	return report.MonthlyAbsenceReport{
		PeriodMonth:   req.Month,
		PeriodYear:    req.Year,
		PeriodStart:   periodStart.Format(workday.DateLayout),
		PeriodEnd:     periodEnd.Format(workday.DateLayout),
		GeneratedAt:   s.zone.Format(s.now(), time.RFC3339),
		TotalAbsences: len(rows),
		Employees:     employees,
	}, nil
}
