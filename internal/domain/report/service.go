package report

import "context"

type ReportService interface {
	// MonthlyAbsences lists every employee with at least one absence in the month,
	// or a single employee when EmployeeCode is set.
	MonthlyAbsences(ctx context.Context, req MonthlyAbsenceReportRequest) (MonthlyAbsenceReport, error)
}
