package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Monthly Absence Report
	GetMonthlyAbsenceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyAbsenceReport handles GET /reports/absences/{year}/{month}[/{employeeCode}]
func (h *reportHandlerImpl) GetMonthlyAbsenceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	req := report.MonthlyAbsenceReportRequest{
		Month: month,
		Year:  year,
	}
	if code := chi.URLParam(r, "employeeCode"); code != "" {
		req.EmployeeCode = &code
	}

	result, err := h.reportService.MonthlyAbsences(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
