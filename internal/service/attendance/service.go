package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	calc    attendance.Calculator
	zone    workday.Zone
	sweepAt time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calc attendance.Calculator,
	zone workday.Zone,
	sweepAt time.Duration,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		calc:                 calc,
		zone:                 zone,
		sweepAt:              sweepAt,
		metrics:              m,
		now:                  time.Now,
	}
}

// domainErrors are expected outcomes of a transition, not failures.
var domainErrors = []error{
	attendance.ErrAlreadyPunchedIn,
	attendance.ErrAlreadyPunchedOut,
	attendance.ErrBreakAlreadyOngoing,
	attendance.ErrNoOngoingBreak,
	attendance.ErrNoActiveAttendance,
	attendance.ErrInvalidInterval,
	employee.ErrEmployeeNotFound,
}

func (a *AttendanceServiceImpl) observe(action string, err error) {
	switch {
	case err == nil:
		a.metrics.Transition(action, "ok")
	case isDomainError(err):
		a.metrics.Transition(action, "rejected")
	default:
		a.metrics.Transition(action, "error")
	}
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, employeeID string) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.observe("punch_in", err) }()

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	now := a.now()
	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:     employeeID,
		Date:           a.zone.DateOf(now),
		PunchIn:        &now,
		BreakIntervals: attendance.BreakIntervals{},
		Status:         attendance.StatusPresent,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee punched in", "employee_id", employeeID, "date", created.Date.Format(workday.DateLayout))
	return attendance.ToResponse(created, a.zone), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID string) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.observe("start_break", err) }()

	return a.mutateToday(ctx, employeeID, func(att *attendance.Attendance, now time.Time) error {
		if !att.IsPunchedIn() {
			return attendance.ErrNoActiveAttendance
		}
		if att.IsPunchedOut() {
			return attendance.ErrAlreadyPunchedOut
		}
		if att.BreakIntervals.HasOpen() {
			return attendance.ErrBreakAlreadyOngoing
		}
		att.BreakIntervals = append(att.BreakIntervals, attendance.BreakInterval{Start: now})
		return nil
	})
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID string) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.observe("end_break", err) }()

	return a.mutateToday(ctx, employeeID, func(att *attendance.Attendance, now time.Time) error {
		if !att.IsPunchedIn() {
			return attendance.ErrNoActiveAttendance
		}
		if err := closeOpenBreak(att, now); err != nil {
			return err
		}
		att.TotalBreakMinutes = attendance.TotalBreakMinutes(att.BreakIntervals)
		return nil
	})
}

// PunchOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, employeeID string) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.observe("punch_out", err) }()

	return a.mutateToday(ctx, employeeID, func(att *attendance.Attendance, now time.Time) error {
		if !att.IsPunchedIn() {
			return attendance.ErrNoActiveAttendance
		}
		if att.IsPunchedOut() {
			return attendance.ErrAlreadyPunchedOut
		}
		if att.BreakIntervals.HasOpen() {
			if err := closeOpenBreak(att, now); err != nil {
				return err
			}
		}

		att.PunchOut = &now
		if a.calc.Close(att) {
			a.metrics.WorkTimeAnomaly()
			slog.Warn("Negative work time stored as zero",
				"attendance_id", att.ID,
				"employee_id", att.EmployeeID,
				"total_break_minutes", att.TotalBreakMinutes)
		}
		return nil
	})
}

func closeOpenBreak(att *attendance.Attendance, now time.Time) error {
	idx, err := att.BreakIntervals.Current()
	if err != nil {
		return err
	}
	duration, err := attendance.BreakDuration(att.BreakIntervals[idx].Start, now)
	if err != nil {
		return err
	}
	end := now
	att.BreakIntervals[idx].End = &end
	att.BreakIntervals[idx].DurationMinutes = &duration
	return nil
}

// mutateToday locks today's record, applies fn and persists the result as
// one transaction, so transitions for one employee and day are serialized.
func (a *AttendanceServiceImpl) mutateToday(ctx context.Context, employeeID string, fn func(att *attendance.Attendance, now time.Time) error) (attendance.AttendanceResponse, error) {
	var updated attendance.Attendance

	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := a.now()
		att, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, a.zone.DateOf(now))
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNoActiveAttendance
			}
			return err
		}

		if err := fn(&att, now); err != nil {
			return err
		}

		if err := a.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		updated = att
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(updated, a.zone), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	now := a.now()
	att, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, a.zone.DateOf(now))
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	return attendance.Today(att, now, a.zone), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.GetMyAttendance(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get attendance records: %w", err)
	}

	return a.listResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return a.listResponse(records, total, filter.Page, filter.Limit), nil
}

func (a *AttendanceServiceImpl) listResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, attendance.ToResponse(att, a.zone))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// CorrectAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CorrectAttendance(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	ts, err := req.Timesheet().Parse()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, err := workday.ParseDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !a.zone.DateOf(ts.PunchIn).Equal(date) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "punch_in", Message: "punch_in must fall on date " + req.Date},
		}
	}

	var updated attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		if a.calc.Replay(&att, ts) {
			a.metrics.WorkTimeAnomaly()
			slog.Warn("Negative work time stored as zero", "attendance_id", att.ID, "employee_id", att.EmployeeID)
		}
		if err := a.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		updated = att
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance corrected by admin",
		"attendance_id", updated.ID,
		"employee_id", updated.EmployeeID,
		"reviewer_id", req.ReviewerID,
		"status", updated.Status)
	return attendance.ToResponse(updated, a.zone), nil
}

// RunManualSweep implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RunManualSweep(ctx context.Context) (attendance.SweepResult, error) {
	now := a.now()
	earliest := a.zone.At(a.zone.DateOf(now), a.sweepAt)
	if now.Before(earliest) {
		slog.Warn("Manual absence sweep refused",
			"now", a.zone.Format(now, time.RFC3339),
			"earliest", a.zone.Format(earliest, time.RFC3339))
		return attendance.SweepResult{}, attendance.ErrSweepTooEarly
	}
	return a.RunDailySweep(ctx)
}

// RunDailySweep implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RunDailySweep(ctx context.Context) (attendance.SweepResult, error) {
	now := a.now()
	date := a.zone.DateOf(now)
	result := attendance.SweepResult{Date: date.Format(workday.DateLayout)}

	employeeIDs, err := a.EmployeeRepository.ListActiveIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}

	inserted, err := a.AttendanceRepository.BulkCreateAbsences(ctx, date, employeeIDs)
	if err != nil {
		slog.Error("Absence sweep: bulk insert failed", "date", result.Date, "error", err)
		a.metrics.Sweep(inserted.Inserted, len(employeeIDs)-inserted.Inserted-inserted.Skipped, now)
		return result, fmt.Errorf("failed to create absences: %w", err)
	}

	for employeeID, rowErr := range inserted.Failed {
		slog.Error("Absence sweep: failed to mark employee absent",
			"employee_id", employeeID,
			"date", result.Date,
			"error", rowErr)
	}

	result.Inserted = inserted.Inserted
	a.metrics.Sweep(inserted.Inserted, len(inserted.Failed), now)
	slog.Info("Absence sweep completed",
		"date", result.Date,
		"active_employees", len(employeeIDs),
		"inserted", inserted.Inserted,
		"already_recorded", inserted.Skipped,
		"failed", len(inserted.Failed))

	return result, nil
}
