package editrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

type EditRequestServiceImpl struct {
	tx             database.Transactor
	requestRepo    editrequest.EditRequestRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calc           attendance.Calculator
	zone           workday.Zone
	metrics        *metrics.Metrics
	now            func() time.Time
}

func NewEditRequestService(
	tx database.Transactor,
	requestRepo editrequest.EditRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calc attendance.Calculator,
	zone workday.Zone,
	m *metrics.Metrics,
) editrequest.EditRequestService {
	return &EditRequestServiceImpl{
		tx:             tx,
		requestRepo:    requestRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calc:           calc,
		zone:           zone,
		metrics:        m,
		now:            time.Now,
	}
}

// Submit implements editrequest.EditRequestService.
func (s *EditRequestServiceImpl) Submit(ctx context.Context, req editrequest.SubmitEditRequestRequest) (editrequest.EditRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return editrequest.EditRequestResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return editrequest.EditRequestResponse{}, err
	}

	ts, err := req.Timesheet().Parse()
	if err != nil {
		return editrequest.EditRequestResponse{}, err
	}
	date, err := workday.ParseDate(req.Date)
	if err != nil {
		return editrequest.EditRequestResponse{}, err
	}
	if !s.zone.DateOf(ts.PunchIn).Equal(date) {
		return editrequest.EditRequestResponse{}, validator.ValidationErrors{
			{Field: "punch_in", Message: editrequest.ErrDateMismatch.Error()},
		}
	}

	// Totals are derived here so the stored proposal matches what approval replays.
	breakMinutes := ts.TotalBreakMinutes()
	workMinutes := max(attendance.WorkMinutes(ts.PunchIn, ts.PunchOut, breakMinutes), 0)

	created, err := s.requestRepo.Create(ctx, editrequest.EditRequest{
		EmployeeID:        req.EmployeeID,
		Date:              date,
		PunchIn:           ts.PunchIn,
		PunchOut:          ts.PunchOut,
		BreakIntervals:    ts.BreakIntervals,
		TotalWorkMinutes:  workMinutes,
		TotalBreakMinutes: breakMinutes,
		Status:            editrequest.StatusPending,
	})
	if err != nil {
		return editrequest.EditRequestResponse{}, err
	}

	slog.Info("Attendance edit request submitted",
		"edit_request_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", req.Date)
	return editrequest.ToResponse(created, s.zone), nil
}

// List implements editrequest.EditRequestService. Without a status filter it
// returns the pending review queue.
func (s *EditRequestServiceImpl) List(ctx context.Context, filter editrequest.EditRequestFilter) (editrequest.ListEditRequestResponse, error) {
	if filter.Status == nil || *filter.Status == "" {
		pending := string(editrequest.StatusPending)
		filter.Status = &pending
	}
	return s.list(ctx, filter)
}

// ListMine implements editrequest.EditRequestService. Requests in every
// status are returned unless the caller filters.
func (s *EditRequestServiceImpl) ListMine(ctx context.Context, employeeID string, filter editrequest.EditRequestFilter) (editrequest.ListEditRequestResponse, error) {
	filter.EmployeeID = &employeeID
	return s.list(ctx, filter)
}

func (s *EditRequestServiceImpl) list(ctx context.Context, filter editrequest.EditRequestFilter) (editrequest.ListEditRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return editrequest.ListEditRequestResponse{}, err
	}

	requests, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return editrequest.ListEditRequestResponse{}, fmt.Errorf("failed to list edit requests: %w", err)
	}

	responses := make([]editrequest.EditRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, editrequest.ToResponse(r, s.zone))
	}

	return editrequest.ListEditRequestResponse{
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
		EditRequests: responses,
	}, nil
}

// Get implements editrequest.EditRequestService.
func (s *EditRequestServiceImpl) Get(ctx context.Context, id string) (editrequest.EditRequestResponse, error) {
	if err := editrequest.ValidateID(id); err != nil {
		return editrequest.EditRequestResponse{}, err
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return editrequest.EditRequestResponse{}, err
	}
	return editrequest.ToResponse(req, s.zone), nil
}

// Approve implements editrequest.EditRequestService.
func (s *EditRequestServiceImpl) Approve(ctx context.Context, req editrequest.ApproveEditRequestRequest) (editrequest.ApprovalResult, error) {
	if err := req.Validate(); err != nil {
		return editrequest.ApprovalResult{}, err
	}

	var (
		result  editrequest.ApprovalResult
		partial bool
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return editrequest.ErrEditRequestAlreadyProcessed
		}

		att, err := s.attendanceRepo.GetByEmployeeAndDateForUpdate(ctx, request.EmployeeID, request.Date)
		if err != nil {
			return err
		}

		if s.calc.Replay(&att, request.Timesheet()) {
			s.metrics.WorkTimeAnomaly()
			slog.Warn("Negative work time stored as zero", "attendance_id", att.ID, "edit_request_id", request.ID)
		}
		if err := s.attendanceRepo.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to apply edit request: %w", err)
		}
		result.Attendance = attendance.ToResponse(att, s.zone)
		result.Request = editrequest.ToResponse(request, s.zone)

		reviewedAt := s.now()
		action := editrequest.AdminAction{
			ReviewedBy: &req.ReviewerID,
			ReviewedAt: &reviewedAt,
			Reason:     req.Reason,
		}
		if err := s.requestRepo.MarkReviewed(ctx, request.ID, editrequest.StatusApproved, action); err != nil {
			if !s.tx.Atomic() {
				partial = true
			}
			return fmt.Errorf("failed to mark edit request approved: %w", err)
		}

		request.Status = editrequest.StatusApproved
		request.AdminAction = action
		result.Request = editrequest.ToResponse(request, s.zone)
		return nil
	})

	if err != nil {
		if partial {
			s.metrics.Review(string(editrequest.ApprovalPartial))
			slog.Error("Edit request applied to attendance but still pending",
				"edit_request_id", req.ID,
				"reviewer_id", req.ReviewerID,
				"error", err)
			result.Outcome = editrequest.ApprovalPartial
			return result, fmt.Errorf("%w: %v", editrequest.ErrApprovalIncomplete, err)
		}
		return editrequest.ApprovalResult{}, err
	}

	result.Outcome = editrequest.ApprovalApplied
	s.metrics.Review(string(editrequest.StatusApproved))
	slog.Info("Attendance edit request approved",
		"edit_request_id", req.ID,
		"reviewer_id", req.ReviewerID,
		"status", result.Attendance.Status)
	return result, nil
}

// Reject implements editrequest.EditRequestService.
func (s *EditRequestServiceImpl) Reject(ctx context.Context, req editrequest.RejectEditRequestRequest) (editrequest.EditRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return editrequest.EditRequestResponse{}, err
	}

	var rejected editrequest.EditRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return editrequest.ErrEditRequestAlreadyProcessed
		}

		reviewedAt := s.now()
		action := editrequest.AdminAction{
			ReviewedBy: &req.ReviewerID,
			ReviewedAt: &reviewedAt,
			Reason:     &req.Reason,
		}
		if err := s.requestRepo.MarkReviewed(ctx, request.ID, editrequest.StatusRejected, action); err != nil {
			return err
		}

		request.Status = editrequest.StatusRejected
		request.AdminAction = action
		rejected = request
		return nil
	})
	if err != nil {
		if errors.Is(err, editrequest.ErrEditRequestAlreadyProcessed) {
			slog.Warn("Edit request already reviewed", "edit_request_id", req.ID)
		}
		return editrequest.EditRequestResponse{}, err
	}

	s.metrics.Review(string(editrequest.StatusRejected))
	slog.Info("Attendance edit request rejected", "edit_request_id", req.ID, "reviewer_id", req.ReviewerID)
	return editrequest.ToResponse(rejected, s.zone), nil
}
