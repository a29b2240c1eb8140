package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrEmployeeProfileRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance lifecycle errors
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		writeError(w, http.StatusConflict, "ALREADY_PUNCHED_IN", err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		writeError(w, http.StatusConflict, "ALREADY_PUNCHED_OUT", err.Error(), nil)
	case errors.Is(err, attendance.ErrBreakAlreadyOngoing):
		writeError(w, http.StatusConflict, "BREAK_ALREADY_ONGOING", err.Error(), nil)
	case errors.Is(err, attendance.ErrNoOngoingBreak):
		writeError(w, http.StatusConflict, "NO_ONGOING_BREAK", err.Error(), nil)
	case errors.Is(err, attendance.ErrNoActiveAttendance):
		writeError(w, http.StatusConflict, "NO_ACTIVE_ATTENDANCE", err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidInterval):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_INTERVAL", err.Error(), nil)
	case errors.Is(err, attendance.ErrSweepTooEarly):
		writeError(w, http.StatusConflict, "SWEEP_TOO_EARLY", err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", "Attendance record not found", nil)

	// Edit request errors
	case errors.Is(err, editrequest.ErrEditRequestNotFound):
		NotFound(w, "Attendance edit request not found")
	case errors.Is(err, editrequest.ErrEditRequestAlreadyProcessed):
		writeError(w, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, editrequest.ErrApprovalIncomplete):
		ApprovalIncomplete(w, err, nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// ApprovalIncomplete reports an approval whose attendance write landed while
// the request stayed pending. result is returned as data when non-nil.
func ApprovalIncomplete(w http.ResponseWriter, err error, result any) {
	slog.Error("Edit request approval incomplete", "error", err)
	ErrorWithData(w, http.StatusInternalServerError, "APPROVAL_INCOMPLETE",
		editrequest.ErrApprovalIncomplete.Error(), nil, result)
}
