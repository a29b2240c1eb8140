package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{validator.ValidationErrors{{Field: "date", Message: "date is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{attendance.ErrInvalidInterval, http.StatusUnprocessableEntity, "INVALID_INTERVAL"},
		{attendance.ErrAlreadyPunchedIn, http.StatusConflict, "ALREADY_PUNCHED_IN"},
		{attendance.ErrAlreadyPunchedOut, http.StatusConflict, "ALREADY_PUNCHED_OUT"},
		{attendance.ErrBreakAlreadyOngoing, http.StatusConflict, "BREAK_ALREADY_ONGOING"},
		{attendance.ErrNoOngoingBreak, http.StatusConflict, "NO_ONGOING_BREAK"},
		{attendance.ErrNoActiveAttendance, http.StatusConflict, "NO_ACTIVE_ATTENDANCE"},
		{attendance.ErrSweepTooEarly, http.StatusConflict, "SWEEP_TOO_EARLY"},
		{attendance.ErrAttendanceNotFound, http.StatusNotFound, "RECORD_NOT_FOUND"},
		{editrequest.ErrEditRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{editrequest.ErrEditRequestAlreadyProcessed, http.StatusConflict, "INVALID_STATE"},
		{fmt.Errorf("%w: timeout", editrequest.ErrApprovalIncomplete), http.StatusInternalServerError, "APPROVAL_INCOMPLETE"},
		{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("failed to save attendance: %w", errors.New("conn reset")), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("punch out: %w", attendance.ErrAlreadyPunchedOut))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApprovalIncomplete_CarriesResult(t *testing.T) {
	rec := httptest.NewRecorder()
	result := editrequest.ApprovalResult{Outcome: editrequest.ApprovalPartial}
	ApprovalIncomplete(rec, fmt.Errorf("%w: timeout", editrequest.ErrApprovalIncomplete), result)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "APPROVAL_INCOMPLETE", body.Error.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "partial", data["outcome"])

	// Without a result the envelope has no data.
	rec = httptest.NewRecorder()
	HandleError(rec, editrequest.ErrApprovalIncomplete)
	body = Response{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Nil(t, body.Data)
}
