package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
	testEmployeeID       = "0199a1b2-0000-7000-8000-000000000001"
	testRequestID        = "0199a1b2-0000-7000-8000-0000000000e1"
	testOtherRequestID   = "0199a1b2-0000-7000-8000-0000000000e2"
	testUnknownRequestID = "0199a1b2-0000-7000-8000-0000000000e9"
)

type stubAttendanceService struct {
	attendance.AttendanceService

	punchInErr   error
	gotEmployee  string
	gotFilter    attendance.AttendanceFilter
	gotMyFilter  attendance.MyAttendanceFilter
	gotCorrect   attendance.CorrectAttendanceRequest
	sweepInvoked bool
	sweepErr     error
}

func (s *stubAttendanceService) PunchIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	s.gotEmployee = employeeID
	if s.punchInErr != nil {
		return attendance.AttendanceResponse{}, s.punchInErr
	}
	return attendance.AttendanceResponse{ID: "att-1", EmployeeID: employeeID, Status: string(attendance.StatusPresent)}, nil
}

func (s *stubAttendanceService) StartBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	s.gotEmployee = employeeID
	return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyOngoing
}

func (s *stubAttendanceService) GetToday(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	s.gotEmployee = employeeID
	return attendance.TodayResponse{Date: "2025-03-10", PunchOut: attendance.StillWorking, Status: string(attendance.StatusPresent)}, nil
}

func (s *stubAttendanceService) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	s.gotEmployee = employeeID
	s.gotMyFilter = filter
	return attendance.ListAttendanceResponse{Showing: "0 of 0", Attendances: []attendance.AttendanceResponse{}}, nil
}

func (s *stubAttendanceService) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	s.gotFilter = filter
	return attendance.ListAttendanceResponse{Showing: "0 of 0", Attendances: []attendance.AttendanceResponse{}}, nil
}

func (s *stubAttendanceService) CorrectAttendance(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	s.gotCorrect = req
	return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Status: string(attendance.StatusFullday)}, nil
}

func (s *stubAttendanceService) RunManualSweep(ctx context.Context) (attendance.SweepResult, error) {
	s.sweepInvoked = true
	if s.sweepErr != nil {
		return attendance.SweepResult{}, s.sweepErr
	}
	return attendance.SweepResult{Date: "2025-03-10", Inserted: 3}, nil
}

type stubEditRequestService struct {
	editrequest.EditRequestService

	gotSubmit  editrequest.SubmitEditRequestRequest
	gotApprove editrequest.ApproveEditRequestRequest
	gotReject  editrequest.RejectEditRequestRequest
	gotGetID      string
	gotFilter     editrequest.EditRequestFilter
	approveErr    error
	approveResult editrequest.ApprovalResult
}

func (s *stubEditRequestService) Submit(ctx context.Context, req editrequest.SubmitEditRequestRequest) (editrequest.EditRequestResponse, error) {
	s.gotSubmit = req
	return editrequest.EditRequestResponse{ID: testRequestID, EmployeeID: req.EmployeeID, Status: string(editrequest.StatusPending)}, nil
}

func (s *stubEditRequestService) ListMine(ctx context.Context, employeeID string, filter editrequest.EditRequestFilter) (editrequest.ListEditRequestResponse, error) {
	s.gotFilter = filter
	return editrequest.ListEditRequestResponse{EditRequests: []editrequest.EditRequestResponse{{EmployeeID: employeeID}}}, nil
}

func (s *stubEditRequestService) List(ctx context.Context, filter editrequest.EditRequestFilter) (editrequest.ListEditRequestResponse, error) {
	s.gotFilter = filter
	return editrequest.ListEditRequestResponse{EditRequests: []editrequest.EditRequestResponse{}}, nil
}

func (s *stubEditRequestService) Get(ctx context.Context, id string) (editrequest.EditRequestResponse, error) {
	s.gotGetID = id
	return editrequest.EditRequestResponse{}, editrequest.ErrEditRequestNotFound
}

func (s *stubEditRequestService) Approve(ctx context.Context, req editrequest.ApproveEditRequestRequest) (editrequest.ApprovalResult, error) {
	s.gotApprove = req
	if s.approveErr != nil {
		return s.approveResult, s.approveErr
	}
	return editrequest.ApprovalResult{Outcome: editrequest.ApprovalApplied}, nil
}

func (s *stubEditRequestService) Reject(ctx context.Context, req editrequest.RejectEditRequestRequest) (editrequest.EditRequestResponse, error) {
	s.gotReject = req
	return editrequest.EditRequestResponse{ID: req.ID, Status: string(editrequest.StatusRejected)}, nil
}

type stubReportService struct {
	got report.MonthlyAbsenceReportRequest
}

func (s *stubReportService) MonthlyAbsences(ctx context.Context, req report.MonthlyAbsenceReportRequest) (report.MonthlyAbsenceReport, error) {
	s.got = req
	return report.MonthlyAbsenceReport{PeriodMonth: req.Month, PeriodYear: req.Year, Employees: []report.EmployeeAbsence{}}, nil
}

type routerFixture struct {
	router      http.Handler
	jwt         jwt.Service
	attendance  *stubAttendanceService
	editRequest *stubEditRequestService
	report      *stubReportService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"http://localhost:3000"}}}
	f := &routerFixture{
		jwt:         jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp),
		attendance:  &stubAttendanceService{},
		editRequest: &stubEditRequestService{},
		report:      &stubReportService{},
	}
	f.router = NewRouter(
		cfg,
		NewLogger(cfg.App),
		f.jwt,
		NewAttendanceHandler(f.attendance),
		NewEditRequestHandler(f.editRequest),
		NewReportHandler(f.report),
		metrics.New(),
	)
	return f
}

func (f *routerFixture) token(t *testing.T, role user.Role, employeeID *string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("user-"+string(role), employeeID, role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func employeeIDPtr() *string {
	id := testEmployeeID
	return &id
}

func TestRouter_Authentication(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("missing token", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", handlerTestAccessExp)
		token, _, err := other.GenerateAccessToken("user-1", employeeIDPtr(), user.RoleEmployee)
		require.NoError(t, err)

		rec, _ := f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("caller without employee profile", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", f.token(t, user.RoleAdmin, nil), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("employee on admin route", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/", f.token(t, user.RoleEmployee, employeeIDPtr()), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("heartbeat is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_AttendanceTransitions(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee, employeeIDPtr())

	t.Run("punch in uses the caller's employee id", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, testEmployeeID, f.attendance.gotEmployee)
	})

	t.Run("duplicate punch in conflicts", func(t *testing.T) {
		f.attendance.punchInErr = attendance.ErrAlreadyPunchedIn
		defer func() { f.attendance.punchInErr = nil }()

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ALREADY_PUNCHED_IN", resp.Error.Code)
	})

	t.Run("break already ongoing", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/start-break", token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BREAK_ALREADY_ONGOING", resp.Error.Code)
	})

	t.Run("today", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, attendance.StillWorking, data["punch_out"])
	})

	t.Run("my attendance reads filters", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/my?status=absent&page=2&limit=5&sort_by=date", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, f.attendance.gotMyFilter.Status)
		assert.Equal(t, "absent", *f.attendance.gotMyFilter.Status)
		assert.Equal(t, 2, f.attendance.gotMyFilter.Page)
		assert.Equal(t, 5, f.attendance.gotMyFilter.Limit)
		assert.Equal(t, "date", f.attendance.gotMyFilter.SortBy)
	})
}

func TestRouter_AdminAttendance(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleAdmin, nil)

	t.Run("list ignores invalid pagination", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/?employee_name=ana&page=-1&limit=abc", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, f.attendance.gotFilter.EmployeeName)
		assert.Equal(t, "ana", *f.attendance.gotFilter.EmployeeName)
		assert.Zero(t, f.attendance.gotFilter.Page)
		assert.Zero(t, f.attendance.gotFilter.Limit)
	})

	t.Run("list rejects a malformed employee id", func(t *testing.T) {
		f.attendance.gotFilter = attendance.AttendanceFilter{}
		rec, resp := f.do(t, http.MethodGet, "/api/v1/attendance/?employee_id=bad", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "employee_id")
		assert.Nil(t, f.attendance.gotFilter.EmployeeID)
	})

	t.Run("list passes a valid employee id", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/?employee_id="+testEmployeeID, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, f.attendance.gotFilter.EmployeeID)
		assert.Equal(t, testEmployeeID, *f.attendance.gotFilter.EmployeeID)
	})

	t.Run("correction stamps the reviewer", func(t *testing.T) {
		body := map[string]any{
			"employee_id": testEmployeeID,
			"date":        "2025-03-10",
			"punch_in":    "2025-03-10T09:00:00+05:30",
			"punch_out":   "2025-03-10T17:30:00+05:30",
		}
		rec, _ := f.do(t, http.MethodPut, "/api/v1/attendance/correction", token, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-admin", f.attendance.gotCorrect.ReviewerID)
		assert.Equal(t, testEmployeeID, f.attendance.gotCorrect.EmployeeID)
	})

	t.Run("malformed correction body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/attendance/correction", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("manual sweep", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/admin/absence-sweep", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, f.attendance.sweepInvoked)
	})

	t.Run("manual sweep before sweep time", func(t *testing.T) {
		f.attendance.sweepErr = attendance.ErrSweepTooEarly
		defer func() { f.attendance.sweepErr = nil }()

		rec, resp := f.do(t, http.MethodPost, "/api/v1/admin/absence-sweep", token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SWEEP_TOO_EARLY", resp.Error.Code)
	})
}

func TestRouter_EditRequests(t *testing.T) {
	f := newRouterFixture(t)
	employeeToken := f.token(t, user.RoleEmployee, employeeIDPtr())
	adminToken := f.token(t, user.RoleAdmin, nil)

	t.Run("submit binds the caller", func(t *testing.T) {
		body := map[string]any{
			"employee_id": "someone-else",
			"date":        "2025-03-10",
			"punch_in":    "2025-03-10T09:00:00+05:30",
			"punch_out":   "2025-03-10T17:30:00+05:30",
		}
		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/", employeeToken, body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, testEmployeeID, f.editRequest.gotSubmit.EmployeeID)
	})

	t.Run("my requests route is not shadowed by id", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/edit-requests/my", employeeToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, f.editRequest.gotGetID)
	})

	t.Run("employee cannot review", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/"+testRequestID+"/approve", employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("get unknown request", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/attendance/edit-requests/"+testUnknownRequestID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
		assert.Equal(t, testUnknownRequestID, f.editRequest.gotGetID)
	})

	t.Run("malformed request id", func(t *testing.T) {
		f.editRequest.gotGetID = ""
		f.editRequest.gotApprove = editrequest.ApproveEditRequestRequest{}
		f.editRequest.gotReject = editrequest.RejectEditRequestRequest{}

		calls := []struct {
			method string
			path   string
			body   any
		}{
			{http.MethodGet, "/api/v1/attendance/edit-requests/not-a-uuid", nil},
			{http.MethodPost, "/api/v1/attendance/edit-requests/not-a-uuid/approve", nil},
			{http.MethodPost, "/api/v1/attendance/edit-requests/not-a-uuid/reject", map[string]string{"reason": "late"}},
		}
		for _, c := range calls {
			rec, resp := f.do(t, c.method, c.path, adminToken, c.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, c.path)
			require.NotNil(t, resp.Error, c.path)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code, c.path)
			assert.Contains(t, resp.Error.Details, "id", c.path)
		}
		assert.Empty(t, f.editRequest.gotGetID)
		assert.Empty(t, f.editRequest.gotApprove.ID)
		assert.Empty(t, f.editRequest.gotReject.ID)
	})

	t.Run("malformed employee id filter", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/attendance/edit-requests/?employee_id=bad", adminToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "employee_id")
	})

	t.Run("admin list reads filters", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/attendance/edit-requests/?status=approved&employee_id="+testEmployeeID, adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, f.editRequest.gotFilter.Status)
		assert.Equal(t, "approved", *f.editRequest.gotFilter.Status)
		require.NotNil(t, f.editRequest.gotFilter.EmployeeID)
		assert.Equal(t, testEmployeeID, *f.editRequest.gotFilter.EmployeeID)
	})

	t.Run("approve with empty body", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/"+testRequestID+"/approve", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testRequestID, f.editRequest.gotApprove.ID)
		assert.Equal(t, "user-admin", f.editRequest.gotApprove.ReviewerID)
		assert.Nil(t, f.editRequest.gotApprove.Reason)
	})

	t.Run("approve already processed", func(t *testing.T) {
		f.editRequest.approveErr = editrequest.ErrEditRequestAlreadyProcessed
		defer func() { f.editRequest.approveErr = nil }()

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/"+testRequestID+"/approve", adminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("approve incomplete returns the partial result", func(t *testing.T) {
		f.editRequest.approveErr = errors.Join(editrequest.ErrApprovalIncomplete, errors.New("connection reset"))
		f.editRequest.approveResult = editrequest.ApprovalResult{
			Outcome:    editrequest.ApprovalPartial,
			Attendance: attendance.AttendanceResponse{ID: "att-1", Status: string(attendance.StatusFullday)},
			Request:    editrequest.EditRequestResponse{ID: testRequestID, Status: string(editrequest.StatusPending)},
		}
		defer func() {
			f.editRequest.approveErr = nil
			f.editRequest.approveResult = editrequest.ApprovalResult{}
		}()

		rec, resp := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/"+testRequestID+"/approve", adminToken, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "APPROVAL_INCOMPLETE", resp.Error.Code)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "partial", data["outcome"])
		request, ok := data["request"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "pending", request["status"])
		record, ok := data["attendance"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Fullday", record["status"])
	})

	t.Run("reject carries reason", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/attendance/edit-requests/"+testOtherRequestID+"/reject", adminToken, map[string]string{"reason": "no evidence"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testOtherRequestID, f.editRequest.gotReject.ID)
		assert.Equal(t, "no evidence", f.editRequest.gotReject.Reason)
	})
}

func TestRouter_Reports(t *testing.T) {
	f := newRouterFixture(t)
	adminToken := f.token(t, user.RoleAdmin, nil)

	t.Run("all employees", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/reports/absences/2025/3", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2025, f.report.got.Year)
		assert.Equal(t, 3, f.report.got.Month)
		assert.Nil(t, f.report.got.EmployeeCode)
	})

	t.Run("single employee", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/reports/absences/2025/3/EMP-001", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, f.report.got.EmployeeCode)
		assert.Equal(t, "EMP-001", *f.report.got.EmployeeCode)
	})

	t.Run("non numeric month", func(t *testing.T) {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/reports/absences/2025/march", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/reports/absences/2025/3", f.token(t, user.RoleEmployee, employeeIDPtr()), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodPost, "/api/v1/attendance/punch-in", f.token(t, user.RoleEmployee, employeeIDPtr()), nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}
