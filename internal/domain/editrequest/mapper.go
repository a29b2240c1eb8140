package editrequest

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

func ToResponse(r EditRequest, z workday.Zone) EditRequestResponse {
	resp := EditRequestResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Username:          r.Username,
		EmployeeName:      r.EmployeeName,
		EmployeeCode:      r.EmployeeCode,
		Date:              r.Date.Format(workday.DateLayout),
		PunchIn:           z.Format(r.PunchIn, time.RFC3339),
		PunchOut:          z.Format(r.PunchOut, time.RFC3339),
		BreakIntervals:    attendance.BreakResponses(r.BreakIntervals, z),
		TotalWorkMinutes:  r.TotalWorkMinutes,
		TotalBreakMinutes: r.TotalBreakMinutes,
		Status:            string(r.Status),
		CreatedAt:         z.Format(r.CreatedAt, time.RFC3339),
		UpdatedAt:         z.Format(r.UpdatedAt, time.RFC3339),
	}

	if r.AdminAction.ReviewedBy != nil {
		action := &AdminActionResponse{
			ReviewedBy: r.AdminAction.ReviewedBy,
			Reason:     r.AdminAction.Reason,
		}
		if r.AdminAction.ReviewedAt != nil {
			at := z.Format(*r.AdminAction.ReviewedAt, time.RFC3339)
			action.ReviewedAt = &at
		}
		resp.AdminAction = action
	}

	return resp
}
