package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

func formatTime(t *time.Time, z workday.Zone) *string {
	if t == nil {
		return nil
	}
	s := z.Format(*t, time.RFC3339)
	return &s
}

// BreakResponses renders intervals as wall-clock times in the zone.
func BreakResponses(intervals BreakIntervals, z workday.Zone) []BreakIntervalResponse {
	result := make([]BreakIntervalResponse, 0, len(intervals))
	for _, b := range intervals {
		result = append(result, BreakIntervalResponse{
			Start:           z.Format(b.Start, time.RFC3339),
			End:             formatTime(b.End, z),
			DurationMinutes: b.DurationMinutes,
		})
	}
	return result
}

// ToResponse converts an Attendance entity to AttendanceResponse
func ToResponse(a Attendance, z workday.Zone) AttendanceResponse {
	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		EmployeeCode:      a.EmployeeCode,
		Date:              a.Date.Format(workday.DateLayout),
		PunchIn:           formatTime(a.PunchIn, z),
		PunchOut:          formatTime(a.PunchOut, z),
		BreakIntervals:    BreakResponses(a.BreakIntervals, z),
		TotalBreakMinutes: a.TotalBreakMinutes,
		TotalWorkMinutes:  a.TotalWorkMinutes,
		Status:            string(a.Status),
		WorkTimeAnomaly:   a.WorkTimeAnomaly,
		CreatedAt:         z.Format(a.CreatedAt, time.RFC3339),
		UpdatedAt:         z.Format(a.UpdatedAt, time.RFC3339),
	}
}

// Today builds the live summary at now. Time spent in an ongoing break is
// not counted as work.
func Today(a Attendance, now time.Time, z workday.Zone) TodayResponse {
	resp := TodayResponse{
		Date:              a.Date.Format(workday.DateLayout),
		PunchIn:           formatTime(a.PunchIn, z),
		OnBreak:           a.BreakIntervals.HasOpen(),
		BreakIntervals:    BreakResponses(a.BreakIntervals, z),
		TotalBreakMinutes: a.TotalBreakMinutes,
		TotalWorkMinutes:  a.TotalWorkMinutes,
		Status:            string(a.Status),
	}

	switch {
	case a.PunchIn == nil:
		return resp
	case a.PunchOut != nil:
		resp.PunchOut = z.Format(*a.PunchOut, time.RFC3339)
		return resp
	}

	resp.PunchOut = StillWorking
	breakMinutes := a.TotalBreakMinutes
	if idx, err := a.BreakIntervals.Current(); err == nil {
		if ongoing, err := BreakDuration(a.BreakIntervals[idx].Start, now); err == nil {
			breakMinutes += ongoing
		}
	}
	work := WorkMinutes(*a.PunchIn, now, breakMinutes)
	if work < 0 {
		work = 0
	}
	resp.TotalWorkMinutes = work
	return resp
}
