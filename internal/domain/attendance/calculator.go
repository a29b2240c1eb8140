package attendance

import (
	"math"
	"time"
)

// DefaultHalfdayThresholdMinutes is the work time below which a closed day is a Halfday.
const DefaultHalfdayThresholdMinutes = 240

// BreakDuration returns the floored whole minutes between start and end.
func BreakDuration(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidInterval
	}
	return int(math.Floor(end.Sub(start).Minutes())), nil
}

// TotalBreakMinutes sums the durations of completed intervals. Open intervals contribute 0.
func TotalBreakMinutes(intervals []BreakInterval) int {
	total := 0
	for _, b := range intervals {
		if b.IsOpen() {
			continue
		}
		if b.DurationMinutes != nil {
			total += *b.DurationMinutes
			continue
		}
		if d, err := BreakDuration(b.Start, *b.End); err == nil {
			total += d
		}
	}
	return total
}

// WorkMinutes is floor(out - in) in minutes minus breakMinutes. The result may be negative.
func WorkMinutes(punchIn, punchOut time.Time, breakMinutes int) int {
	return int(math.Floor(punchOut.Sub(punchIn).Minutes())) - breakMinutes
}

// Calculator derives day status from worked minutes.
type Calculator struct {
	HalfdayThresholdMinutes int
}

func NewCalculator(halfdayThresholdMinutes int) Calculator {
	if halfdayThresholdMinutes <= 0 {
		halfdayThresholdMinutes = DefaultHalfdayThresholdMinutes
	}
	return Calculator{HalfdayThresholdMinutes: halfdayThresholdMinutes}
}

func (c Calculator) DeriveStatus(workMinutes int, hasPunchIn bool) Status {
	if !hasPunchIn {
		return StatusAbsent
	}
	if workMinutes < c.HalfdayThresholdMinutes {
		return StatusHalfday
	}
	return StatusFullday
}

// Close computes totals and status for a punched-out record. A negative work
// time is stored as 0 and reported through the returned flag.
func (c Calculator) Close(a *Attendance) (anomaly bool) {
	a.TotalBreakMinutes = TotalBreakMinutes(a.BreakIntervals)
	a.TotalWorkMinutes = 0
	a.WorkTimeAnomaly = false
	switch {
	case a.PunchIn == nil:
		a.Status = StatusAbsent
		return false
	case a.PunchOut == nil:
		a.Status = StatusPresent
		return false
	}

	work := WorkMinutes(*a.PunchIn, *a.PunchOut, a.TotalBreakMinutes)
	anomaly = work < 0
	if anomaly {
		work = 0
	}
	a.TotalWorkMinutes = work
	a.WorkTimeAnomaly = anomaly
	a.Status = c.DeriveStatus(work, true)
	return anomaly
}

// Replay overwrites the record's punches and breaks with ts and recomputes
// totals and status.
func (c Calculator) Replay(a *Attendance, ts Timesheet) (anomaly bool) {
	punchIn, punchOut := ts.PunchIn, ts.PunchOut
	a.PunchIn = &punchIn
	a.PunchOut = &punchOut
	a.BreakIntervals = append(BreakIntervals{}, ts.BreakIntervals...)
	return c.Close(a)
}
