package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-03-01 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestBreakDuration(t *testing.T) {
	d, err := BreakDuration(at("13:00"), at("13:30"))
	require.NoError(t, err)
	assert.Equal(t, 30, d)

	// Floors partial minutes.
	d, err = BreakDuration(at("13:00"), at("13:00").Add(59*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	d, err = BreakDuration(at("13:00"), at("13:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	_, err = BreakDuration(at("13:30"), at("13:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestTotalBreakMinutes_IgnoresOpenIntervals(t *testing.T) {
	intervals := []BreakInterval{
		{Start: at("11:00"), End: ptr(at("11:15")), DurationMinutes: ptr(15)},
		{Start: at("13:00"), End: ptr(at("13:30"))},
		{Start: at("16:00")},
	}
	assert.Equal(t, 45, TotalBreakMinutes(intervals))
	assert.Equal(t, 0, TotalBreakMinutes(nil))
}

func TestWorkMinutes(t *testing.T) {
	assert.Equal(t, 510, WorkMinutes(at("09:00"), at("18:00"), 30))
	assert.Equal(t, 150, WorkMinutes(at("09:00"), at("11:30"), 0))
	assert.Equal(t, -20, WorkMinutes(at("09:00"), at("09:10"), 30))
}

func TestCalculator_DeriveStatus(t *testing.T) {
	c := NewCalculator(240)

	assert.Equal(t, StatusAbsent, c.DeriveStatus(0, false))
	assert.Equal(t, StatusHalfday, c.DeriveStatus(239, true))
	assert.Equal(t, StatusFullday, c.DeriveStatus(240, true))
	assert.Equal(t, StatusFullday, c.DeriveStatus(510, true))
	assert.Equal(t, StatusHalfday, c.DeriveStatus(0, true))
}

func TestNewCalculator_DefaultsThreshold(t *testing.T) {
	assert.Equal(t, DefaultHalfdayThresholdMinutes, NewCalculator(0).HalfdayThresholdMinutes)
	assert.Equal(t, 300, NewCalculator(300).HalfdayThresholdMinutes)
}

func TestCalculator_Close(t *testing.T) {
	c := NewCalculator(240)

	t.Run("full day with lunch break", func(t *testing.T) {
		a := Attendance{
			PunchIn:  ptr(at("09:00")),
			PunchOut: ptr(at("18:00")),
			BreakIntervals: BreakIntervals{
				{Start: at("13:00"), End: ptr(at("13:30")), DurationMinutes: ptr(30)},
			},
		}
		anomaly := c.Close(&a)
		assert.False(t, anomaly)
		assert.Equal(t, 30, a.TotalBreakMinutes)
		assert.Equal(t, 510, a.TotalWorkMinutes)
		assert.Equal(t, StatusFullday, a.Status)
	})

	t.Run("short day is half day", func(t *testing.T) {
		a := Attendance{PunchIn: ptr(at("09:00")), PunchOut: ptr(at("11:30"))}
		c.Close(&a)
		assert.Equal(t, 150, a.TotalWorkMinutes)
		assert.Equal(t, StatusHalfday, a.Status)
	})

	t.Run("exactly threshold is full day", func(t *testing.T) {
		a := Attendance{PunchIn: ptr(at("09:00")), PunchOut: ptr(at("13:00"))}
		c.Close(&a)
		assert.Equal(t, 240, a.TotalWorkMinutes)
		assert.Equal(t, StatusFullday, a.Status)
	})

	t.Run("negative work is floored and flagged", func(t *testing.T) {
		a := Attendance{
			PunchIn:  ptr(at("09:00")),
			PunchOut: ptr(at("09:10")),
			BreakIntervals: BreakIntervals{
				{Start: at("08:00"), End: ptr(at("08:30")), DurationMinutes: ptr(30)},
			},
		}
		anomaly := c.Close(&a)
		assert.True(t, anomaly)
		assert.True(t, a.WorkTimeAnomaly)
		assert.Equal(t, 0, a.TotalWorkMinutes)
		assert.Equal(t, StatusHalfday, a.Status)
	})

	t.Run("open record stays present", func(t *testing.T) {
		a := Attendance{PunchIn: ptr(at("09:00"))}
		c.Close(&a)
		assert.Equal(t, StatusPresent, a.Status)
		assert.Equal(t, 0, a.TotalWorkMinutes)
	})

	t.Run("no punch in is absent", func(t *testing.T) {
		a := Attendance{}
		c.Close(&a)
		assert.Equal(t, StatusAbsent, a.Status)
	})
}

func TestBreakIntervals_Current(t *testing.T) {
	closed := BreakIntervals{{Start: at("10:00"), End: ptr(at("10:10"))}}
	_, err := closed.Current()
	assert.ErrorIs(t, err, ErrNoOngoingBreak)
	assert.False(t, closed.HasOpen())

	open := append(closed, BreakInterval{Start: at("12:00")})
	idx, err := open.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.True(t, open.HasOpen())
}

func TestBreakIntervals_ValueScan(t *testing.T) {
	in := BreakIntervals{
		{Start: at("13:00").UTC(), End: ptr(at("13:30").UTC()), DurationMinutes: ptr(30)},
		{Start: at("15:00").UTC()},
	}
	v, err := in.Value()
	require.NoError(t, err)

	var out BreakIntervals
	require.NoError(t, out.Scan(v))
	require.Len(t, out, 2)
	assert.True(t, in[0].Start.Equal(out[0].Start))
	assert.Equal(t, 30, *out[0].DurationMinutes)
	assert.True(t, out[1].IsOpen())

	var empty BreakIntervals
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}
