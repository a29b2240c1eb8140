package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Status string

const (
	// StatusPresent is provisional: punched in, not yet punched out.
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfday Status = "Halfday"
	StatusFullday Status = "Fullday"
)

var ValidStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusHalfday),
	string(StatusFullday),
}

// Attendance is one employee's record for one organization calendar day.
type Attendance struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	PunchIn           *time.Time
	PunchOut          *time.Time
	BreakIntervals    BreakIntervals
	TotalBreakMinutes int
	TotalWorkMinutes  int
	Status            Status
	// WorkTimeAnomaly marks a computed negative work time that was stored as 0.
	WorkTimeAnomaly bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

func (a Attendance) IsPunchedIn() bool {
	return a.PunchIn != nil
}

func (a Attendance) IsPunchedOut() bool {
	return a.PunchOut != nil
}

// BreakInterval is one break. End and DurationMinutes are nil while the break is ongoing.
type BreakInterval struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
}

func (b BreakInterval) IsOpen() bool {
	return b.End == nil
}

// BreakIntervals is stored as a JSONB array.
type BreakIntervals []BreakInterval

// Value implements driver.Valuer for database storage
func (bi BreakIntervals) Value() (driver.Value, error) {
	if bi == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]BreakInterval(bi))
}

// Scan implements sql.Scanner for database retrieval
func (bi *BreakIntervals) Scan(value interface{}) error {
	if value == nil {
		*bi = BreakIntervals{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan BreakIntervals: invalid type")
	}

	var intervals []BreakInterval
	if err := json.Unmarshal(raw, &intervals); err != nil {
		return err
	}
	*bi = intervals
	return nil
}

// Current returns the index of the open break.
func (bi BreakIntervals) Current() (int, error) {
	for i := len(bi) - 1; i >= 0; i-- {
		if bi[i].IsOpen() {
			return i, nil
		}
	}
	return -1, ErrNoOngoingBreak
}

func (bi BreakIntervals) HasOpen() bool {
	_, err := bi.Current()
	return err == nil
}
