// Package workday maps instants onto calendar days of the organization's
// fixed UTC offset.
package workday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Zone is the organization's single working timezone.
type Zone struct {
	loc *time.Location
}

// ParseOffset parses offsets like "+05:30", "-03:00" or "Z".
func ParseOffset(offset string) (Zone, error) {
	offset = strings.TrimSpace(offset)
	if offset == "" || offset == "Z" {
		return Zone{loc: time.UTC}, nil
	}

	sign := 1
	switch offset[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return Zone{}, fmt.Errorf("invalid utc offset %q: must start with + or -", offset)
	}

	parts := strings.Split(offset[1:], ":")
	if len(parts) != 2 {
		return Zone{}, fmt.Errorf("invalid utc offset %q: expected ±HH:MM", offset)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours > 14 {
		return Zone{}, fmt.Errorf("invalid utc offset %q: bad hours", offset)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes >= 60 {
		return Zone{}, fmt.Errorf("invalid utc offset %q: bad minutes", offset)
	}

	seconds := sign * (hours*3600 + minutes*60)
	return Zone{loc: time.FixedZone("UTC"+offset, seconds)}, nil
}

// MustParseOffset is ParseOffset for constants and tests.
func MustParseOffset(offset string) Zone {
	z, err := ParseOffset(offset)
	if err != nil {
		panic(err)
	}
	return z
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// DateOf returns the calendar day containing t, as midnight UTC of that
// day's date. This is the value stored in DATE columns.
func (z Zone) DateOf(t time.Time) time.Time {
	local := t.In(z.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DayStart returns the instant at which the given date begins in the zone.
func (z Zone) DayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, z.Location())
}

// At returns the instant clock has elapsed into the given date.
func (z Zone) At(date time.Time, clock time.Duration) time.Time {
	return z.DayStart(date).Add(clock)
}

// ParseClock parses "HH:MM" into the time elapsed since midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Format renders t as wall-clock time in the zone.
func (z Zone) Format(t time.Time, layout string) string {
	return t.In(z.Location()).Format(layout)
}

// ParseDate parses YYYY-MM-DD into the date representation used by DateOf.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// MonthRange returns the first and last date of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
