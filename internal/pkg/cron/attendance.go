package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
)

// Locker grants a lease that at most one instance holds at a time.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	locker        Locker
	zone          workday.Zone
	lockTTL       time.Duration
	now           func() time.Time
}

// NewAttendanceJobs builds the attendance jobs. A nil locker runs the sweep
// without coordination, which is only safe with a single instance.
func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, locker Locker, zone workday.Zone, lockTTL time.Duration) *AttendanceJobs {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		locker:        locker,
		zone:          zone,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

// RegisterJobs schedules the absence sweep daily at sweepAt ("HH:MM") in the
// organization's zone.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, sweepAt string) error {
	schedule, err := DailyAt(sweepAt, j.zone.Location())
	if err != nil {
		return fmt.Errorf("absence sweep schedule: %w", err)
	}
	scheduler.Add(Job{
		Name:     "mark_absent_employees",
		Schedule: schedule,
		Fn:       j.MarkAbsentEmployees,
	})
	return nil
}

func sweepLockKey(date string) string {
	return "attendance:absence-sweep:" + date
}

// MarkAbsentEmployees runs the daily sweep for the current organization day.
// The lease is kept after a successful run so other instances skip the day.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	date := j.zone.DateOf(j.now()).Format(workday.DateLayout)
	key := sweepLockKey(date)

	if j.locker != nil {
		acquired, err := j.locker.TryLock(ctx, key, j.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !acquired {
			slog.Info("Cron: Absence sweep already handled by another instance", "date", date)
			return nil
		}
	}

	slog.Info("Cron: Starting mark absent employees job", "date", date)

	result, err := j.attendanceSvc.RunDailySweep(ctx)
	if err != nil {
		if j.locker != nil {
			if unlockErr := j.locker.Unlock(ctx, key); unlockErr != nil {
				slog.Error("Cron: Failed to release sweep lock", "key", key, "error", unlockErr)
			}
		}
		return fmt.Errorf("absence sweep: %w", err)
	}

	slog.Info("Cron: Marked absent employees", "date", result.Date, "count", result.Inserted)
	return nil
}
