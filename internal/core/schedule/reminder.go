package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultReminderSpec fires every Monday at 08:00.
const DefaultReminderSpec = "0 8 * * 1"

// ParseReminder parses a standard five-field cron spec.
func ParseReminder(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return sched, nil
}

// NextReminder returns the first reminder strictly after t.
func NextReminder(spec string, t time.Time) (time.Time, error) {
	sched, err := ParseReminder(spec)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(t), nil
}
