package services

import "time"

// ProgressionConfig holds the tunables shared by the status, quiz and
// progress services.
type ProgressionConfig struct {
	DefaultMaxHearts int
	HeartRegenWindow time.Duration
	Location         *time.Location
	DailyXPGoal      int
	DailyLessonsGoal int
	RedirectDelay    time.Duration
}

func (c ProgressionConfig) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
