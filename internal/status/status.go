// Package status recomputes hearts and streaks from elapsed time.
package status

import (
	"time"

	"github.com/lessonforge/lessonforge/internal/models"
)

// DefaultRegenWindow is how long a user must be away before hearts refill.
const DefaultRegenWindow = 24 * time.Hour

// Rules holds the clock-independent parameters of a refresh.
type Rules struct {
	RegenWindow time.Duration
	Location    *time.Location
}

func (r Rules) window() time.Duration {
	if r.RegenWindow <= 0 {
		return DefaultRegenWindow
	}
	return r.RegenWindow
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// Evaluate returns the fields of s that change at now. An empty update means
// nothing is written.
//
// Hearts refill completely, not one at a time, once the last activity is a
// full regen window old. The streak works on calendar days in r.Location:
// last activity yesterday extends it, anything older restarts it at 1, today
// leaves it alone. Any change also stamps StreakLastUpdated with now.
func Evaluate(s models.UserStatus, now time.Time, r Rules) models.StatusUpdate {
	var upd models.StatusUpdate

	if s.StreakLastUpdated == nil {
		one := 1
		upd.StreakCount = &one
	} else {
		last := *s.StreakLastUpdated

		if s.Hearts < s.MaxHearts && now.Sub(last) >= r.window() {
			full := s.MaxHearts
			upd.Hearts = &full
		}

		loc := r.location()
		lastDay := Day(last, loc)
		today := Day(now, loc)
		yesterday := today.AddDate(0, 0, -1)

		switch {
		case lastDay.Equal(yesterday):
			next := s.StreakCount + 1
			upd.StreakCount = &next
		case lastDay.Before(yesterday):
			one := 1
			upd.StreakCount = &one
		default:
			// Same day, or a clock-skewed future stamp: already credited.
		}
	}

	if !upd.Empty() {
		stamp := now
		upd.StreakLastUpdated = &stamp
	}
	return upd
}

// Day truncates t to local midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateKey formats t's calendar day in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
