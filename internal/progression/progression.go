// Package progression maps experience points to levels.
//
// Reaching level L takes 100*(L-1)^2 total XP, so level 2 starts at 100 XP,
// level 3 at 400, level 4 at 900.
package progression

import "math"

const xpPerLevelUnit = 100

// Progress describes where a user stands inside their current level.
type Progress struct {
	Level            int `json:"level"`
	XP               int `json:"xp"`
	CurrentLevelXP   int `json:"current_level_xp"`
	NextLevelXP      int `json:"next_level_xp"`
	XPIntoLevel      int `json:"xp_into_level"`
	XPNeededForLevel int `json:"xp_needed_for_level"`
	ProgressPercent  int `json:"progress_percent"`
}

// ThresholdForLevel returns the total XP at which level starts.
func ThresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	n := level - 1
	return xpPerLevelUnit * n * n
}

// Calculate reports progress toward the next level. It does not change the
// level: a stored level that disagrees with xp (set by an admin, say) is
// taken as given, and the percentage is clamped to [0, 100].
func Calculate(level, xp int) Progress {
	if level < 1 {
		level = 1
	}
	current := ThresholdForLevel(level)
	next := ThresholdForLevel(level + 1)
	into := xp - current
	needed := next - current

	percent := int(math.Round(100 * float64(into) / float64(needed)))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return Progress{
		Level:            level,
		XP:               xp,
		CurrentLevelXP:   current,
		NextLevelXP:      next,
		XPIntoLevel:      into,
		XPNeededForLevel: needed,
		ProgressPercent:  percent,
	}
}

// LevelForXP is the highest level whose threshold xp has reached.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Sqrt(float64(xp)/xpPerLevelUnit)) + 1
	// Correct for float rounding at exact thresholds.
	for level > 1 && ThresholdForLevel(level) > xp {
		level--
	}
	for ThresholdForLevel(level+1) <= xp {
		level++
	}
	return level
}

// Promote returns the level a user should hold after reaching xp. Levels
// only move up; a higher stored level is kept.
func Promote(storedLevel, xp int) int {
	if l := LevelForXP(xp); l > storedLevel {
		return l
	}
	if storedLevel < 1 {
		return 1
	}
	return storedLevel
}
