package progression_test

import (
	"testing"

	"github.com/lessonforge/lessonforge/internal/progression"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_LevelOneNoXP(t *testing.T) {
	p := progression.Calculate(1, 0)

	assert.Equal(t, 0, p.CurrentLevelXP)
	assert.Equal(t, 100, p.NextLevelXP)
	assert.Equal(t, 0, p.XPIntoLevel)
	assert.Equal(t, 100, p.XPNeededForLevel)
	assert.Equal(t, 0, p.ProgressPercent)
}

func TestCalculate_LevelTwoHalfway(t *testing.T) {
	p := progression.Calculate(2, 250)

	assert.Equal(t, 100, p.CurrentLevelXP)
	assert.Equal(t, 400, p.NextLevelXP)
	assert.Equal(t, 150, p.XPIntoLevel)
	assert.Equal(t, 300, p.XPNeededForLevel)
	assert.Equal(t, 50, p.ProgressPercent)
}

func TestCalculate_Rounding(t *testing.T) {
	// 1/3 of the way through level 2 -> 33.33 rounds to 33
	assert.Equal(t, 33, progression.Calculate(2, 200).ProgressPercent)
	// 2/3 -> 66.67 rounds to 67
	assert.Equal(t, 67, progression.Calculate(2, 300).ProgressPercent)
}

func TestCalculate_ClampsInconsistentLevels(t *testing.T) {
	assert.Equal(t, 0, progression.Calculate(3, 50).ProgressPercent, "admin-set level above xp")
	assert.Equal(t, 100, progression.Calculate(1, 5000).ProgressPercent, "xp far beyond stored level")
	assert.Equal(t, 1, progression.Calculate(0, 10).Level, "level floors at 1")
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{1600, 5},
		{1000000, 101},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, progression.LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelForXP_InvertsThreshold(t *testing.T) {
	for level := 1; level <= 50; level++ {
		threshold := progression.ThresholdForLevel(level)
		assert.Equal(t, level, progression.LevelForXP(threshold))
		if threshold > 0 {
			assert.Equal(t, level-1, progression.LevelForXP(threshold-1))
		}
	}
}

func TestPromote_NeverDemotes(t *testing.T) {
	assert.Equal(t, 3, progression.Promote(1, 450))
	assert.Equal(t, 7, progression.Promote(7, 450))
	assert.Equal(t, 1, progression.Promote(0, 0))
}
