package access_test

import (
	"testing"

	"github.com/lessonforge/lessonforge/internal/access"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonLocked(t *testing.T) {
	tests := []struct {
		name   string
		facts  access.LessonFacts
		locked bool
	}{
		{
			name:   "first lesson with hearts",
			facts:  access.LessonFacts{Hearts: 1, Position: 0},
			locked: false,
		},
		{
			name:   "first lesson without hearts",
			facts:  access.LessonFacts{Hearts: 0, Position: 0},
			locked: true,
		},
		{
			name:   "completed lesson without hearts stays open",
			facts:  access.LessonFacts{Completed: true, Hearts: 0, Position: 3},
			locked: false,
		},
		{
			name:   "later lesson with predecessor done",
			facts:  access.LessonFacts{Hearts: 5, Position: 2, PreviousCompleted: true},
			locked: false,
		},
		{
			name:   "later lesson with predecessor pending",
			facts:  access.LessonFacts{Hearts: 5, Position: 2},
			locked: true,
		},
		{
			name:   "predecessor done but no hearts",
			facts:  access.LessonFacts{Hearts: 0, Position: 1, PreviousCompleted: true},
			locked: true,
		},
		{
			name:   "negative hearts treated as none",
			facts:  access.LessonFacts{Hearts: -1, Position: 0},
			locked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.locked, access.LessonLocked(tt.facts))
		})
	}
}

func TestModuleLocked(t *testing.T) {
	assert.True(t, access.ModuleLocked(3, 2))
	assert.False(t, access.ModuleLocked(3, 3))
	assert.False(t, access.ModuleLocked(1, 7))
}

func lessons(ids ...int64) []models.Lesson {
	out := make([]models.Lesson, len(ids))
	for i, id := range ids {
		out[i] = models.Lesson{ID: id, ModuleID: 1, OrderIndex: i}
	}
	return out
}

func TestAnnotate_SequentialUnlock(t *testing.T) {
	got := access.Annotate(lessons(10, 11, 12, 13), map[int64]bool{10: true, 11: true}, 3)

	require.Len(t, got, 4)
	assert.False(t, got[0].Locked)
	assert.True(t, got[0].Completed)
	assert.False(t, got[1].Locked)
	assert.False(t, got[2].Locked, "predecessor 11 is complete")
	assert.True(t, got[3].Locked, "predecessor 12 is not complete")
	assert.Equal(t, 3, got[3].Position)
}

func TestAnnotate_NoHeartsOnlyCompletedOpen(t *testing.T) {
	got := access.Annotate(lessons(10, 11, 12), map[int64]bool{10: true}, 0)

	assert.False(t, got[0].Locked)
	assert.True(t, got[1].Locked)
	assert.True(t, got[2].Locked)
}

func TestPosition(t *testing.T) {
	ls := lessons(4, 8, 15)

	assert.Equal(t, 0, access.Position(ls, 4))
	assert.Equal(t, 2, access.Position(ls, 15))
	assert.Equal(t, -1, access.Position(ls, 16))
}
