// Package access decides whether lessons and modules are open to a user.
package access

import "github.com/lessonforge/lessonforge/internal/models"

// LessonFacts is everything the lesson rule looks at.
type LessonFacts struct {
	Completed         bool // user finished this lesson before
	Hearts            int
	Position          int // zero-based position within the module
	PreviousCompleted bool
}

// LessonLocked applies the rules in order, first match wins:
// completed lessons are always open, no hearts locks everything else,
// the first lesson of a module is open, and any later lesson needs its
// predecessor completed.
func LessonLocked(f LessonFacts) bool {
	if f.Completed {
		return false
	}
	if f.Hearts <= 0 {
		return true
	}
	if f.Position == 0 {
		return false
	}
	return !f.PreviousCompleted
}

// ModuleLocked reports whether the user's level is below the module's
// requirement.
func ModuleLocked(requiredLevel, userLevel int) bool {
	return requiredLevel > userLevel
}

// Position returns lessonID's index in ordered, or -1.
func Position(ordered []models.Lesson, lessonID int64) int {
	for i, l := range ordered {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

// Annotate computes lock state for every lesson of a module. ordered must be
// sorted by OrderIndex; completed holds the ids of lessons the user finished.
func Annotate(ordered []models.Lesson, completed map[int64]bool, hearts int) []models.LessonAccess {
	out := make([]models.LessonAccess, 0, len(ordered))
	for i, l := range ordered {
		facts := LessonFacts{
			Completed: completed[l.ID],
			Hearts:    hearts,
			Position:  i,
		}
		if i > 0 {
			facts.PreviousCompleted = completed[ordered[i-1].ID]
		}
		out = append(out, models.LessonAccess{
			Lesson:    l,
			Position:  i,
			Completed: facts.Completed,
			Locked:    LessonLocked(facts),
		})
	}
	return out
}
