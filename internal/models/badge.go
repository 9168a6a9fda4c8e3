package models

import (
	"time"

	"github.com/google/uuid"
)

type RequirementType string

const (
	RequirementNone             RequirementType = ""
	RequirementStreak           RequirementType = "streak"
	RequirementLessonsCompleted RequirementType = "lessons_completed"
	RequirementXP               RequirementType = "xp"
	RequirementLevel            RequirementType = "level"
)

// Badge is either tied to a lesson (via Lesson.BadgeID) or, when
// RequirementType is set, earned by reaching RequirementValue.
type Badge struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ImageKey         string          `json:"image_key,omitempty"`
	RequirementType  RequirementType `json:"requirement_type,omitempty"`
	RequirementValue int             `json:"requirement_value,omitempty"`
}

// UserBadge is keyed by (UserID, BadgeID); at most one per pair.
type UserBadge struct {
	UserID   uuid.UUID `json:"user_id"`
	BadgeID  int64     `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}
