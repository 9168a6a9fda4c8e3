package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePremium, RoleAdmin:
		return true
	}
	return false
}

// User is the learner record. Hearts stay within [0, MaxHearts].
type User struct {
	ID                uuid.UUID  `json:"id"`
	DisplayName       string     `json:"display_name"`
	XP                int        `json:"xp"`
	Level             int        `json:"level"`
	Hearts            int        `json:"hearts"`
	MaxHearts         int        `json:"max_hearts"`
	StreakCount       int        `json:"streak_count"`
	StreakLastUpdated *time.Time `json:"streak_last_updated"`
	Role              Role       `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
}

// UserStatus is the slice of User the status refresher reads and writes.
type UserStatus struct {
	Hearts            int        `json:"hearts"`
	MaxHearts         int        `json:"max_hearts"`
	StreakCount       int        `json:"streak_count"`
	StreakLastUpdated *time.Time `json:"streak_last_updated"`
}

func (u User) Status() UserStatus {
	return UserStatus{
		Hearts:            u.Hearts,
		MaxHearts:         u.MaxHearts,
		StreakCount:       u.StreakCount,
		StreakLastUpdated: u.StreakLastUpdated,
	}
}

// StatusUpdate carries only the fields that changed; nil means untouched.
type StatusUpdate struct {
	Hearts            *int
	StreakCount       *int
	StreakLastUpdated *time.Time
}

// Empty reports whether the update has nothing to write.
func (u StatusUpdate) Empty() bool {
	return u.Hearts == nil && u.StreakCount == nil && u.StreakLastUpdated == nil
}

// Apply returns s with the update's fields applied.
func (u StatusUpdate) Apply(s UserStatus) UserStatus {
	if u.Hearts != nil {
		s.Hearts = *u.Hearts
	}
	if u.StreakCount != nil {
		s.StreakCount = *u.StreakCount
	}
	if u.StreakLastUpdated != nil {
		t := *u.StreakLastUpdated
		s.StreakLastUpdated = &t
	}
	return s
}

// XPResult is the user's XP and level after an atomic XP award.
type XPResult struct {
	XP            int  `json:"xp"`
	Level         int  `json:"level"`
	PreviousLevel int  `json:"previous_level"`
	LeveledUp     bool `json:"leveled_up"`
}
