package models

import (
	"time"
)

// SkillLevel selects the lesson track a user follows
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
)

// Valid reports whether the level is one of the known tracks
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced:
		return true
	}
	return false
}

// User represents an account with a point balance and an optional linked LeetCode profile
type User struct {
	ID               string           `db:"id" json:"id"`
	Username         string           `db:"username" json:"username"`
	Email            string           `db:"email" json:"email"`
	Password         string           `db:"password" json:"-"`
	Points           int64            `db:"points" json:"points"`
	StreakSaves      int              `db:"streak_saves" json:"streakSaves"`
	LeetCodeUsername string           `db:"lc_username" json:"lcUsername,omitempty"`
	LeetCodeProfile  *ProfileSnapshot `db:"leetcode_profile" json:"leetcodeProfile,omitempty"`
	SkillLevel       *SkillLevel      `db:"skill_level" json:"skillLevel,omitempty"`
	CompletedLessons []string         `db:"completed_lessons" json:"completedLessons"`
	RoomItems        []RoomItemState  `db:"room_items" json:"roomItems"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// HasLinkedProfile reports whether the user has linked an external profile
func (u *User) HasLinkedProfile() bool {
	return u.LeetCodeUsername != ""
}

// HasCompletedLesson reports whether lessonID is in the completed set
func (u *User) HasCompletedLesson(lessonID string) bool {
	for _, id := range u.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// EnsureDefaults backfills fields that older rows may be missing
func (u *User) EnsureDefaults() {
	if u.Points < 0 {
		u.Points = 0
	}
	if u.StreakSaves < 0 {
		u.StreakSaves = 0
	}
	if u.CompletedLessons == nil {
		u.CompletedLessons = []string{}
	}
	u.RoomItems = MergeRoomItems(u.RoomItems)
	if u.LeetCodeProfile != nil {
		u.LeetCodeProfile.LastUpdated = u.LeetCodeProfile.LastUpdated.UTC()
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
}

// UserUpdate holds the optional fields of a partial user update
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// IsEmpty reports whether no field is set
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil
}
