package models

import "time"

// Difficulty is a LeetCode problem difficulty bucket
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ProfileSnapshot is a point-in-time copy of a user's solved-problem counts
type ProfileSnapshot struct {
	TotalSolved  int       `json:"totalSolved"`
	EasySolved   int       `json:"easySolved"`
	MediumSolved int       `json:"mediumSolved"`
	HardSolved   int       `json:"hardSolved"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// SameCounts reports whether a and b hold the same solved counts. A nil snapshot only matches nil.
func SameCounts(a, b *ProfileSnapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.TotalSolved == b.TotalSolved &&
		a.EasySolved == b.EasySolved &&
		a.MediumSolved == b.MediumSolved &&
		a.HardSolved == b.HardSolved
}

// Solved returns the count for a difficulty bucket
func (s ProfileSnapshot) Solved(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return s.EasySolved
	case DifficultyMedium:
		return s.MediumSolved
	case DifficultyHard:
		return s.HardSolved
	}
	return 0
}
