package models

import (
	"sort"
	"time"
)

// DateLayout is the wire and storage format of date-only values
const DateLayout = "2006-01-02"

// Participant is one member of a tournament. It is stored embedded in the tournament row.
type Participant struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	LeetCodeUsername    string `json:"lcUsername,omitempty"`
	InitialTotalSolved  int    `json:"initialTotalSolved"`
	CurrentTotalSolved  int    `json:"currentTotalSolved"`
	InitialEasySolved   int    `json:"initialEasySolved"`
	CurrentEasySolved   int    `json:"currentEasySolved"`
	InitialMediumSolved int    `json:"initialMediumSolved"`
	CurrentMediumSolved int    `json:"currentMediumSolved"`
	InitialHardSolved   int    `json:"initialHardSolved"`
	CurrentHardSolved   int    `json:"currentHardSolved"`
	Score               int64  `json:"score"`
	StreakSaveUsedOn    string `json:"streakSaveUsedOn,omitempty"`
}

// NewParticipant creates a participant whose baseline equals the given snapshot
func NewParticipant(user *User, snapshot ProfileSnapshot) Participant {
	return Participant{
		ID:                  user.ID,
		Username:            user.Username,
		LeetCodeUsername:    user.LeetCodeUsername,
		InitialTotalSolved:  snapshot.TotalSolved,
		CurrentTotalSolved:  snapshot.TotalSolved,
		InitialEasySolved:   snapshot.EasySolved,
		CurrentEasySolved:   snapshot.EasySolved,
		InitialMediumSolved: snapshot.MediumSolved,
		CurrentMediumSolved: snapshot.MediumSolved,
		InitialHardSolved:   snapshot.HardSolved,
		CurrentHardSolved:   snapshot.HardSolved,
	}
}

// ApplySnapshot copies fresh counts into the current fields
func (p *Participant) ApplySnapshot(snapshot ProfileSnapshot) {
	p.CurrentTotalSolved = snapshot.TotalSolved
	p.CurrentEasySolved = snapshot.EasySolved
	p.CurrentMediumSolved = snapshot.MediumSolved
	p.CurrentHardSolved = snapshot.HardSolved
}

// Initial returns the join-time baseline as a snapshot
func (p Participant) Initial() ProfileSnapshot {
	return ProfileSnapshot{
		TotalSolved:  p.InitialTotalSolved,
		EasySolved:   p.InitialEasySolved,
		MediumSolved: p.InitialMediumSolved,
		HardSolved:   p.InitialHardSolved,
	}
}

// Current returns the latest known counts as a snapshot
func (p Participant) Current() ProfileSnapshot {
	return ProfileSnapshot{
		TotalSolved:  p.CurrentTotalSolved,
		EasySolved:   p.CurrentEasySolved,
		MediumSolved: p.CurrentMediumSolved,
		HardSolved:   p.CurrentHardSolved,
	}
}

// Tournament is a time-boxed competition between linked users
type Tournament struct {
	ID           string        `db:"id"`
	Name         string        `db:"name"`
	Password     string        `db:"password"`
	CreatorID    string        `db:"creator_id"`
	StartTime    time.Time     `db:"start_time"`
	EndTime      time.Time     `db:"end_time"`
	Streak       int           `db:"streak"`
	LastChecked  *time.Time    `db:"last_checked"`
	Participants []Participant `db:"participants"`
	CreatedAt    time.Time     `db:"created_at"`
}

// HasParticipant reports whether userID is already a member
func (t *Tournament) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// LastCheckedDate returns the last streak check as YYYY-MM-DD, or "" when never checked
func (t *Tournament) LastCheckedDate() string {
	if t.LastChecked == nil {
		return ""
	}
	return t.LastChecked.UTC().Format(DateLayout)
}

// SortParticipants orders participants by score, highest first, keeping prior order on ties
func (t *Tournament) SortParticipants() {
	sort.SliceStable(t.Participants, func(i, j int) bool {
		return t.Participants[i].Score > t.Participants[j].Score
	})
}

// EnsureDefaults normalises times to UTC and backfills fields older rows may be missing
func (t *Tournament) EnsureDefaults() {
	if t.Participants == nil {
		t.Participants = []Participant{}
	}
	if t.Streak < 0 {
		t.Streak = 0
	}
	t.StartTime = t.StartTime.UTC()
	t.EndTime = t.EndTime.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	if t.LastChecked != nil {
		d := DateOf(*t.LastChecked)
		t.LastChecked = &d
	}
	for i := range t.Participants {
		if t.Participants[i].Score < 0 {
			t.Participants[i].Score = 0
		}
	}
}

// MergeParticipants overlays computed participants onto the stored list. Members stored after
// computed was taken are kept, and a newer streak-save date on the stored side survives.
func MergeParticipants(stored, computed []Participant) []Participant {
	storedByID := make(map[string]Participant, len(stored))
	for _, p := range stored {
		storedByID[p.ID] = p
	}

	merged := make([]Participant, 0, len(stored))
	seen := make(map[string]bool, len(computed))
	for _, p := range computed {
		s, ok := storedByID[p.ID]
		if !ok {
			continue
		}
		if s.StreakSaveUsedOn > p.StreakSaveUsedOn {
			p.StreakSaveUsedOn = s.StreakSaveUsedOn
		}
		merged = append(merged, p)
		seen[p.ID] = true
	}
	for _, p := range stored {
		if !seen[p.ID] {
			merged = append(merged, p)
		}
	}
	return merged
}

// DateOf truncates a timestamp to its UTC calendar date
func DateOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
