package testutil

import (
	"fmt"
	"time"

	"leetstreak/models"
)

// CreateTestUser creates a test user with default values and a linked profile
func CreateTestUser(id, username string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:               id,
		Username:         username,
		Email:            fmt.Sprintf("%s@example.com", username),
		Password:         "secret",
		Points:           0,
		LeetCodeUsername: "lc_" + username,
		LeetCodeProfile:  CreateTestSnapshot(10, 5, 3, 2),
		CompletedLessons: []string{},
		RoomItems:        models.DefaultRoomItems(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CreateTestUserWithPoints creates a test user with a specific balance
func CreateTestUserWithPoints(id, username string, points int64) *models.User {
	user := CreateTestUser(id, username)
	user.Points = points
	return user
}

// CreateUnlinkedTestUser creates a test user without a LeetCode account
func CreateUnlinkedTestUser(id, username string) *models.User {
	user := CreateTestUser(id, username)
	user.LeetCodeUsername = ""
	user.LeetCodeProfile = nil
	return user
}

// CreateTestSnapshot creates a profile snapshot with the given counts
func CreateTestSnapshot(total, easy, medium, hard int) *models.ProfileSnapshot {
	return &models.ProfileSnapshot{
		TotalSolved:  total,
		EasySolved:   easy,
		MediumSolved: medium,
		HardSolved:   hard,
		LastUpdated:  time.Now().UTC(),
	}
}

// CreateTestParticipant creates a participant whose baseline and current counts match snapshot
func CreateTestParticipant(user *models.User, snapshot *models.ProfileSnapshot) models.Participant {
	return models.NewParticipant(user, *snapshot)
}

// CreateTestTournament creates a tournament that started at start and runs for a week
func CreateTestTournament(name string, start time.Time, participants ...models.Participant) *models.Tournament {
	if participants == nil {
		participants = []models.Participant{}
	}
	creatorID := ""
	if len(participants) > 0 {
		creatorID = participants[0].ID
	}
	return &models.Tournament{
		Name:         name,
		Password:     "pw",
		CreatorID:    creatorID,
		StartTime:    start.UTC(),
		EndTime:      start.UTC().Add(7 * 24 * time.Hour),
		Participants: participants,
	}
}
