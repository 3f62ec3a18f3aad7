package service

import (
	"context"
	"time"

	"leetstreak/events"
	"leetstreak/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user with zero points and the starter room
	Create(ctx context.Context, username, email, password string) (*models.User, error)

	// GetByID retrieves a user by id, returning nil when absent
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by email, ignoring case
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Update applies a partial update of the account fields
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)

	// LinkProfile stores a LeetCode account and snapshot without awarding points
	LinkProfile(ctx context.Context, id, lcUsername string, snapshot models.ProfileSnapshot) (*models.User, error)

	// ApplyProfileSnapshot adds award to the balance and overwrites the stored snapshot if the stored
	// counts still match observed. Otherwise it returns the current user with applied false.
	ApplyProfileSnapshot(ctx context.Context, id string, observed *models.ProfileSnapshot, award int64, snapshot models.ProfileSnapshot) (*models.User, bool, error)

	// ConsumeStreakSave decrements the save count if positive
	ConsumeStreakSave(ctx context.Context, id string) (bool, error)

	// PurchaseStreakSaves debits cost and credits count saves, failing if the balance is insufficient
	PurchaseStreakSaves(ctx context.Context, id string, count int, cost int64) (*models.User, error)

	// SetSkillLevel stores the user's lesson track
	SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error)

	// CompleteLesson marks a lesson completed and credits its rewards once
	CompleteLesson(ctx context.Context, id, lessonID string, points int64, streakSaves int) (*models.User, bool, error)

	// ModifyRoom edits the room inventory under a row lock and debits the returned cost
	ModifyRoom(ctx context.Context, id string, mutate RoomMutation) (*models.User, error)
}

// RoomChange describes a room inventory edit and what it costs
type RoomChange struct {
	Cost   int64
	ItemID string
}

// RoomMutation edits user.RoomItems in place
type RoomMutation func(user *models.User) (RoomChange, error)

// PointHistoryRepository defines the interface for point history tracking
type PointHistoryRepository interface {
	// GetByUser returns the most recent entries of a user, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.PointHistory, error)
}

// TournamentRepository defines the interface for tournament data access
type TournamentRepository interface {
	// Create stores a new tournament and assigns its id
	Create(ctx context.Context, t *models.Tournament) error

	// GetByID retrieves a tournament by id
	GetByID(ctx context.Context, id string) (*models.Tournament, error)

	// GetByName retrieves a tournament by name
	GetByName(ctx context.Context, name string) (*models.Tournament, error)

	// GetByNameAndPassword retrieves a tournament when both name and password match
	GetByNameAndPassword(ctx context.Context, name, password string) (*models.Tournament, error)

	// List returns tournaments newest first, optionally only those memberID belongs to
	List(ctx context.Context, memberID string) ([]*models.Tournament, error)

	// AddParticipant appends a participant unless already present
	AddParticipant(ctx context.Context, id string, p models.Participant) error

	// ClaimStreakCheck atomically moves last_checked from observed to today
	ClaimStreakCheck(ctx context.Context, id string, observed *time.Time, today time.Time) (bool, error)

	// SaveReconciliation writes participants, and streak/lastChecked when set, in one row update
	SaveReconciliation(ctx context.Context, id string, participants []models.Participant, streak *int, lastChecked *time.Time) (*models.Tournament, error)
}

// ProfileFetcher retrieves current solved-problem counts for a LeetCode username.
// The flag is false whenever the profile could not be retrieved.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*models.ProfileSnapshot, bool)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}
