package service

import (
	"context"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	return m.userResult(m.Called(ctx, username, email, password))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	return m.userResult(m.Called(ctx, id, update))
}

func (m *MockUserRepository) LinkProfile(ctx context.Context, id, lcUsername string, snapshot models.ProfileSnapshot) (*models.User, error) {
	return m.userResult(m.Called(ctx, id, lcUsername, snapshot))
}

func (m *MockUserRepository) ApplyProfileSnapshot(ctx context.Context, id string, observed *models.ProfileSnapshot, award int64, snapshot models.ProfileSnapshot) (*models.User, bool, error) {
	args := m.Called(ctx, id, observed, award, snapshot)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) ConsumeStreakSave(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) PurchaseStreakSaves(ctx context.Context, id string, count int, cost int64) (*models.User, error) {
	return m.userResult(m.Called(ctx, id, count, cost))
}

func (m *MockUserRepository) SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error) {
	return m.userResult(m.Called(ctx, id, level))
}

func (m *MockUserRepository) CompleteLesson(ctx context.Context, id, lessonID string, points int64, streakSaves int) (*models.User, bool, error) {
	args := m.Called(ctx, id, lessonID, points, streakSaves)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) ModifyRoom(ctx context.Context, id string, mutate RoomMutation) (*models.User, error) {
	return m.userResult(m.Called(ctx, id, mutate))
}

// MockPointHistoryRepository is a mock implementation of PointHistoryRepository
type MockPointHistoryRepository struct {
	mock.Mock
}

func (m *MockPointHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.PointHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointHistory), args.Error(1)
}

// MockTournamentRepository is a mock implementation of TournamentRepository
type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) tournamentResult(args mock.Arguments) (*models.Tournament, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	return m.tournamentResult(m.Called(ctx, id))
}

func (m *MockTournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	return m.tournamentResult(m.Called(ctx, name))
}

func (m *MockTournamentRepository) GetByNameAndPassword(ctx context.Context, name, password string) (*models.Tournament, error) {
	return m.tournamentResult(m.Called(ctx, name, password))
}

func (m *MockTournamentRepository) List(ctx context.Context, memberID string) ([]*models.Tournament, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) AddParticipant(ctx context.Context, id string, p models.Participant) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockTournamentRepository) ClaimStreakCheck(ctx context.Context, id string, observed *time.Time, today time.Time) (bool, error) {
	args := m.Called(ctx, id, observed, today)
	return args.Bool(0), args.Error(1)
}

func (m *MockTournamentRepository) SaveReconciliation(ctx context.Context, id string, participants []models.Participant, streak *int, lastChecked *time.Time) (*models.Tournament, error) {
	return m.tournamentResult(m.Called(ctx, id, participants, streak, lastChecked))
}

// MockProfileFetcher is a mock implementation of ProfileFetcher
type MockProfileFetcher struct {
	mock.Mock
}

func (m *MockProfileFetcher) FetchProfile(ctx context.Context, username string) (*models.ProfileSnapshot, bool) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.ProfileSnapshot), args.Bool(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}
