package api

import (
	"context"

	"leetstreak/models"
	"leetstreak/service"

	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func userResult(args mock.Arguments) (*models.User, error) {
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return userResult(m.Called(ctx, username, email, password))
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	return userResult(m.Called(ctx, email, password))
}

func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *mockUserService) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	return userResult(m.Called(ctx, id, update))
}

func (m *mockUserService) LinkProfile(ctx context.Context, id, lcUsername string) (*service.LinkedProfile, error) {
	args := m.Called(ctx, id, lcUsername)
	if p := args.Get(0); p != nil {
		return p.(*service.LinkedProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) RefreshPoints(ctx context.Context, id string) (*models.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *mockUserService) SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error) {
	return userResult(m.Called(ctx, id, level))
}

func (m *mockUserService) PointHistory(ctx context.Context, id string, limit int) ([]*models.PointHistory, error) {
	args := m.Called(ctx, id, limit)
	if h := args.Get(0); h != nil {
		return h.([]*models.PointHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStreakSaveService struct {
	mock.Mock
}

func (m *mockStreakSaveService) Purchase(ctx context.Context, userID string, count int) (*models.User, error) {
	return userResult(m.Called(ctx, userID, count))
}

type mockProgressionService struct {
	mock.Mock
}

func (m *mockProgressionService) Lessons(ctx context.Context, userID string) (*models.LessonTrack, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.(*models.LessonTrack), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgressionService) CompleteLesson(ctx context.Context, userID, lessonID string) (*service.LessonCompletion, error) {
	args := m.Called(ctx, userID, lessonID)
	if c := args.Get(0); c != nil {
		return c.(*service.LessonCompletion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgressionService) PurchaseRoomItem(ctx context.Context, userID, itemID string) (*models.User, error) {
	return userResult(m.Called(ctx, userID, itemID))
}

func (m *mockProgressionService) SaveRoomLayout(ctx context.Context, userID string, layout []models.RoomItemState) (*models.User, error) {
	return userResult(m.Called(ctx, userID, layout))
}

type mockTournamentService struct {
	mock.Mock
}

func tournamentResult(args mock.Arguments) (*models.Tournament, error) {
	if t := args.Get(0); t != nil {
		return t.(*models.Tournament), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTournamentService) Create(ctx context.Context, in service.CreateTournamentInput) (*models.Tournament, error) {
	return tournamentResult(m.Called(ctx, in))
}

func (m *mockTournamentService) Join(ctx context.Context, in service.JoinTournamentInput) (*models.Tournament, error) {
	return tournamentResult(m.Called(ctx, in))
}

func (m *mockTournamentService) List(ctx context.Context, memberID string) ([]*models.Tournament, error) {
	args := m.Called(ctx, memberID)
	if ts := args.Get(0); ts != nil {
		return ts.([]*models.Tournament), args.Error(1)
	}
	return nil, args.Error(1)
}
