package service

import (
	"context"
	"testing"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type tournamentFixture struct {
	users       *fakeUserRepository
	tournaments *fakeTournamentRepository
	fetcher     *fakeFetcher
	service     *TournamentService
	now         time.Time
}

func newTournamentFixture(t *testing.T, now time.Time, users ...*models.User) *tournamentFixture {
	t.Helper()
	f := &tournamentFixture{
		users:       newFakeUserRepository(users...),
		tournaments: newFakeTournamentRepository(),
		fetcher:     newFakeFetcher(),
		now:         now,
	}
	bus := events.NewBus()
	clock := func() time.Time { return f.now }
	points := NewPointsLedger(f.users, bus)
	saves := NewStreakSaveLedger(f.users, bus)
	reconciler := NewReconciler(f.tournaments, f.users, f.fetcher, points, saves, bus, clock)
	f.service = NewTournamentService(f.tournaments, f.users, f.fetcher, points, reconciler, bus, DefaultTournamentSettings(), clock)
	return f
}

func TestTournamentService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)

	t.Run("creator becomes first participant at baseline", func(t *testing.T) {
		f := newTournamentFixture(t, now, linkedUser("alice", 10, 5, 3, 2))
		f.fetcher.set("lc_alice", 12, 6, 4, 2)

		created, err := f.service.Create(ctx, CreateTournamentInput{Name: "weekly", Password: "pw", CreatorID: "alice"})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, now, created.StartTime)
		assert.Equal(t, now.Add(168*time.Hour), created.EndTime)
		assert.Equal(t, 0, created.Streak)
		assert.Nil(t, created.LastChecked)
		require.Len(t, created.Participants, 1)

		p := created.Participants[0]
		assert.Equal(t, "alice", p.ID)
		assert.Equal(t, 12, p.InitialTotalSolved)
		assert.Equal(t, 12, p.CurrentTotalSolved)
		assert.Equal(t, int64(0), p.Score)

		// Progress since the stored snapshot was awarded
		assert.Equal(t, int64(30), f.users.get("alice").Points)
	})

	t.Run("custom duration", func(t *testing.T) {
		f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0))
		f.fetcher.set("lc_alice", 1, 1, 0, 0)

		hours := 3
		created, err := f.service.Create(ctx, CreateTournamentInput{Name: "sprint", Password: "pw", CreatorID: "alice", DurationHours: &hours})
		require.NoError(t, err)
		assert.Equal(t, now.Add(3*time.Hour), created.EndTime)
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0))
		zero := 0

		_, err := f.service.Create(ctx, CreateTournamentInput{Name: " ", Password: "pw", CreatorID: "alice"})
		assert.True(t, IsValidation(err))

		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "x", Password: "", CreatorID: "alice"})
		assert.True(t, IsValidation(err))

		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "x", Password: "pw", CreatorID: "alice", DurationHours: &zero})
		assert.True(t, IsValidation(err))

		huge := 3000000
		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "x", Password: "pw", CreatorID: "alice", DurationHours: &huge})
		assert.True(t, IsValidation(err))

		overCap := MaxTournamentHours + 1
		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "x", Password: "pw", CreatorID: "alice", DurationHours: &overCap})
		assert.True(t, IsValidation(err))
	})

	t.Run("longest duration", func(t *testing.T) {
		f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0))
		f.fetcher.set("lc_alice", 1, 1, 0, 0)
		hours := MaxTournamentHours

		tournament, err := f.service.Create(ctx, CreateTournamentInput{Name: "year", Password: "pw", CreatorID: "alice", DurationHours: &hours})
		require.NoError(t, err)
		assert.True(t, tournament.EndTime.After(tournament.StartTime))
		assert.Equal(t, time.Duration(hours)*time.Hour, tournament.EndTime.Sub(tournament.StartTime))
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0))
		f.fetcher.set("lc_alice", 1, 1, 0, 0)

		_, err := f.service.Create(ctx, CreateTournamentInput{Name: "weekly", Password: "pw", CreatorID: "alice"})
		require.NoError(t, err)

		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "weekly", Password: "other", CreatorID: "alice"})
		assert.True(t, IsConflict(err))
	})

	t.Run("creator checks", func(t *testing.T) {
		unlinked := linkedUser("bob", 0, 0, 0, 0)
		unlinked.LeetCodeUsername = ""
		f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0), unlinked)

		_, err := f.service.Create(ctx, CreateTournamentInput{Name: "a", Password: "pw", CreatorID: "ghost"})
		assert.True(t, IsNotFound(err))

		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "b", Password: "pw", CreatorID: "bob"})
		assert.ErrorIs(t, err, ErrProfileNotLinked)
		assert.True(t, IsValidation(err))

		_, err = f.service.Create(ctx, CreateTournamentInput{Name: "c", Password: "pw", CreatorID: "alice"})
		assert.ErrorIs(t, err, ErrProfileUnavailable)
		assert.True(t, IsNotFound(err))

		all, err := f.tournaments.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestTournamentService_Join(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) *tournamentFixture {
		f := newTournamentFixture(t, start, linkedUser("alice", 10, 5, 3, 2), linkedUser("bob", 20, 10, 8, 2))
		f.fetcher.set("lc_alice", 10, 5, 3, 2)
		f.fetcher.set("lc_bob", 20, 10, 8, 2)
		_, err := f.service.Create(ctx, CreateTournamentInput{Name: "weekly", Password: "pw", CreatorID: "alice"})
		require.NoError(t, err)
		return f
	}

	t.Run("successful join reconciles", func(t *testing.T) {
		f := setup(t)
		f.now = start.Add(2 * time.Hour)

		joined, err := f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "pw"})
		require.NoError(t, err)

		require.Len(t, joined.Participants, 2)
		assert.True(t, joined.HasParticipant("bob"))
		assert.Equal(t, "2024-06-02", joined.LastCheckedDate())
	})

	t.Run("wrong password never mutates", func(t *testing.T) {
		f := setup(t)
		before := f.tournaments.get("tournament-1")

		_, err := f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "nope"})
		assert.True(t, IsNotFound(err))

		_, err = f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "monthly", Password: "pw"})
		assert.True(t, IsNotFound(err))

		assert.Equal(t, before, f.tournaments.get("tournament-1"))
	})

	t.Run("join window closed", func(t *testing.T) {
		f := setup(t)
		f.now = start.Add(24*time.Hour + time.Second)

		_, err := f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "pw"})
		assert.ErrorIs(t, err, ErrJoinWindowClosed)
		assert.True(t, IsValidation(err))
	})

	t.Run("join window boundary is inclusive", func(t *testing.T) {
		f := setup(t)
		f.now = start.Add(24 * time.Hour)

		_, err := f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "pw"})
		assert.NoError(t, err)
	})

	t.Run("already joined", func(t *testing.T) {
		f := setup(t)

		_, err := f.service.Join(ctx, JoinTournamentInput{UserID: "alice", Name: "weekly", Password: "pw"})
		assert.ErrorIs(t, err, ErrAlreadyJoined)
		assert.True(t, IsConflict(err))
	})

	t.Run("profile unavailable", func(t *testing.T) {
		f := setup(t)
		f.fetcher.fail("lc_bob")

		_, err := f.service.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "pw"})
		assert.ErrorIs(t, err, ErrProfileUnavailable)
		assert.Len(t, f.tournaments.get("tournament-1").Participants, 1)
	})
}

func TestTournamentService_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	f := newTournamentFixture(t, now, linkedUser("alice", 1, 1, 0, 0), linkedUser("bob", 1, 1, 0, 0))
	f.fetcher.set("lc_alice", 1, 1, 0, 0)
	f.fetcher.set("lc_bob", 1, 1, 0, 0)

	_, err := f.service.Create(ctx, CreateTournamentInput{Name: "first", Password: "pw", CreatorID: "alice"})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, CreateTournamentInput{Name: "second", Password: "pw", CreatorID: "bob"})
	require.NoError(t, err)

	all, err := f.service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Name)
	assert.Equal(t, "first", all[1].Name)

	mine, err := f.service.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "first", mine[0].Name)
	assert.Equal(t, "2024-06-02", mine[0].LastCheckedDate())
}

func TestTournamentService_Join_AddParticipantRace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	tournaments := new(MockTournamentRepository)
	users := newFakeUserRepository(linkedUser("bob", 1, 1, 0, 0))
	fetcher := newFakeFetcher()
	fetcher.set("lc_bob", 1, 1, 0, 0)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything).Maybe()

	existing := &models.Tournament{ID: "t1", Name: "weekly", Password: "pw", StartTime: now, Participants: []models.Participant{}}
	tournaments.On("GetByNameAndPassword", ctx, "weekly", "pw").Return(existing, nil)
	// A concurrent request added the same member after our membership check
	tournaments.On("AddParticipant", ctx, "t1", mock.AnythingOfType("models.Participant")).Return(ErrAlreadyJoined)

	points := NewPointsLedger(users, publisher)
	svc := NewTournamentService(tournaments, users, fetcher, points, nil, publisher, DefaultTournamentSettings(), fixedClock(now))

	_, err := svc.Join(ctx, JoinTournamentInput{UserID: "bob", Name: "weekly", Password: "pw"})
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	tournaments.AssertExpectations(t)
}
