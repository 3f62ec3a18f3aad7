package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"leetstreak/models"
	"leetstreak/repository/testutil"
	"leetstreak/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, "3f1c2f7e-55a4-4b61-9d43-2f6c2d8b9a10")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("successful creation", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", "Alice@Example.com", "pw")
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.Equal(t, int64(0), created.Points)
		assert.Equal(t, 0, created.StreakSaves)
		assert.Equal(t, models.DefaultRoomItems(), created.RoomItems)
		assert.Empty(t, created.CompletedLessons)
		assert.Nil(t, created.LeetCodeProfile)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, created.Username, byID.Username)

		byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		_, err := repo.Create(ctx, "bob", "bob@example.com", "pw")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "bob", "other@example.com", "pw")
		assert.ErrorIs(t, err, service.ErrConflict)

		_, err = repo.Create(ctx, "bobby", "BOB@example.com", "pw")
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "carol", "carol@example.com", "pw")
	require.NoError(t, err)

	newName := "caroline"
	updated, err := repo.Update(ctx, user.ID, models.UserUpdate{Username: &newName})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "caroline", updated.Username)
	assert.Equal(t, "carol@example.com", updated.Email)
	assert.Equal(t, "pw", updated.Password)

	missing, err := repo.Update(ctx, "3f1c2f7e-55a4-4b61-9d43-2f6c2d8b9a10", models.UserUpdate{Username: &newName})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_ApplyProfileSnapshot(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	history := NewPointHistoryRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "dave", "dave@example.com", "pw")
	require.NoError(t, err)

	linked, err := repo.LinkProfile(ctx, user.ID, "dave_lc", *testutil.CreateTestSnapshot(10, 5, 3, 2))
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, "dave_lc", linked.LeetCodeUsername)
	assert.Equal(t, int64(0), linked.Points)

	t.Run("positive award records history", func(t *testing.T) {
		updated, applied, err := repo.ApplyProfileSnapshot(ctx, user.ID, testutil.CreateTestSnapshot(10, 5, 3, 2), 50, *testutil.CreateTestSnapshot(14, 6, 5, 3))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, applied)
		assert.Equal(t, int64(50), updated.Points)
		assert.Equal(t, 14, updated.LeetCodeProfile.TotalSolved)

		entries, err := history.GetByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(0), entries[0].BalanceBefore)
		assert.Equal(t, int64(50), entries[0].BalanceAfter)
		assert.Equal(t, models.TransactionTypeProblemsSolved, entries[0].TransactionType)
	})

	t.Run("zero award only moves the baseline", func(t *testing.T) {
		updated, applied, err := repo.ApplyProfileSnapshot(ctx, user.ID, testutil.CreateTestSnapshot(14, 6, 5, 3), 0, *testutil.CreateTestSnapshot(15, 6, 5, 3))
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, int64(50), updated.Points)
		assert.Equal(t, 15, updated.LeetCodeProfile.TotalSolved)

		entries, err := history.GetByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("stale baseline is not applied", func(t *testing.T) {
		current, applied, err := repo.ApplyProfileSnapshot(ctx, user.ID, testutil.CreateTestSnapshot(10, 5, 3, 2), 50, *testutil.CreateTestSnapshot(14, 6, 5, 3))
		require.NoError(t, err)
		assert.False(t, applied)
		require.NotNil(t, current)
		assert.Equal(t, int64(50), current.Points)
		assert.Equal(t, 15, current.LeetCodeProfile.TotalSolved)

		entries, err := history.GetByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("absent user", func(t *testing.T) {
		updated, applied, err := repo.ApplyProfileSnapshot(ctx, "3f1c2f7e-55a4-4b61-9d43-2f6c2d8b9a10", nil, 10, *testutil.CreateTestSnapshot(1, 1, 0, 0))
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Nil(t, updated)
	})
}

func TestUserRepository_PurchaseStreakSaves(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "erin", "erin@example.com", "pw")
	require.NoError(t, err)
	_, err = repo.LinkProfile(ctx, user.ID, "erin_lc", *testutil.CreateTestSnapshot(0, 0, 0, 0))
	require.NoError(t, err)
	_, _, err = repo.ApplyProfileSnapshot(ctx, user.ID, testutil.CreateTestSnapshot(0, 0, 0, 0), 300, *testutil.CreateTestSnapshot(10, 0, 0, 10))
	require.NoError(t, err)

	updated, err := repo.PurchaseStreakSaves(ctx, user.ID, 2, 260)
	require.NoError(t, err)
	assert.Equal(t, int64(40), updated.Points)
	assert.Equal(t, 2, updated.StreakSaves)

	_, err = repo.PurchaseStreakSaves(ctx, user.ID, 1, 120)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	current, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), current.Points)
	assert.Equal(t, 2, current.StreakSaves)

	_, err = repo.PurchaseStreakSaves(ctx, "3f1c2f7e-55a4-4b61-9d43-2f6c2d8b9a10", 1, 120)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserRepository_ConsumeStreakSave_Concurrent(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "frank", "frank@example.com", "pw")
	require.NoError(t, err)
	_, _, err = repo.ApplyProfileSnapshot(ctx, user.ID, nil, 120, *testutil.CreateTestSnapshot(4, 0, 0, 4))
	require.NoError(t, err)
	_, err = repo.PurchaseStreakSaves(ctx, user.ID, 1, 120)
	require.NoError(t, err)

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.ConsumeStreakSave(ctx, user.ID)
			assert.NoError(t, err)
			if ok {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())

	current, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.StreakSaves)
}

func TestUserRepository_CompleteLesson(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "grace", "grace@example.com", "pw")
	require.NoError(t, err)

	updated, applied, err := repo.CompleteLesson(ctx, user.ID, "dfs", 110, 1)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(110), updated.Points)
	assert.Equal(t, 1, updated.StreakSaves)
	assert.Equal(t, []string{"dfs"}, updated.CompletedLessons)

	again, applied, err := repo.CompleteLesson(ctx, user.ID, "dfs", 110, 1)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, int64(110), again.Points)
	assert.Equal(t, 1, again.StreakSaves)

	missing, applied, err := repo.CompleteLesson(ctx, "3f1c2f7e-55a4-4b61-9d43-2f6c2d8b9a10", "dfs", 110, 1)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, missing)
}

func TestUserRepository_ModifyRoom(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "heidi", "heidi@example.com", "pw")
	require.NoError(t, err)
	_, _, err = repo.ApplyProfileSnapshot(ctx, user.ID, nil, 100, *testutil.CreateTestSnapshot(5, 0, 0, 5))
	require.NoError(t, err)

	buyDuck := func(u *models.User) (service.RoomChange, error) {
		for i := range u.RoomItems {
			if u.RoomItems[i].ID == "rubberduck" {
				u.RoomItems[i].Owned = true
				u.RoomItems[i].Placed = true
			}
		}
		return service.RoomChange{Cost: 90, ItemID: "rubberduck"}, nil
	}

	updated, err := repo.ModifyRoom(ctx, user.ID, buyDuck)
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.Points)
	for _, item := range updated.RoomItems {
		if item.ID == "rubberduck" {
			assert.True(t, item.Owned)
		}
	}

	_, err = repo.ModifyRoom(ctx, user.ID, buyDuck)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	current, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), current.Points)
}
