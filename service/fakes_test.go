package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leetstreak/models"
)

// fakeUserRepository keeps users in memory and applies the same conditional rules as the SQL
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepository(users ...*models.User) *fakeUserRepository {
	r := &fakeUserRepository{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LeetCodeProfile != nil {
		p := *u.LeetCodeProfile
		c.LeetCodeProfile = &p
	}
	c.CompletedLessons = append([]string{}, u.CompletedLessons...)
	c.RoomItems = append([]models.RoomItemState{}, u.RoomItems...)
	return &c
}

func (r *fakeUserRepository) get(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u)
	}
	return nil
}

func (r *fakeUserRepository) Create(_ context.Context, username, email, password string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := fmt.Sprintf("user-%d", len(r.users)+1)
	u := &models.User{ID: id, Username: username, Email: email, Password: password}
	u.EnsureDefaults()
	r.users[id] = u
	return cloneUser(u), nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.get(id), nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) Update(_ context.Context, id string, update models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Password != nil {
		u.Password = *update.Password
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepository) LinkProfile(_ context.Context, id, lcUsername string, snapshot models.ProfileSnapshot) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.LeetCodeUsername = lcUsername
	u.LeetCodeProfile = &snapshot
	return cloneUser(u), nil
}

func (r *fakeUserRepository) ApplyProfileSnapshot(_ context.Context, id string, observed *models.ProfileSnapshot, award int64, snapshot models.ProfileSnapshot) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	if !models.SameCounts(u.LeetCodeProfile, observed) {
		return cloneUser(u), false, nil
	}
	u.Points += award
	u.LeetCodeProfile = &snapshot
	return cloneUser(u), true, nil
}

func (r *fakeUserRepository) ConsumeStreakSave(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.StreakSaves <= 0 {
		return false, nil
	}
	u.StreakSaves--
	return true, nil
}

func (r *fakeUserRepository) PurchaseStreakSaves(_ context.Context, id string, count int, cost int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if u.Points < cost {
		return nil, ErrInsufficientBalance
	}
	u.Points -= cost
	u.StreakSaves += count
	return cloneUser(u), nil
}

func (r *fakeUserRepository) SetSkillLevel(_ context.Context, id string, level models.SkillLevel) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.SkillLevel = &level
	return cloneUser(u), nil
}

func (r *fakeUserRepository) CompleteLesson(_ context.Context, id, lessonID string, points int64, streakSaves int) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	if u.HasCompletedLesson(lessonID) {
		return cloneUser(u), false, nil
	}
	u.CompletedLessons = append(u.CompletedLessons, lessonID)
	u.Points += points
	u.StreakSaves += streakSaves
	return cloneUser(u), true, nil
}

func (r *fakeUserRepository) ModifyRoom(_ context.Context, id string, mutate RoomMutation) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	working := cloneUser(u)
	change, err := mutate(working)
	if err != nil {
		return nil, err
	}
	if working.Points < change.Cost {
		return nil, ErrInsufficientBalance
	}
	working.Points -= change.Cost
	working.RoomItems = models.MergeRoomItems(working.RoomItems)
	r.users[id] = working
	return cloneUser(working), nil
}

// fakeTournamentRepository keeps tournament documents in memory
type fakeTournamentRepository struct {
	mu          sync.Mutex
	tournaments map[string]*models.Tournament
	order       []string
	saveErr     error
	saves       int
}

func newFakeTournamentRepository(tournaments ...*models.Tournament) *fakeTournamentRepository {
	r := &fakeTournamentRepository{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		r.tournaments[t.ID] = cloneTournament(t)
		r.order = append(r.order, t.ID)
	}
	return r
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	c.Participants = append([]models.Participant{}, t.Participants...)
	if t.LastChecked != nil {
		d := *t.LastChecked
		c.LastChecked = &d
	}
	return &c
}

func (r *fakeTournamentRepository) get(id string) *models.Tournament {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tournaments[id]; ok {
		return cloneTournament(t)
	}
	return nil
}

func (r *fakeTournamentRepository) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tournaments, id)
}

func (r *fakeTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return ErrConflict
		}
	}
	t.ID = fmt.Sprintf("tournament-%d", len(r.order)+1)
	r.tournaments[t.ID] = cloneTournament(t)
	r.order = append(r.order, t.ID)
	return nil
}

func (r *fakeTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	return r.get(id), nil
}

func (r *fakeTournamentRepository) GetByName(_ context.Context, name string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tournaments {
		if t.Name == name {
			return cloneTournament(t), nil
		}
	}
	return nil, nil
}

func (r *fakeTournamentRepository) GetByNameAndPassword(_ context.Context, name, password string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tournaments {
		if t.Name == name && t.Password == password {
			return cloneTournament(t), nil
		}
	}
	return nil, nil
}

func (r *fakeTournamentRepository) List(_ context.Context, memberID string) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*models.Tournament{}
	for i := len(r.order) - 1; i >= 0; i-- {
		t, ok := r.tournaments[r.order[i]]
		if !ok || (memberID != "" && !t.HasParticipant(memberID)) {
			continue
		}
		result = append(result, cloneTournament(t))
	}
	return result, nil
}

func (r *fakeTournamentRepository) AddParticipant(_ context.Context, id string, p models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return ErrNotFound
	}
	if t.HasParticipant(p.ID) {
		return ErrAlreadyJoined
	}
	t.Participants = append(t.Participants, p)
	return nil
}

func (r *fakeTournamentRepository) ClaimStreakCheck(_ context.Context, id string, observed *time.Time, today time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return false, nil
	}
	switch {
	case t.LastChecked == nil && observed != nil,
		t.LastChecked != nil && observed == nil,
		t.LastChecked != nil && !models.DateOf(*t.LastChecked).Equal(models.DateOf(*observed)):
		return false, nil
	}
	day := models.DateOf(today)
	t.LastChecked = &day
	return true, nil
}

func (r *fakeTournamentRepository) SaveReconciliation(_ context.Context, id string, participants []models.Participant, streak *int, lastChecked *time.Time) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.saves++
	t, ok := r.tournaments[id]
	if !ok {
		return nil, nil
	}
	t.Participants = models.MergeParticipants(t.Participants, participants)
	t.SortParticipants()
	if streak != nil {
		t.Streak = *streak
	}
	if lastChecked != nil {
		d := *lastChecked
		t.LastChecked = &d
	}
	return cloneTournament(t), nil
}

// fakeFetcher returns scripted snapshots; usernames without a script are unavailable
type fakeFetcher struct {
	mu        sync.Mutex
	snapshots map[string]models.ProfileSnapshot
	calls     map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		snapshots: make(map[string]models.ProfileSnapshot),
		calls:     make(map[string]int),
	}
}

func (f *fakeFetcher) set(username string, total, easy, medium, hard int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[username] = models.ProfileSnapshot{
		TotalSolved:  total,
		EasySolved:   easy,
		MediumSolved: medium,
		HardSolved:   hard,
		LastUpdated:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeFetcher) fail(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, username)
}

func (f *fakeFetcher) FetchProfile(_ context.Context, username string) (*models.ProfileSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[username]++
	s, ok := f.snapshots[username]
	if !ok {
		return nil, false
	}
	return &s, true
}

// fixedClock returns a clock pinned to ts
func fixedClock(ts time.Time) Clock {
	return func() time.Time { return ts }
}

// linkedUser builds a user whose stored snapshot matches the given counts
func linkedUser(id string, total, easy, medium, hard int) *models.User {
	return &models.User{
		ID:               id,
		Username:         id,
		Email:            id + "@example.com",
		Password:         "pw",
		LeetCodeUsername: "lc_" + id,
		LeetCodeProfile: &models.ProfileSnapshot{
			TotalSolved:  total,
			EasySolved:   easy,
			MediumSolved: medium,
			HardSolved:   hard,
		},
		CompletedLessons: []string{},
		RoomItems:        models.DefaultRoomItems(),
	}
}
