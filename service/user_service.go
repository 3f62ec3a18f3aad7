package service

import (
	"context"
	"fmt"
	"strings"

	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// DefaultHistoryLimit is the number of point history entries returned when none is requested
const DefaultHistoryLimit = 50

// LinkedProfile is the result of linking a LeetCode account
type LinkedProfile struct {
	LeetCodeUsername string
	Profile          models.ProfileSnapshot
}

// UserService handles accounts and LeetCode profile linking
type UserService struct {
	users   UserRepository
	history PointHistoryRepository
	fetcher ProfileFetcher
	points  *PointsLedger
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, history PointHistoryRepository, fetcher ProfileFetcher, points *PointsLedger) *UserService {
	return &UserService{
		users:   users,
		history: history,
		fetcher: fetcher,
		points:  points,
	}
}

// Register creates an account. Username and email must be unused.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, validationError("username, email and password are required")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q is taken: %w", username, ErrConflict)
	}

	existing, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email is already registered: %w", ErrConflict)
	}

	user, err := s.users.Create(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"username": user.Username,
	}).Info("Registered user")

	return user, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// Login returns the user whose email and password match
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	// TODO: compare against a password hash once stored credentials are migrated
	if user == nil || user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Update changes the given account fields. An empty update returns the current user.
func (s *UserService) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return s.Get(ctx, id)
	}

	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if trimmed == "" {
			return nil, validationError("username cannot be blank")
		}
		update.Username = &trimmed
	}
	if update.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*update.Email))
		if normalized == "" {
			return nil, validationError("email cannot be blank")
		}
		update.Email = &normalized
	}
	if update.Password != nil && *update.Password == "" {
		return nil, validationError("password cannot be blank")
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// LinkProfile attaches a LeetCode account to the user. Switching to a different account
// replaces the baseline without awarding points; re-linking the same account awards progress.
func (s *UserService) LinkProfile(ctx context.Context, id, lcUsername string) (*LinkedProfile, error) {
	lcUsername = strings.TrimSpace(lcUsername)
	if lcUsername == "" {
		return nil, validationError("leetcode username is required")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, ok := s.fetcher.FetchProfile(ctx, lcUsername)
	if !ok {
		return nil, ErrProfileUnavailable
	}

	if strings.EqualFold(user.LeetCodeUsername, lcUsername) && user.LeetCodeProfile != nil {
		if _, err := s.points.Award(ctx, user, *snapshot); err != nil {
			return nil, err
		}
	} else {
		linked, err := s.users.LinkProfile(ctx, id, lcUsername, *snapshot)
		if err != nil {
			return nil, err
		}
		if linked == nil {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}

		log.WithFields(log.Fields{
			"userID":     id,
			"lcUsername": lcUsername,
		}).Info("Linked leetcode profile")
	}

	return &LinkedProfile{
		LeetCodeUsername: lcUsername,
		Profile:          *snapshot,
	}, nil
}

// RefreshPoints awards progress made since the stored snapshot. Users without a linked
// account are returned unchanged.
func (s *UserService) RefreshPoints(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.HasLinkedProfile() {
		return user, nil
	}

	snapshot, ok := s.fetcher.FetchProfile(ctx, user.LeetCodeUsername)
	if !ok {
		return nil, ErrProfileUnavailable
	}

	if _, err := s.points.Award(ctx, user, *snapshot); err != nil {
		return nil, err
	}
	return user, nil
}

// SetSkillLevel selects the user's lesson track
func (s *UserService) SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error) {
	if !level.Valid() {
		return nil, validationError("unknown skill level %q", level)
	}

	user, err := s.users.SetSkillLevel(ctx, id, level)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// PointHistory returns the user's most recent balance changes, newest first
func (s *UserService) PointHistory(ctx context.Context, id string, limit int) ([]*models.PointHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.history.GetByUser(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get point history: %w", err)
	}
	return entries, nil
}
