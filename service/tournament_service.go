package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// CreateTournamentInput holds the fields of a tournament creation request
type CreateTournamentInput struct {
	Name          string
	Password      string
	CreatorID     string
	DurationHours *int
}

// JoinTournamentInput holds the fields of a join request
type JoinTournamentInput struct {
	UserID   string
	Name     string
	Password string
}

// MaxTournamentHours caps a requested tournament duration at one year
const MaxTournamentHours = 366 * 24

// TournamentSettings configures tournament defaults
type TournamentSettings struct {
	DefaultDuration time.Duration
	JoinWindow      time.Duration
}

// DefaultTournamentSettings returns a one-week tournament with a one-day join window
func DefaultTournamentSettings() TournamentSettings {
	return TournamentSettings{
		DefaultDuration: 7 * 24 * time.Hour,
		JoinWindow:      24 * time.Hour,
	}
}

// TournamentService handles tournament creation, membership and listing
type TournamentService struct {
	tournaments TournamentRepository
	users       UserRepository
	fetcher     ProfileFetcher
	points      *PointsLedger
	reconciler  *Reconciler
	publisher   EventPublisher
	settings    TournamentSettings
	clock       Clock
}

// NewTournamentService creates a new tournament service
func NewTournamentService(
	tournaments TournamentRepository,
	users UserRepository,
	fetcher ProfileFetcher,
	points *PointsLedger,
	reconciler *Reconciler,
	publisher EventPublisher,
	settings TournamentSettings,
	clock Clock,
) *TournamentService {
	if clock == nil {
		clock = SystemClock
	}
	return &TournamentService{
		tournaments: tournaments,
		users:       users,
		fetcher:     fetcher,
		points:      points,
		reconciler:  reconciler,
		publisher:   publisher,
		settings:    settings,
		clock:       clock,
	}
}

// Create starts a tournament with the creator as its first participant
func (s *TournamentService) Create(ctx context.Context, in CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationError("tournament name is required")
	}
	if in.Password == "" {
		return nil, validationError("tournament password is required")
	}

	duration := s.settings.DefaultDuration
	if in.DurationHours != nil {
		if *in.DurationHours < 1 {
			return nil, validationError("duration must be at least 1 hour, got %d", *in.DurationHours)
		}
		if *in.DurationHours > MaxTournamentHours {
			return nil, validationError("duration must be at most %d hours, got %d", MaxTournamentHours, *in.DurationHours)
		}
		duration = time.Duration(*in.DurationHours) * time.Hour
	}

	existing, err := s.tournaments.GetByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tournament name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("tournament name %q is taken: %w", in.Name, ErrConflict)
	}

	creator, snapshot, err := s.freshMember(ctx, in.CreatorID)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	t := &models.Tournament{
		Name:         in.Name,
		Password:     in.Password,
		CreatorID:    creator.ID,
		StartTime:    now,
		EndTime:      now.Add(duration),
		Participants: []models.Participant{models.NewParticipant(creator, *snapshot)},
	}

	if err := s.tournaments.Create(ctx, t); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tournamentID": t.ID,
		"name":         t.Name,
		"creatorID":    creator.ID,
		"endTime":      t.EndTime,
	}).Info("Created tournament")

	s.publisher.Publish(events.TournamentCreatedEvent{
		TournamentID:   t.ID,
		TournamentName: t.Name,
		CreatorID:      creator.ID,
		EndTime:        t.EndTime.Format(time.RFC3339),
	})

	t.EnsureDefaults()
	return t, nil
}

// Join adds a user to the tournament matching name and password, then reconciles it
func (s *TournamentService) Join(ctx context.Context, in JoinTournamentInput) (*models.Tournament, error) {
	t, err := s.tournaments.GetByNameAndPassword(ctx, in.Name, in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tournament not found or wrong password: %w", ErrNotFound)
	}

	if s.clock().After(joinDeadline(t.StartTime, s.settings.JoinWindow)) {
		return nil, ErrJoinWindowClosed
	}

	if t.HasParticipant(in.UserID) {
		return nil, ErrAlreadyJoined
	}

	user, snapshot, err := s.freshMember(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	participant := models.NewParticipant(user, *snapshot)
	if err := s.tournaments.AddParticipant(ctx, t.ID, participant); err != nil {
		return nil, err
	}
	t.Participants = append(t.Participants, participant)

	log.WithFields(log.Fields{
		"tournamentID": t.ID,
		"userID":       user.ID,
	}).Info("User joined tournament")

	s.publisher.Publish(events.ParticipantJoinedEvent{
		TournamentID: t.ID,
		UserID:       user.ID,
		Username:     user.Username,
	})

	return s.reconciler.Reconcile(ctx, t)
}

// List reconciles and returns all tournaments, or only those memberID belongs to, newest first
func (s *TournamentService) List(ctx context.Context, memberID string) ([]*models.Tournament, error) {
	tournaments, err := s.tournaments.List(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		reconciled, err := s.reconciler.Reconcile(ctx, t)
		if err != nil {
			return nil, err
		}
		result = append(result, reconciled)
	}

	return result, nil
}

// freshMember loads a linked user, fetches their live profile and awards progress since the stored snapshot
func (s *TournamentService) freshMember(ctx context.Context, userID string) (*models.User, *models.ProfileSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if !user.HasLinkedProfile() {
		return nil, nil, ErrProfileNotLinked
	}

	snapshot, ok := s.fetcher.FetchProfile(ctx, user.LeetCodeUsername)
	if !ok {
		return nil, nil, ErrProfileUnavailable
	}

	if _, err := s.points.Award(ctx, user, *snapshot); err != nil {
		return nil, nil, err
	}

	return user, snapshot, nil
}
