package service

import (
	"context"
	"fmt"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// Reconciler refreshes tournament standings and evaluates the daily group streak
type Reconciler struct {
	tournaments TournamentRepository
	users       UserRepository
	fetcher     ProfileFetcher
	points      *PointsLedger
	saves       *StreakSaveLedger
	bus         *events.Bus
	clock       Clock
}

// NewReconciler creates a new reconciler. bus may be nil.
func NewReconciler(
	tournaments TournamentRepository,
	users UserRepository,
	fetcher ProfileFetcher,
	points *PointsLedger,
	saves *StreakSaveLedger,
	bus *events.Bus,
	clock Clock,
) *Reconciler {
	if clock == nil {
		clock = SystemClock
	}
	return &Reconciler{
		tournaments: tournaments,
		users:       users,
		fetcher:     fetcher,
		points:      points,
		saves:       saves,
		bus:         bus,
		clock:       clock,
	}
}

// Reconcile brings a tournament up to date: every participant is refreshed from LeetCode, scores
// are recomputed and, at most once per UTC day, the group streak is evaluated. A failing
// participant never aborts the pass. The outcome is stored in one row update.
func (r *Reconciler) Reconcile(ctx context.Context, t *models.Tournament) (*models.Tournament, error) {
	day := today(r.clock)
	dayStr := day.Format(models.DateLayout)

	shouldCheckStreak := !sameDate(t.LastChecked, day)
	if shouldCheckStreak {
		claimed, err := r.tournaments.ClaimStreakCheck(ctx, t.ID, t.LastChecked, day)
		if err != nil {
			return nil, fmt.Errorf("failed to claim streak check: %w", err)
		}
		if !claimed {
			log.WithFields(log.Fields{
				"tournamentID": t.ID,
				"date":         dayStr,
			}).Debug("Streak check already claimed, refreshing scores only")
		}
		shouldCheckStreak = claimed
	}

	pending := events.NewTransactionalBus(r.bus)

	participants := make([]models.Participant, len(t.Participants))
	copy(participants, t.Participants)

	allSurvived := true
	savesUsed := 0
	for i := range participants {
		p := &participants[i]
		progressed := r.refreshParticipant(ctx, p)
		p.Score = CalculateScore(*p)

		if !shouldCheckStreak || progressed {
			continue
		}

		consumed, err := r.saves.Consume(ctx, p.ID)
		if err != nil {
			log.WithFields(log.Fields{
				"tournamentID": t.ID,
				"userID":       p.ID,
				"error":        err,
			}).Warn("Failed to consume streak save")
		}
		if consumed {
			p.StreakSaveUsedOn = dayStr
			savesUsed++
			pending.Publish(events.StreakSaveConsumedEvent{
				UserID:       p.ID,
				TournamentID: t.ID,
				Date:         dayStr,
			})
			continue
		}
		allSurvived = false
	}

	result := *t
	result.Participants = participants
	result.SortParticipants()

	var newStreak *int
	var lastChecked *time.Time
	if shouldCheckStreak {
		streak := 0
		if len(participants) > 0 && allSurvived {
			streak = t.Streak + 1
		}
		newStreak = &streak
		lastChecked = &day

		result.Streak = streak
		result.LastChecked = &day

		pending.Publish(events.StreakEvaluatedEvent{
			TournamentID:   t.ID,
			TournamentName: t.Name,
			Date:           dayStr,
			OldStreak:      t.Streak,
			NewStreak:      streak,
			SavesUsed:      savesUsed,
		})

		log.WithFields(log.Fields{
			"tournamentID": t.ID,
			"date":         dayStr,
			"oldStreak":    t.Streak,
			"newStreak":    streak,
			"savesUsed":    savesUsed,
		}).Info("Evaluated tournament streak")
	}

	saved, err := r.tournaments.SaveReconciliation(ctx, t.ID, result.Participants, newStreak, lastChecked)
	if err != nil {
		pending.Discard()
		return nil, fmt.Errorf("failed to save tournament %s: %w", t.ID, err)
	}
	pending.Flush()

	if saved == nil {
		log.WithField("tournamentID", t.ID).Warn("Tournament disappeared during reconciliation, returning computed state")
		saved = &result
	}

	saved.EnsureDefaults()
	return saved, nil
}

// refreshParticipant updates p from the member's live profile and reports whether the total
// solved count strictly increased. Missing, unlinked or unreachable members keep their stats.
func (r *Reconciler) refreshParticipant(ctx context.Context, p *models.Participant) bool {
	logger := log.WithField("userID", p.ID)
	previousTotal := p.CurrentTotalSolved

	user, err := r.users.GetByID(ctx, p.ID)
	if err != nil {
		logger.WithError(err).Warn("Failed to load participant")
		return false
	}
	if user == nil {
		logger.Warn("Participant no longer exists")
		return false
	}
	if !user.HasLinkedProfile() {
		logger.Debug("Participant has no linked profile")
		return false
	}

	snapshot, ok := r.fetcher.FetchProfile(ctx, user.LeetCodeUsername)
	if !ok {
		logger.WithField("lcUsername", user.LeetCodeUsername).Warn("Profile unavailable, keeping previous stats")
		return false
	}

	if _, err := r.points.Award(ctx, user, *snapshot); err != nil {
		logger.WithError(err).Warn("Failed to award points")
	}

	p.ApplySnapshot(*snapshot)
	p.LeetCodeUsername = user.LeetCodeUsername

	return snapshot.TotalSolved > previousTotal
}
