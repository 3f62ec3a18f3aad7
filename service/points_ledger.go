package service

import (
	"context"
	"fmt"

	"leetstreak/events"
	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// PointsLedger converts solved-problem progress into points
type PointsLedger struct {
	users     UserRepository
	publisher EventPublisher
}

// NewPointsLedger creates a new points ledger
func NewPointsLedger(users UserRepository, publisher EventPublisher) *PointsLedger {
	return &PointsLedger{
		users:     users,
		publisher: publisher,
	}
}

// maxAwardAttempts bounds retries when concurrent refreshes keep moving the stored baseline
const maxAwardAttempts = 3

// Award credits the weighted gain of latest over the user's stored snapshot and makes latest
// the new baseline. A user without a stored snapshot gets nothing. user is updated in place,
// so repeating the call with the same snapshot awards 0. The award is only applied against
// the baseline it was computed from, so concurrent refreshes never credit the same progress twice.
func (l *PointsLedger) Award(ctx context.Context, user *models.User, latest models.ProfileSnapshot) (int64, error) {
	var award int64
	for attempt := 1; ; attempt++ {
		observed := user.LeetCodeProfile
		baseline := latest
		if observed != nil {
			baseline = *observed
		}
		award = WeightedGain(baseline, latest)

		updated, applied, err := l.users.ApplyProfileSnapshot(ctx, user.ID, observed, award, latest)
		if err != nil {
			return 0, fmt.Errorf("failed to award points: %w", err)
		}
		if updated == nil {
			return 0, fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
		}

		*user = *updated
		if applied {
			break
		}
		if attempt == maxAwardAttempts {
			return 0, fmt.Errorf("user %s baseline kept changing: %w", user.ID, ErrConflict)
		}
		log.WithFields(log.Fields{
			"userID":  user.ID,
			"attempt": attempt,
		}).Debug("Stored profile changed concurrently, recomputing award")
	}

	if award > 0 {
		log.WithFields(log.Fields{
			"userID":     user.ID,
			"award":      award,
			"newBalance": user.Points,
		}).Info("Awarded points for solved problems")

		l.publisher.Publish(events.PointsAwardedEvent{
			UserID:     user.ID,
			Amount:     award,
			NewBalance: user.Points,
		})
	}

	return award, nil
}
