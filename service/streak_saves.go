package service

import (
	"context"
	"fmt"

	"leetstreak/events"
	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// streakSavePrices maps a purchasable bundle size to its point cost
var streakSavePrices = map[int]int64{
	1: 120,
	2: 260,
	3: 480,
}

// StreakSavePrice returns the cost of a bundle of count saves
func StreakSavePrice(count int) (int64, bool) {
	price, ok := streakSavePrices[count]
	return price, ok
}

// StreakSaveLedger sells and consumes streak saves
type StreakSaveLedger struct {
	users     UserRepository
	publisher EventPublisher
}

// NewStreakSaveLedger creates a new streak save ledger
func NewStreakSaveLedger(users UserRepository, publisher EventPublisher) *StreakSaveLedger {
	return &StreakSaveLedger{
		users:     users,
		publisher: publisher,
	}
}

// Consume uses one save of the user if any is left. Never drives the count below zero.
func (l *StreakSaveLedger) Consume(ctx context.Context, userID string) (bool, error) {
	consumed, err := l.users.ConsumeStreakSave(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume streak save: %w", err)
	}
	return consumed, nil
}

// Purchase buys a bundle of count saves. The debit and credit happen in one conditional update.
func (l *StreakSaveLedger) Purchase(ctx context.Context, userID string, count int) (*models.User, error) {
	cost, ok := StreakSavePrice(count)
	if !ok {
		return nil, validationError("streak saves are sold in bundles of 1, 2 or 3, got %d", count)
	}

	user, err := l.users.PurchaseStreakSaves(ctx, userID, count, cost)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"count":       count,
		"cost":        cost,
		"newBalance":  user.Points,
		"streakSaves": user.StreakSaves,
	}).Info("Purchased streak saves")

	l.publisher.Publish(events.StreakSavesPurchasedEvent{
		UserID: userID,
		Count:  count,
		Cost:   cost,
	})

	return user, nil
}
