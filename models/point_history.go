package models

import (
	"time"
)

// TransactionType represents the type of point balance change
type TransactionType string

const (
	TransactionTypeProblemsSolved     TransactionType = "problems_solved"
	TransactionTypeStreakSavePurchase TransactionType = "streak_save_purchase"
	TransactionTypeLessonComplete     TransactionType = "lesson_complete"
	TransactionTypeRoomPurchase       TransactionType = "room_purchase"
)

// PointHistory represents a historical point balance change
type PointHistory struct {
	ID              int64           `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	BalanceBefore   int64           `db:"balance_before" json:"balanceBefore"`
	BalanceAfter    int64           `db:"balance_after" json:"balanceAfter"`
	ChangeAmount    int64           `db:"change_amount" json:"changeAmount"`
	TransactionType TransactionType `db:"transaction_type" json:"transactionType"`
	Metadata        map[string]any  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}
