package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"leetstreak/database"
	"leetstreak/models"
)

// PointHistoryRepository implements the PointHistoryRepository interface
type PointHistoryRepository struct {
	q queryable
}

// NewPointHistoryRepository creates a new point history repository
func NewPointHistoryRepository(db *database.DB) *PointHistoryRepository {
	return &PointHistoryRepository{q: db.Pool}
}

// newPointHistoryRepositoryWithTx creates a point history repository bound to a transaction
func newPointHistoryRepositoryWithTx(tx queryable) *PointHistoryRepository {
	return &PointHistoryRepository{q: tx}
}

// Record creates a new point history entry
func (r *PointHistoryRepository) Record(ctx context.Context, history *models.PointHistory) error {
	var metadataJSON []byte
	if history.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(history.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal point history metadata: %w", err)
		}
	}

	query := `
		INSERT INTO point_history
		(user_id, balance_before, balance_after, change_amount, transaction_type, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.UserID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		history.TransactionType,
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record point history for user %s: %w", history.UserID, err)
	}

	history.CreatedAt = history.CreatedAt.UTC()
	return nil
}

// GetByUser returns the most recent point history entries of a user, newest first
func (r *PointHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.PointHistory, error) {
	id, ok := parseID(userID)
	if !ok {
		return []*models.PointHistory{}, nil
	}

	query := `
		SELECT id, user_id::text, balance_before, balance_after, change_amount,
		       transaction_type, metadata, created_at
		FROM point_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get point history for user %s: %w", userID, err)
	}
	defer rows.Close()

	histories := []*models.PointHistory{}
	for rows.Next() {
		var history models.PointHistory
		var metadataJSON []byte

		err := rows.Scan(
			&history.ID,
			&history.UserID,
			&history.BalanceBefore,
			&history.BalanceAfter,
			&history.ChangeAmount,
			&history.TransactionType,
			&metadataJSON,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point history: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &history.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal point history metadata: %w", err)
			}
		}
		history.CreatedAt = history.CreatedAt.UTC()

		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate point history: %w", err)
	}

	return histories, nil
}
