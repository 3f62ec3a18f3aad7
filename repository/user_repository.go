package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"leetstreak/database"
	"leetstreak/models"
	"leetstreak/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id::text, username, email, password, points, streak_saves, lc_username,
	leetcode_profile, skill_level, completed_lessons, room_items, created_at, updated_at
`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q  queryable
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool, db: db}
}

// scanUser reads one row selected with userColumns
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var lcUsername, skillLevel *string
	var profileJSON, roomJSON []byte

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Points,
		&user.StreakSaves,
		&lcUsername,
		&profileJSON,
		&skillLevel,
		&user.CompletedLessons,
		&roomJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lcUsername != nil {
		user.LeetCodeUsername = *lcUsername
	}
	if skillLevel != nil {
		level := models.SkillLevel(*skillLevel)
		user.SkillLevel = &level
	}
	if len(profileJSON) > 0 && string(profileJSON) != "null" {
		var profile models.ProfileSnapshot
		if err := json.Unmarshal(profileJSON, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leetcode profile: %w", err)
		}
		user.LeetCodeProfile = &profile
	}
	if len(roomJSON) > 0 {
		if err := json.Unmarshal(roomJSON, &user.RoomItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room items: %w", err)
		}
	}

	user.EnsureDefaults()
	return &user, nil
}

// getOne runs a query returning userColumns and maps no rows to nil, nil
func getOne(ctx context.Context, q queryable, query string, args ...any) (*models.User, error) {
	user, err := scanUser(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// Create inserts a new user with zero points, no saves and the starter room
func (r *UserRepository) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	roomJSON, err := json.Marshal(models.DefaultRoomItems())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room items: %w", err)
	}

	query := `
		INSERT INTO users (id, username, email, password, points, streak_saves, room_items)
		VALUES ($1, $2, LOWER($3), $4, 0, 0, $5)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, uuid.New(), username, email, password, roomJSON))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("username or email already registered: %w", service.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}

	return user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	user, err := getOne(ctx, r.q, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := getOne(ctx, r.q, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := getOne(ctx, r.q, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return user, nil
}

// Update applies a partial update of the account fields
func (r *UserRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	var email *string
	if update.Email != nil {
		lowered := strings.ToLower(*update.Email)
		email = &lowered
	}

	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    password = COALESCE($4, password),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := getOne(ctx, r.q, query, userID, update.Username, email, update.Password)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("username or email already registered: %w", service.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// LinkProfile points the user at a LeetCode account and replaces the stored snapshot without awarding points
func (r *UserRepository) LinkProfile(ctx context.Context, id, lcUsername string, snapshot models.ProfileSnapshot) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	profileJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leetcode profile: %w", err)
	}

	query := `
		UPDATE users
		SET lc_username = $2, leetcode_profile = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := getOne(ctx, r.q, query, userID, lcUsername, profileJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to link profile for user %s: %w", id, err)
	}
	return user, nil
}

// ApplyProfileSnapshot adds award to the balance and stores snapshot as the new baseline, provided
// the stored baseline still has the counts of observed (nil when the user had no snapshot).
// A positive award is recorded in the point history. When the baseline moved, nothing is written
// and the current row is returned with applied false.
func (r *UserRepository) ApplyProfileSnapshot(ctx context.Context, id string, observed *models.ProfileSnapshot, award int64, snapshot models.ProfileSnapshot) (*models.User, bool, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, false, nil
	}

	profileJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal leetcode profile: %w", err)
	}

	var user *models.User
	applied := false
	err = r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		current, err := getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
		if err != nil || current == nil {
			return err
		}
		if !models.SameCounts(current.LeetCodeProfile, observed) {
			user = current
			return nil
		}

		query := `
			UPDATE users
			SET points = points + $2, leetcode_profile = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + userColumns

		user, err = getOne(ctx, tx, query, userID, award, profileJSON)
		if err != nil || user == nil {
			return err
		}
		applied = true
		if award <= 0 {
			return nil
		}

		return newPointHistoryRepositoryWithTx(tx).Record(ctx, &models.PointHistory{
			UserID:          user.ID,
			BalanceBefore:   user.Points - award,
			BalanceAfter:    user.Points,
			ChangeAmount:    award,
			TransactionType: models.TransactionTypeProblemsSolved,
			Metadata: map[string]any{
				"total_solved":  snapshot.TotalSolved,
				"easy_solved":   snapshot.EasySolved,
				"medium_solved": snapshot.MediumSolved,
				"hard_solved":   snapshot.HardSolved,
			},
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to apply profile snapshot for user %s: %w", id, err)
	}

	return user, applied, nil
}

// ConsumeStreakSave decrements the save count if it is positive. Returns false when nothing was consumed.
func (r *UserRepository) ConsumeStreakSave(ctx context.Context, id string) (bool, error) {
	userID, ok := parseID(id)
	if !ok {
		return false, nil
	}

	query := `
		UPDATE users
		SET streak_saves = streak_saves - 1, updated_at = NOW()
		WHERE id = $1 AND streak_saves > 0
	`

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume streak save for user %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// PurchaseStreakSaves debits cost and credits count saves atomically, failing if the balance is insufficient
func (r *UserRepository) PurchaseStreakSaves(ctx context.Context, id string, count int, cost int64) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, service.ErrNotFound)
	}

	var user *models.User
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE users
			SET points = points - $2, streak_saves = streak_saves + $3, updated_at = NOW()
			WHERE id = $1 AND points >= $2
			RETURNING ` + userColumns

		var err error
		user, err = getOne(ctx, tx, query, userID, cost, count)
		if err != nil {
			return err
		}

		if user == nil {
			// Check if user exists or has insufficient points
			current, err := getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
			if err != nil {
				return fmt.Errorf("failed to check user: %w", err)
			}
			if current == nil {
				return fmt.Errorf("user %s: %w", id, service.ErrNotFound)
			}
			return fmt.Errorf("have %d points, need %d: %w", current.Points, cost, service.ErrInsufficientBalance)
		}

		return newPointHistoryRepositoryWithTx(tx).Record(ctx, &models.PointHistory{
			UserID:          user.ID,
			BalanceBefore:   user.Points + cost,
			BalanceAfter:    user.Points,
			ChangeAmount:    -cost,
			TransactionType: models.TransactionTypeStreakSavePurchase,
			Metadata:        map[string]any{"count": count},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to purchase streak saves for user %s: %w", id, err)
	}

	return user, nil
}

// SetSkillLevel stores the user's lesson track
func (r *UserRepository) SetSkillLevel(ctx context.Context, id string, level models.SkillLevel) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	query := `
		UPDATE users
		SET skill_level = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := getOne(ctx, r.q, query, userID, string(level))
	if err != nil {
		return nil, fmt.Errorf("failed to set skill level for user %s: %w", id, err)
	}
	return user, nil
}

// CompleteLesson marks lessonID as completed and credits its rewards, once per lesson.
// The returned flag is false when the lesson had already been completed.
func (r *UserRepository) CompleteLesson(ctx context.Context, id, lessonID string, points int64, streakSaves int) (*models.User, bool, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, false, nil
	}

	var user *models.User
	applied := false
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE users
			SET completed_lessons = array_append(completed_lessons, $2::text),
			    points = points + $3,
			    streak_saves = streak_saves + $4,
			    updated_at = NOW()
			WHERE id = $1 AND NOT ($2::text = ANY(completed_lessons))
			RETURNING ` + userColumns

		var err error
		user, err = getOne(ctx, tx, query, userID, lessonID, points, streakSaves)
		if err != nil {
			return err
		}

		if user == nil {
			user, err = getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
			return err
		}

		applied = true
		if points <= 0 {
			return nil
		}
		return newPointHistoryRepositoryWithTx(tx).Record(ctx, &models.PointHistory{
			UserID:          user.ID,
			BalanceBefore:   user.Points - points,
			BalanceAfter:    user.Points,
			ChangeAmount:    points,
			TransactionType: models.TransactionTypeLessonComplete,
			Metadata:        map[string]any{"lesson_id": lessonID, "streak_saves": streakSaves},
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete lesson %s for user %s: %w", lessonID, id, err)
	}

	return user, applied, nil
}

// ModifyRoom locks the user row, lets mutate edit the room inventory and debits the returned cost.
// Errors returned by mutate abort the change and are passed through.
func (r *UserRepository) ModifyRoom(ctx context.Context, id string, mutate service.RoomMutation) (*models.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	var user *models.User
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		current, err := getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
		if err != nil || current == nil {
			return err
		}

		change, err := mutate(current)
		if err != nil {
			return err
		}

		roomJSON, err := json.Marshal(models.MergeRoomItems(current.RoomItems))
		if err != nil {
			return fmt.Errorf("failed to marshal room items: %w", err)
		}

		query := `
			UPDATE users
			SET room_items = $2, points = points - $3, updated_at = NOW()
			WHERE id = $1 AND points >= $3
			RETURNING ` + userColumns

		user, err = getOne(ctx, tx, query, userID, roomJSON, change.Cost)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("have %d points, need %d: %w", current.Points, change.Cost, service.ErrInsufficientBalance)
		}

		if change.Cost <= 0 {
			return nil
		}
		return newPointHistoryRepositoryWithTx(tx).Record(ctx, &models.PointHistory{
			UserID:          user.ID,
			BalanceBefore:   user.Points + change.Cost,
			BalanceAfter:    user.Points,
			ChangeAmount:    -change.Cost,
			TransactionType: models.TransactionTypeRoomPurchase,
			Metadata:        map[string]any{"item_id": change.ItemID},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update room for user %s: %w", id, err)
	}

	return user, nil
}
