package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leetstreak/database"
	"leetstreak/models"
	"leetstreak/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tournamentColumns = `
	id::text, name, password, creator_id, start_time, end_time, streak, last_checked, participants, created_at
`

// TournamentRepository implements the TournamentRepository interface
type TournamentRepository struct {
	q  queryable
	db *database.DB
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{q: db.Pool, db: db}
}

func scanTournament(row pgx.Row) (*models.Tournament, error) {
	var t models.Tournament
	var participantsJSON []byte

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Password,
		&t.CreatorID,
		&t.StartTime,
		&t.EndTime,
		&t.Streak,
		&t.LastChecked,
		&participantsJSON,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(participantsJSON) > 0 {
		if err := json.Unmarshal(participantsJSON, &t.Participants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
		}
	}

	t.EnsureDefaults()
	return &t, nil
}

func getTournament(ctx context.Context, q queryable, query string, args ...any) (*models.Tournament, error) {
	t, err := scanTournament(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// Create stores a new tournament and assigns its id
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	participantsJSON, err := json.Marshal(t.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO tournaments (id, name, password, creator_id, start_time, end_time, streak, last_checked, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		id,
		t.Name,
		t.Password,
		t.CreatorID,
		t.StartTime,
		t.EndTime,
		t.Streak,
		t.LastChecked,
		participantsJSON,
	).Scan(&t.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("tournament name %q is taken: %w", t.Name, service.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create tournament %s: %w", t.Name, err)
	}

	t.ID = id.String()
	t.EnsureDefaults()
	return nil
}

// GetByID retrieves a tournament by id
func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournamentID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	t, err := getTournament(ctx, r.q, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

// GetByName retrieves a tournament by its unique name
func (r *TournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	t, err := getTournament(ctx, r.q, `SELECT `+tournamentColumns+` FROM tournaments WHERE name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", name, err)
	}
	return t, nil
}

// GetByNameAndPassword retrieves a tournament only when both name and password match exactly
func (r *TournamentRepository) GetByNameAndPassword(ctx context.Context, name, password string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE name = $1 AND password = $2`

	t, err := getTournament(ctx, r.q, query, name, password)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", name, err)
	}
	return t, nil
}

// List returns tournaments newest first, limited to those memberID belongs to when it is set
func (r *TournamentRepository) List(ctx context.Context, memberID string) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	var args []any
	if memberID != "" {
		query += ` WHERE participants @> jsonb_build_array(jsonb_build_object('id', $1::text))`
		args = append(args, memberID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := []*models.Tournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournaments: %w", err)
	}

	return tournaments, nil
}

// AddParticipant appends p unless a participant with the same id is already present
func (r *TournamentRepository) AddParticipant(ctx context.Context, id string, p models.Participant) error {
	tournamentID, ok := parseID(id)
	if !ok {
		return fmt.Errorf("tournament %s: %w", id, service.ErrNotFound)
	}

	participantJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal participant: %w", err)
	}

	query := `
		UPDATE tournaments
		SET participants = participants || jsonb_build_array($2::jsonb)
		WHERE id = $1
		  AND NOT participants @> jsonb_build_array(jsonb_build_object('id', $3::text))
	`

	result, err := r.q.Exec(ctx, query, tournamentID, participantJSON, p.ID)
	if err != nil {
		return fmt.Errorf("failed to add participant %s to tournament %s: %w", p.ID, id, err)
	}

	if result.RowsAffected() == 0 {
		// Check if the tournament exists or already has this member
		t, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check tournament: %w", err)
		}
		if t == nil {
			return fmt.Errorf("tournament %s: %w", id, service.ErrNotFound)
		}
		return service.ErrAlreadyJoined
	}

	return nil
}

// ClaimStreakCheck moves last_checked from observed to today. Only one caller per day gets true.
func (r *TournamentRepository) ClaimStreakCheck(ctx context.Context, id string, observed *time.Time, today time.Time) (bool, error) {
	tournamentID, ok := parseID(id)
	if !ok {
		return false, nil
	}

	query := `
		UPDATE tournaments
		SET last_checked = $2::date
		WHERE id = $1 AND last_checked IS NOT DISTINCT FROM $3::date
	`

	result, err := r.q.Exec(ctx, query, tournamentID, models.DateOf(today), observed)
	if err != nil {
		return false, fmt.Errorf("failed to claim streak check for tournament %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// SaveReconciliation writes the outcome of a reconciliation pass in a single row update.
// streak and lastChecked are left untouched when nil. Returns nil, nil when the row no longer exists.
func (r *TournamentRepository) SaveReconciliation(ctx context.Context, id string, participants []models.Participant, streak *int, lastChecked *time.Time) (*models.Tournament, error) {
	tournamentID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	var saved *models.Tournament
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		stored, err := getTournament(ctx, tx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, tournamentID)
		if err != nil || stored == nil {
			return err
		}

		stored.Participants = models.MergeParticipants(stored.Participants, participants)
		stored.SortParticipants()

		participantsJSON, err := json.Marshal(stored.Participants)
		if err != nil {
			return fmt.Errorf("failed to marshal participants: %w", err)
		}

		query := `
			UPDATE tournaments
			SET participants = $2,
			    streak = COALESCE($3, streak),
			    last_checked = COALESCE($4::date, last_checked)
			WHERE id = $1
			RETURNING ` + tournamentColumns

		saved, err = getTournament(ctx, tx, query, tournamentID, participantsJSON, streak, lastChecked)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save reconciliation for tournament %s: %w", id, err)
	}

	return saved, nil
}
