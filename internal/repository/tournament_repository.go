package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

// TournamentRepository persists tournament snapshots as JSONB documents plus
// a per-extension table so profile, person-request and limit payloads can be
// read and written without rehydrating the full record.
type TournamentRepository struct {
	db *sqlx.DB
}

// NewTournamentRepository constructs the repository.
func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

type tournamentRow struct {
	TournamentID   string    `db:"tournament_id"`
	TournamentName string    `db:"tournament_name"`
	Document       []byte    `db:"document"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Get loads a tournament snapshot by id. Returns sql.ErrNoRows untouched so
// the service layer can map it to a structured not-found error.
func (r *TournamentRepository) Get(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	const query = `SELECT tournament_id, tournament_name, document, updated_at
FROM tournaments WHERE tournament_id = $1`
	var row tournamentRow
	if err := r.db.GetContext(ctx, &row, query, tournamentID); err != nil {
		return nil, err
	}
	var tournament models.Tournament
	if err := json.Unmarshal(row.Document, &tournament); err != nil {
		return nil, fmt.Errorf("decode tournament document: %w", err)
	}
	return &tournament, nil
}

// Save upserts the full tournament document.
func (r *TournamentRepository) Save(ctx context.Context, tournament *models.Tournament) error {
	document, err := json.Marshal(tournament)
	if err != nil {
		return fmt.Errorf("encode tournament document: %w", err)
	}
	const query = `INSERT INTO tournaments (tournament_id, tournament_name, document, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tournament_id)
DO UPDATE SET tournament_name = EXCLUDED.tournament_name, document = EXCLUDED.document,
              updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, tournament.TournamentID, tournament.TournamentName, document, time.Now().UTC()); err != nil {
		return fmt.Errorf("save tournament: %w", err)
	}
	return nil
}

// List returns ids and names of all stored tournaments.
func (r *TournamentRepository) List(ctx context.Context) ([]models.TournamentSummary, error) {
	const query = `SELECT tournament_id, tournament_name, updated_at FROM tournaments ORDER BY tournament_id ASC`
	var summaries []models.TournamentSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return summaries, nil
}

// Delete removes a tournament and its extensions.
func (r *TournamentRepository) Delete(ctx context.Context, tournamentID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tournament tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tournament_extensions WHERE tournament_id = $1`, tournamentID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete tournament extensions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tournaments WHERE tournament_id = $1`, tournamentID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete tournament: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tournament tx: %w", err)
	}
	return nil
}

// GetExtension fetches one extension payload. Returns sql.ErrNoRows when the
// extension has never been written.
func (r *TournamentRepository) GetExtension(ctx context.Context, tournamentID, name string) (json.RawMessage, error) {
	const query = `SELECT value FROM tournament_extensions WHERE tournament_id = $1 AND name = $2`
	var value []byte
	if err := r.db.GetContext(ctx, &value, query, tournamentID, name); err != nil {
		return nil, err
	}
	return value, nil
}

// SetExtension upserts one extension payload.
func (r *TournamentRepository) SetExtension(ctx context.Context, tournamentID, name string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s extension: %w", name, err)
	}
	const query = `INSERT INTO tournament_extensions (tournament_id, name, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tournament_id, name)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, tournamentID, name, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s extension: %w", name, err)
	}
	return nil
}

// RemoveExtension deletes one extension payload.
func (r *TournamentRepository) RemoveExtension(ctx context.Context, tournamentID, name string) error {
	const query = `DELETE FROM tournament_extensions WHERE tournament_id = $1 AND name = $2`
	if _, err := r.db.ExecContext(ctx, query, tournamentID, name); err != nil {
		return fmt.Errorf("remove %s extension: %w", name, err)
	}
	return nil
}
