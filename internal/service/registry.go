package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

type tournamentPersistence interface {
	Get(ctx context.Context, tournamentID string) (*models.Tournament, error)
	Save(ctx context.Context, tournament *models.Tournament) error
	List(ctx context.Context) ([]models.TournamentSummary, error)
	Delete(ctx context.Context, tournamentID string) error
}

// TournamentRegistry is the in-process snapshot store. The allocator mutates
// snapshots in place, so the registry serializes writers behind one mutex;
// readers share the lock. Persistence is write-through when a repository is
// attached and memory-only otherwise.
type TournamentRegistry struct {
	mu        sync.RWMutex
	snapshots map[string]*models.Tournament
	repo      tournamentPersistence
	logger    *zap.Logger
}

// NewTournamentRegistry constructs the registry. repo may be nil.
func NewTournamentRegistry(repo tournamentPersistence, logger *zap.Logger) *TournamentRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TournamentRegistry{
		snapshots: make(map[string]*models.Tournament),
		repo:      repo,
		logger:    logger,
	}
}

// Load returns the snapshot for a tournament, reading through to the
// repository on first access.
func (r *TournamentRegistry) Load(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	if tournamentID == "" {
		return nil, appErrors.ErrMissingValue
	}

	r.mu.RLock()
	tournament, ok := r.snapshots[tournamentID]
	r.mu.RUnlock()
	if ok {
		return tournament, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tournament, ok := r.snapshots[tournamentID]; ok {
		return tournament, nil
	}
	if r.repo == nil {
		return nil, appErrors.ErrMissingTournamentRecord
	}
	tournament, err := r.repo.Get(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrMissingTournamentRecord
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tournament")
	}
	r.snapshots[tournamentID] = tournament
	return tournament, nil
}

// Put registers (or replaces) a snapshot and persists it.
func (r *TournamentRegistry) Put(ctx context.Context, tournament *models.Tournament) error {
	if tournament == nil || tournament.TournamentID == "" {
		return appErrors.ErrMissingValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[tournament.TournamentID] = tournament
	return r.persist(ctx, tournament)
}

// Mutate runs fn against the snapshot under the write lock and persists the
// result. A fn error aborts persistence and is returned unchanged.
func (r *TournamentRegistry) Mutate(ctx context.Context, tournamentID string, fn func(*models.Tournament) error) error {
	tournament, err := r.Load(ctx, tournamentID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(tournament); err != nil {
		return err
	}
	return r.persist(ctx, tournament)
}

// List returns stored tournament summaries.
func (r *TournamentRegistry) List(ctx context.Context) ([]models.TournamentSummary, error) {
	if r.repo != nil {
		summaries, err := r.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tournaments")
		}
		return summaries, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]models.TournamentSummary, 0, len(r.snapshots))
	for _, tournament := range r.snapshots {
		summaries = append(summaries, models.TournamentSummary{
			TournamentID:   tournament.TournamentID,
			TournamentName: tournament.TournamentName,
		})
	}
	return summaries, nil
}

// Remove drops a tournament from memory and storage.
func (r *TournamentRegistry) Remove(ctx context.Context, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, tournamentID)
	if r.repo == nil {
		return nil
	}
	if err := r.repo.Delete(ctx, tournamentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tournament")
	}
	return nil
}

func (r *TournamentRegistry) persist(ctx context.Context, tournament *models.Tournament) error {
	if r.repo == nil {
		return nil
	}
	if err := r.repo.Save(ctx, tournament); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist tournament")
	}
	return nil
}
