package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

type persistenceStub struct {
	stored   map[string]*models.Tournament
	getCalls int
	getErr   error
	saveErr  error
}

func (s *persistenceStub) Get(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if t, ok := s.stored[tournamentID]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *persistenceStub) Save(ctx context.Context, tournament *models.Tournament) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.stored == nil {
		s.stored = make(map[string]*models.Tournament)
	}
	s.stored[tournament.TournamentID] = tournament
	return nil
}

func (s *persistenceStub) List(ctx context.Context) ([]models.TournamentSummary, error) {
	var summaries []models.TournamentSummary
	for _, t := range s.stored {
		summaries = append(summaries, models.TournamentSummary{TournamentID: t.TournamentID})
	}
	return summaries, nil
}

func (s *persistenceStub) Delete(ctx context.Context, tournamentID string) error {
	delete(s.stored, tournamentID)
	return nil
}

// schedulingSnapshot builds the shared service-test tournament: one venue
// with two courts open 10:00-16:00 and a four-player draw with a final fed
// by two first-round matchUps.
func schedulingSnapshot() *models.Tournament {
	window := []models.DateAvailability{{StartTime: "10:00", EndTime: "16:00"}}
	singles := func(id string, round, position int, persons ...string) *models.MatchUp {
		m := &models.MatchUp{
			MatchUpID:     id,
			DrawID:        "draw-1",
			StructureID:   "main",
			RoundNumber:   round,
			RoundPosition: position,
			MatchUpType:   models.Singles,
			MatchUpStatus: models.StatusToBePlayed,
		}
		for i, person := range persons {
			m.Sides = append(m.Sides, models.Side{SideNumber: i + 1, IndividualParticipantIDs: []string{person}})
		}
		return m
	}
	return &models.Tournament{
		TournamentID: "t-1",
		Venues: []models.Venue{{
			VenueID: "venue-1",
			Courts: []models.Court{
				{CourtID: "court-1", DateAvailability: window},
				{CourtID: "court-2", DateAvailability: window},
			},
		}},
		MatchUps: []*models.MatchUp{
			singles("m1", 1, 1, "p-a", "p-b"),
			singles("m2", 1, 2, "p-c", "p-d"),
			singles("final", 2, 1),
		},
		SchedulingProfile: models.SchedulingProfile{{
			ScheduleDate: "2026-09-01",
			Venues: []models.ProfileVenue{{
				VenueID: "venue-1",
				Rounds: []models.RoundSelector{
					{DrawID: "draw-1", StructureID: "main", RoundNumber: 1},
					{DrawID: "draw-1", StructureID: "main", RoundNumber: 2},
				},
			}},
		}},
	}
}

func TestRegistryLoadMissing(t *testing.T) {
	registry := NewTournamentRegistry(nil, nil)

	_, err := registry.Load(context.Background(), "unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingTournamentRecord.Code, appErrors.FromError(err).Code)

	_, err = registry.Load(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingValue.Code, appErrors.FromError(err).Code)
}

func TestRegistryLoadReadsThrough(t *testing.T) {
	repo := &persistenceStub{stored: map[string]*models.Tournament{"t-1": schedulingSnapshot()}}
	registry := NewTournamentRegistry(repo, nil)

	loaded, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", loaded.TournamentID)

	_, err = registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestRegistryPutPersists(t *testing.T) {
	repo := &persistenceStub{}
	registry := NewTournamentRegistry(repo, nil)

	require.NoError(t, registry.Put(context.Background(), schedulingSnapshot()))
	assert.Contains(t, repo.stored, "t-1")

	err := registry.Put(context.Background(), &models.Tournament{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingValue.Code, appErrors.FromError(err).Code)
}

func TestRegistryMutateAbortsOnError(t *testing.T) {
	repo := &persistenceStub{stored: map[string]*models.Tournament{"t-1": schedulingSnapshot()}}
	registry := NewTournamentRegistry(repo, nil)
	boom := errors.New("rejected")

	err := registry.Mutate(context.Background(), "t-1", func(tournament *models.Tournament) error {
		return boom
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRegistryMutatePersistsResult(t *testing.T) {
	repo := &persistenceStub{stored: map[string]*models.Tournament{"t-1": schedulingSnapshot()}}
	registry := NewTournamentRegistry(repo, nil)

	err := registry.Mutate(context.Background(), "t-1", func(tournament *models.Tournament) error {
		tournament.TournamentName = "renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", repo.stored["t-1"].TournamentName)
}

func TestRegistryRemove(t *testing.T) {
	repo := &persistenceStub{stored: map[string]*models.Tournament{"t-1": schedulingSnapshot()}}
	registry := NewTournamentRegistry(repo, nil)

	_, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)

	require.NoError(t, registry.Remove(context.Background(), "t-1"))
	assert.NotContains(t, repo.stored, "t-1")

	_, err = registry.Load(context.Background(), "t-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingTournamentRecord.Code, appErrors.FromError(err).Code)
}

func TestRegistryListMemoryOnly(t *testing.T) {
	registry := NewTournamentRegistry(nil, nil)
	require.NoError(t, registry.Put(context.Background(), schedulingSnapshot()))

	summaries, err := registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "t-1", summaries[0].TournamentID)
}
