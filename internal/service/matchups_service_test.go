package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

func newMatchUpsFixture(t *testing.T) (*MatchUpsService, *TournamentRegistry) {
	t.Helper()
	registry := NewTournamentRegistry(nil, nil)
	require.NoError(t, registry.Put(context.Background(), schedulingSnapshot()))
	return NewMatchUpsService(registry, nil, nil), registry
}

func TestMatchUpsServiceBulkSchedule(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	result, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1"}, {MatchUpID: "m2", DrawID: "draw-1"}},
		Schedule:          models.Schedule{ScheduledDate: "2026-09-01", ScheduledTime: "10:00", VenueID: "venue-1"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m1", "m2"}, result.ScheduledMatchUpIDs)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.MatchUp("m1").Schedule.ScheduledTime)
	assert.Equal(t, "venue-1", stored.MatchUp("m2").Schedule.VenueID)
}

func TestMatchUpsServiceBulkScheduleNoPartialMutation(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	_, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1"}, {MatchUpID: "missing"}},
		Schedule:          models.Schedule{ScheduledDate: "2026-09-01", ScheduledTime: "10:00"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidValues.Code, appErrors.FromError(err).Code)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Empty(t, stored.MatchUp("m1").Schedule.ScheduledTime)
}

func TestMatchUpsServiceBulkScheduleWrongDraw(t *testing.T) {
	service, _ := newMatchUpsFixture(t)

	_, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1", DrawID: "draw-2"}},
		Schedule:          models.Schedule{ScheduledDate: "2026-09-01"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidValues.Code, appErrors.FromError(err).Code)
}

func TestMatchUpsServiceBulkScheduleSkipsByes(t *testing.T) {
	registry := NewTournamentRegistry(nil, nil)
	snapshot := schedulingSnapshot()
	snapshot.MatchUp("m2").MatchUpStatus = models.StatusBye
	require.NoError(t, registry.Put(context.Background(), snapshot))
	service := NewMatchUpsService(registry, nil, nil)

	result, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1"}, {MatchUpID: "m2"}},
		Schedule:          models.Schedule{ScheduledDate: "2026-09-01", ScheduledTime: "10:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, result.ScheduledMatchUpIDs)
	assert.Equal(t, []string{"m2"}, result.SkippedMatchUpIDs)

	withByes, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs:   []dto.MatchUpContextID{{MatchUpID: "m2"}},
		Schedule:            models.Schedule{ScheduledDate: "2026-09-01", ScheduledTime: "10:00"},
		ScheduleByeMatchUps: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, withByes.ScheduledMatchUpIDs)
}

func TestMatchUpsServiceBulkScheduleMergesFields(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	_, err := service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1"}},
		Schedule:          models.Schedule{ScheduledDate: "2026-09-01", ScheduledTime: "10:00", CourtID: "court-1"},
	})
	require.NoError(t, err)

	// setting only a new time must keep the assigned court
	_, err = service.BulkSchedule(context.Background(), "t-1", dto.BulkScheduleRequest{
		MatchUpContextIDs: []dto.MatchUpContextID{{MatchUpID: "m1"}},
		Schedule:          models.Schedule{ScheduledTime: "12:00"},
	})
	require.NoError(t, err)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "12:00", stored.MatchUp("m1").Schedule.ScheduledTime)
	assert.Equal(t, "court-1", stored.MatchUp("m1").Schedule.CourtID)
}

func TestMatchUpsServiceUpdateStatus(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	err := service.UpdateStatus(context.Background(), "t-1", dto.MatchUpStatusRequest{
		MatchUpID:     "m1",
		MatchUpStatus: models.StatusInProgress,
	})
	require.NoError(t, err)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, stored.MatchUp("m1").MatchUpStatus)
}

func TestMatchUpsServiceUpdateStatusRequiresParticipants(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	// final has no sides yet
	err := service.UpdateStatus(context.Background(), "t-1", dto.MatchUpStatusRequest{
		MatchUpID:     "final",
		MatchUpStatus: models.StatusInProgress,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidMatchUpStatus.Code, appErrors.FromError(err).Code)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusToBePlayed, stored.MatchUp("final").MatchUpStatus)
}

func TestMatchUpsServiceSetWinningSide(t *testing.T) {
	service, registry := newMatchUpsFixture(t)

	err := service.SetWinningSide(context.Background(), "t-1", dto.WinningSideRequest{MatchUpID: "m1", WinningSide: 1})
	require.NoError(t, err)

	stored, err := registry.Load(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MatchUp("m1").WinningSide)
	assert.Equal(t, models.StatusCompleted, stored.MatchUp("m1").MatchUpStatus)

	// idempotent for the same side
	require.NoError(t, service.SetWinningSide(context.Background(), "t-1", dto.WinningSideRequest{MatchUpID: "m1", WinningSide: 1}))
}

func TestMatchUpsServiceCannotChangeWinningSide(t *testing.T) {
	service, _ := newMatchUpsFixture(t)

	require.NoError(t, service.SetWinningSide(context.Background(), "t-1", dto.WinningSideRequest{MatchUpID: "m1", WinningSide: 1}))

	err := service.SetWinningSide(context.Background(), "t-1", dto.WinningSideRequest{MatchUpID: "m1", WinningSide: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCannotChangeWinningSide.Code, appErrors.FromError(err).Code)
}
