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

func newRequestsFixture(t *testing.T) (*RequestsService, *extensionWriterStub) {
	t.Helper()
	registry := NewTournamentRegistry(nil, nil)
	require.NoError(t, registry.Put(context.Background(), schedulingSnapshot()))
	extensions := &extensionWriterStub{}
	return NewRequestsService(registry, extensions, nil, nil), extensions
}

func TestRequestsServiceAdd(t *testing.T) {
	service, extensions := newRequestsFixture(t)

	requests, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, requests["p-a"], 1)
	assert.NotEmpty(t, requests["p-a"][0].RequestID)
	assert.Equal(t, models.DoNotSchedule, requests["p-a"][0].RequestType)
	assert.Contains(t, extensions.written, models.ExtensionPersonRequests)
}

func TestRequestsServiceAddInvalidDate(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "09/01/2026", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
}

func TestRequestsServiceAddInvalidWindow(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "2026-09-01", StartTime: "ten", EndTime: "12:00"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidValues.Code, appErrors.FromError(err).Code)
}

func TestRequestsServiceAddEmptyPayload(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingValue.Code, appErrors.FromError(err).Code)
}

func TestRequestsServiceModifyReplacesByRequestID(t *testing.T) {
	service, _ := newRequestsFixture(t)

	added, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)
	requestID := added["p-a"][0].RequestID

	modified, err := service.ModifyPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", RequestID: requestID, Date: "2026-09-01", StartTime: "14:00", EndTime: "16:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, modified["p-a"], 1)
	assert.Equal(t, "14:00", modified["p-a"][0].StartTime)
}

func TestRequestsServiceModifyUnknownIDAppends(t *testing.T) {
	service, _ := newRequestsFixture(t)

	modified, err := service.ModifyPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", RequestID: "req-x", Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, modified["p-a"], 1)
}

func TestRequestsServiceRemoveByDate(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00"},
			{PersonID: "p-a", Date: "2026-09-02", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)

	remaining, err := service.RemovePersonRequests(context.Background(), "t-1", dto.RemovePersonRequestsPayload{
		PersonIDs: []string{"p-a"},
		Dates:     []string{"2026-09-01"},
	})
	require.NoError(t, err)
	require.Len(t, remaining["p-a"], 1)
	assert.Equal(t, "2026-09-02", remaining["p-a"][0].Date)
}

func TestRequestsServiceRemoveAllForPerson(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.AddPersonRequests(context.Background(), "t-1", dto.PersonRequestsPayload{
		Requests: []models.PersonRequest{
			{PersonID: "p-a", Date: "2026-09-01", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)

	remaining, err := service.RemovePersonRequests(context.Background(), "t-1", dto.RemovePersonRequestsPayload{
		PersonIDs: []string{"p-a"},
	})
	require.NoError(t, err)
	assert.NotContains(t, remaining, "p-a")
}

func TestRequestsServiceSetDailyLimits(t *testing.T) {
	service, extensions := newRequestsFixture(t)
	one := 1

	limits, err := service.SetDailyLimits(context.Background(), "t-1", dto.DailyLimitsRequest{
		DailyLimits: &models.MatchUpDailyLimits{Singles: &one},
	})
	require.NoError(t, err)
	require.NotNil(t, limits.Singles)
	assert.Equal(t, 1, *limits.Singles)
	assert.Contains(t, extensions.written, models.ExtensionDailyLimits)
}

func TestRequestsServiceSetDailyLimitsInvalidObject(t *testing.T) {
	service, _ := newRequestsFixture(t)

	_, err := service.SetDailyLimits(context.Background(), "t-1", dto.DailyLimitsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidObject.Code, appErrors.FromError(err).Code)

	negative := -1
	_, err = service.SetDailyLimits(context.Background(), "t-1", dto.DailyLimitsRequest{
		DailyLimits: &models.MatchUpDailyLimits{Total: &negative},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidObject.Code, appErrors.FromError(err).Code)
}
