package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/depgraph"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type schedulingServiceMock struct {
	runResult *allocator.Result
	runErr    error
	graph     depgraph.Graph
	clearErr  error
}

func (m *schedulingServiceMock) Run(ctx context.Context, tournamentID string, req dto.RunSchedulingRequest) (*allocator.Result, error) {
	if m.runErr != nil {
		return nil, m.runErr
	}
	return m.runResult, nil
}

func (m *schedulingServiceMock) MatchUpDependencies(ctx context.Context, tournamentID string, drawIDs []string) (depgraph.Graph, error) {
	return m.graph, nil
}

func (m *schedulingServiceMock) ClearScheduledMatchUps(ctx context.Context, tournamentID string, req dto.ClearScheduleRequest) (*dto.ClearScheduleResult, error) {
	if m.clearErr != nil {
		return nil, m.clearErr
	}
	return &dto.ClearScheduleResult{ClearedMatchUpIDs: []string{}}, nil
}

func (m *schedulingServiceMock) Bookings(ctx context.Context, tournamentID string, req dto.BookingsRequest) (*dto.BookingsResult, error) {
	return &dto.BookingsResult{}, nil
}

func schedulingTestContext(t *testing.T, method, path string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}
	return c, w
}

func TestSchedulingHandlerRun(t *testing.T) {
	mock := &schedulingServiceMock{runResult: &allocator.Result{
		ScheduledDates:      []string{"2026-09-01"},
		ScheduledMatchUpIDs: map[string][]string{"2026-09-01": {"m1"}},
	}}
	handler := NewSchedulingHandler(mock)
	c, w := schedulingTestContext(t, http.MethodPost, "/tournaments/t-1/scheduling/run", dto.RunSchedulingRequest{
		ScheduleDates: []string{"2026-09-01"},
	})

	handler.Run(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}

func TestSchedulingHandlerRunInvalidBody(t *testing.T) {
	handler := NewSchedulingHandler(&schedulingServiceMock{})
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/tournaments/t-1/scheduling/run", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.Run(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulingHandlerRunMissingTournament(t *testing.T) {
	handler := NewSchedulingHandler(&schedulingServiceMock{runErr: appErrors.ErrMissingTournamentRecord})
	c, w := schedulingTestContext(t, http.MethodPost, "/tournaments/t-1/scheduling/run", dto.RunSchedulingRequest{})

	handler.Run(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrMissingTournamentRecord.Code, envelope.Error.Code)
}

func TestSchedulingHandlerClear(t *testing.T) {
	handler := NewSchedulingHandler(&schedulingServiceMock{})
	c, w := schedulingTestContext(t, http.MethodPost, "/tournaments/t-1/scheduling/clear", dto.ClearScheduleRequest{})

	handler.Clear(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSchedulingHandlerDependencies(t *testing.T) {
	graph := depgraph.Graph{"final": &depgraph.Dependency{MatchUpIDs: map[string]bool{"m1": true}}}
	handler := NewSchedulingHandler(&schedulingServiceMock{graph: graph})
	c, w := schedulingTestContext(t, http.MethodGet, "/tournaments/t-1/matchups/dependencies", nil)

	handler.Dependencies(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "matchUpDependencies")
}
