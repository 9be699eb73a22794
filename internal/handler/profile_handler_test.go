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
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type profileServiceMock struct {
	profile models.SchedulingProfile
	addErr  error
}

func (m *profileServiceMock) Get(ctx context.Context, tournamentID string) (models.SchedulingProfile, error) {
	return m.profile, nil
}

func (m *profileServiceMock) Set(ctx context.Context, tournamentID string, req dto.SetProfileRequest) (models.SchedulingProfile, error) {
	return req.SchedulingProfile, nil
}

func (m *profileServiceMock) AddRound(ctx context.Context, tournamentID string, req dto.AddProfileRoundRequest) (models.SchedulingProfile, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.profile, nil
}

func (m *profileServiceMock) Issues(ctx context.Context, tournamentID string, scheduleDates []string) (*dto.ProfileIssues, error) {
	return &dto.ProfileIssues{}, nil
}

func (m *profileServiceMock) Updated(ctx context.Context, tournamentID string) (*dto.UpdatedProfile, error) {
	return &dto.UpdatedProfile{SchedulingProfile: m.profile}, nil
}

func TestProfileHandlerAddRoundExistingRound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProfileHandler(&profileServiceMock{addErr: appErrors.ErrExistingRound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AddProfileRoundRequest{
		ScheduleDate: "2026-09-01",
		VenueID:      "venue-1",
		Round:        models.RoundSelector{DrawID: "draw-1", RoundNumber: 1},
	})
	req, _ := http.NewRequest(http.MethodPost, "/tournaments/t-1/scheduling/profile/rounds", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.AddRound(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrExistingRound.Code, envelope.Error.Code)
}

func TestProfileHandlerSetInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProfileHandler(&profileServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/tournaments/t-1/scheduling/profile", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.Set(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profile := models.SchedulingProfile{{ScheduleDate: "2026-09-01"}}
	handler := NewProfileHandler(&profileServiceMock{profile: profile})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/tournaments/t-1/scheduling/profile", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-09-01")
}
