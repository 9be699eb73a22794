package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type matchUpsService interface {
	BulkSchedule(ctx context.Context, tournamentID string, req dto.BulkScheduleRequest) (*dto.BulkScheduleResult, error)
	UpdateStatus(ctx context.Context, tournamentID string, req dto.MatchUpStatusRequest) error
	SetWinningSide(ctx context.Context, tournamentID string, req dto.WinningSideRequest) error
}

// MatchUpsHandler exposes direct matchUp mutations.
type MatchUpsHandler struct {
	service matchUpsService
}

// NewMatchUpsHandler builds a new handler.
func NewMatchUpsHandler(service matchUpsService) *MatchUpsHandler {
	return &MatchUpsHandler{service: service}
}

// BulkSchedule applies one schedule to a set of matchUps.
func (h *MatchUpsHandler) BulkSchedule(c *gin.Context) {
	var req dto.BulkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk schedule payload"))
		return
	}
	result, err := h.service.BulkSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// UpdateStatus transitions one matchUp's status.
func (h *MatchUpsHandler) UpdateStatus(c *gin.Context) {
	var req dto.MatchUpStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"matchUpId": req.MatchUpID, "matchUpStatus": req.MatchUpStatus}, nil)
}

// SetWinningSide records the outcome of one matchUp.
func (h *MatchUpsHandler) SetWinningSide(c *gin.Context) {
	var req dto.WinningSideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid winning side payload"))
		return
	}
	if err := h.service.SetWinningSide(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"matchUpId": req.MatchUpID, "winningSide": req.WinningSide}, nil)
}
