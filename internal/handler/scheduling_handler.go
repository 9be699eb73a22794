package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/depgraph"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type schedulingService interface {
	Run(ctx context.Context, tournamentID string, req dto.RunSchedulingRequest) (*allocator.Result, error)
	MatchUpDependencies(ctx context.Context, tournamentID string, drawIDs []string) (depgraph.Graph, error)
	ClearScheduledMatchUps(ctx context.Context, tournamentID string, req dto.ClearScheduleRequest) (*dto.ClearScheduleResult, error)
	Bookings(ctx context.Context, tournamentID string, req dto.BookingsRequest) (*dto.BookingsResult, error)
}

// SchedulingHandler exposes the allocator and its derived views.
type SchedulingHandler struct {
	service schedulingService
}

// NewSchedulingHandler builds a new handler.
func NewSchedulingHandler(service schedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: service}
}

// Run executes a scheduling pass over the stored profile. The response
// always carries the full bucketed report, even on partial placement.
func (h *SchedulingHandler) Run(c *gin.Context) {
	var req dto.RunSchedulingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scheduling payload"))
		return
	}
	result, err := h.service.Run(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Dependencies returns the matchUp dependency graph, optionally narrowed
// by drawIds query values.
func (h *SchedulingHandler) Dependencies(c *gin.Context) {
	graph, err := h.service.MatchUpDependencies(c.Request.Context(), c.Param("id"), c.QueryArray("drawIds"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"matchUpDependencies": graph}, nil)
}

// Clear wipes schedule fields for the requested dates and venues.
func (h *SchedulingHandler) Clear(c *gin.Context) {
	var req dto.ClearScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clear payload"))
		return
	}
	result, err := h.service.ClearScheduledMatchUps(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Bookings projects scheduled matchUps into court bookings.
func (h *SchedulingHandler) Bookings(c *gin.Context) {
	var req dto.BookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bookings payload"))
		return
	}
	result, err := h.service.Bookings(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
