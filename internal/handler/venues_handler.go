package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/middleware"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type venuesService interface {
	GetVenuesAndCourts(ctx context.Context, tournamentID string, query dto.VenuesQuery) (*dto.VenuesAndCourts, error)
	BulkUpdateCourtAssignments(ctx context.Context, tournamentID string, req dto.BulkCourtAssignmentsRequest) error
}

// VenuesHandler exposes the venue/court read side and court assignments.
type VenuesHandler struct {
	service venuesService
}

// NewVenuesHandler builds a new handler.
func NewVenuesHandler(service venuesService) *VenuesHandler {
	return &VenuesHandler{service: service}
}

// List returns venues with per-date court windows and free slots.
func (h *VenuesHandler) List(c *gin.Context) {
	var query dto.VenuesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid venues query"))
		return
	}
	result, err := h.service.GetVenuesAndCourts(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// CourtAssignments binds matchUps to courts for one day.
func (h *VenuesHandler) CourtAssignments(c *gin.Context) {
	var req dto.BulkCourtAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid court assignments payload"))
		return
	}
	if err := h.service.BulkUpdateCourtAssignments(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"courtDayDate": req.CourtDayDate}, nil)
}
