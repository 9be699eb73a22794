package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type requestsService interface {
	GetPersonRequests(ctx context.Context, tournamentID string) (models.PersonRequests, error)
	AddPersonRequests(ctx context.Context, tournamentID string, payload dto.PersonRequestsPayload) (models.PersonRequests, error)
	ModifyPersonRequests(ctx context.Context, tournamentID string, payload dto.PersonRequestsPayload) (models.PersonRequests, error)
	RemovePersonRequests(ctx context.Context, tournamentID string, payload dto.RemovePersonRequestsPayload) (models.PersonRequests, error)
	SetDailyLimits(ctx context.Context, tournamentID string, req dto.DailyLimitsRequest) (*models.MatchUpDailyLimits, error)
}

// RequestsHandler exposes person-request and daily-limit endpoints.
type RequestsHandler struct {
	service requestsService
}

// NewRequestsHandler builds a new handler.
func NewRequestsHandler(service requestsService) *RequestsHandler {
	return &RequestsHandler{service: service}
}

// Get returns stored person requests.
func (h *RequestsHandler) Get(c *gin.Context) {
	requests, err := h.service.GetPersonRequests(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"personRequests": requests}, nil)
}

// Add appends person request windows.
func (h *RequestsHandler) Add(c *gin.Context) {
	var payload dto.PersonRequestsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person requests payload"))
		return
	}
	requests, err := h.service.AddPersonRequests(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"personRequests": requests}, nil)
}

// Modify replaces stored person requests by requestId.
func (h *RequestsHandler) Modify(c *gin.Context) {
	var payload dto.PersonRequestsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person requests payload"))
		return
	}
	requests, err := h.service.ModifyPersonRequests(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"personRequests": requests}, nil)
}

// Remove drops person request windows.
func (h *RequestsHandler) Remove(c *gin.Context) {
	var payload dto.RemovePersonRequestsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid removal payload"))
		return
	}
	requests, err := h.service.RemovePersonRequests(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"personRequests": requests}, nil)
}

// SetDailyLimits replaces the per-participant daily caps.
func (h *RequestsHandler) SetDailyLimits(c *gin.Context) {
	var req dto.DailyLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid daily limits payload"))
		return
	}
	limits, err := h.service.SetDailyLimits(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"matchUpDailyLimits": limits}, nil)
}
