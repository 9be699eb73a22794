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

type profileService interface {
	Get(ctx context.Context, tournamentID string) (models.SchedulingProfile, error)
	Set(ctx context.Context, tournamentID string, req dto.SetProfileRequest) (models.SchedulingProfile, error)
	AddRound(ctx context.Context, tournamentID string, req dto.AddProfileRoundRequest) (models.SchedulingProfile, error)
	Issues(ctx context.Context, tournamentID string, scheduleDates []string) (*dto.ProfileIssues, error)
	Updated(ctx context.Context, tournamentID string) (*dto.UpdatedProfile, error)
}

// ProfileHandler exposes the scheduling profile endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get returns the stored profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"schedulingProfile": profile}, nil)
}

// Set replaces the stored profile.
func (h *ProfileHandler) Set(c *gin.Context) {
	var req dto.SetProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	profile, err := h.service.Set(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"schedulingProfile": profile}, nil)
}

// AddRound appends one round selector to the profile.
func (h *ProfileHandler) AddRound(c *gin.Context) {
	var req dto.AddProfileRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid round payload"))
		return
	}
	profile, err := h.service.AddRound(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"schedulingProfile": profile}, nil)
}

// Issues reports advisory ordering problems in the stored profile.
func (h *ProfileHandler) Issues(c *gin.Context) {
	issues, err := h.service.Issues(c.Request.Context(), c.Param("id"), c.QueryArray("scheduleDates"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, nil)
}

// Updated reconciles the stored profile against current tournament ids.
func (h *ProfileHandler) Updated(c *gin.Context) {
	result, err := h.service.Updated(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
