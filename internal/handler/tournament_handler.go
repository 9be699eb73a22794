package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
	"github.com/courtkeeper/scheduling-api/pkg/response"
)

type tournamentStore interface {
	Load(ctx context.Context, tournamentID string) (*models.Tournament, error)
	Put(ctx context.Context, tournament *models.Tournament) error
	List(ctx context.Context) ([]models.TournamentSummary, error)
	Remove(ctx context.Context, tournamentID string) error
}

// TournamentHandler exposes snapshot load/fetch endpoints. Tournament
// content comes from the draw collaborator; this surface only stores and
// returns snapshots.
type TournamentHandler struct {
	store tournamentStore
}

// NewTournamentHandler builds a new handler.
func NewTournamentHandler(store tournamentStore) *TournamentHandler {
	return &TournamentHandler{store: store}
}

// Create registers a tournament snapshot.
func (h *TournamentHandler) Create(c *gin.Context) {
	var tournament models.Tournament
	if err := c.ShouldBindJSON(&tournament); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tournament payload"))
		return
	}
	if err := h.store.Put(c.Request.Context(), &tournament); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"tournamentId": tournament.TournamentID})
}

// Get returns a stored snapshot.
func (h *TournamentHandler) Get(c *gin.Context) {
	tournament, err := h.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tournament, nil)
}

// List returns stored tournament summaries.
func (h *TournamentHandler) List(c *gin.Context) {
	summaries, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Delete removes a stored snapshot.
func (h *TournamentHandler) Delete(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
