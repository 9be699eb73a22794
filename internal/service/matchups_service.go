package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

// MatchUpsService applies direct (non-allocator) matchUp mutations: bulk
// schedule assignment, status transitions and outcomes.
type MatchUpsService struct {
	store     *TournamentRegistry
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMatchUpsService constructs the service.
func NewMatchUpsService(store *TournamentRegistry, validate *validator.Validate, logger *zap.Logger) *MatchUpsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchUpsService{store: store, validator: validate, logger: logger}
}

// BulkSchedule applies one schedule to a set of matchUps. Validation runs
// over the whole set before any mutation, so a bad reference leaves every
// matchUp untouched. BYE matchUps are skipped unless scheduleByeMatchUps.
func (s *MatchUpsService) BulkSchedule(ctx context.Context, tournamentID string, req dto.BulkScheduleRequest) (*dto.BulkScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "matchUpContextIds and schedule are required")
	}
	if req.Schedule.ScheduledDate != "" && !availability.ValidDate(req.Schedule.ScheduledDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "invalid scheduledDate "+req.Schedule.ScheduledDate)
	}
	if req.Schedule.ScheduledTime != "" && availability.TimeToMinutes(req.Schedule.ScheduledTime) < 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidValues, "invalid scheduledTime "+req.Schedule.ScheduledTime)
	}

	result := &dto.BulkScheduleResult{ScheduledMatchUpIDs: []string{}}
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		targets := make([]*models.MatchUp, 0, len(req.MatchUpContextIDs))
		for _, contextID := range req.MatchUpContextIDs {
			m := tournament.MatchUp(contextID.MatchUpID)
			if m == nil {
				return appErrors.Clone(appErrors.ErrInvalidValues, "unknown matchUpId "+contextID.MatchUpID)
			}
			if contextID.DrawID != "" && m.DrawID != contextID.DrawID {
				return appErrors.Clone(appErrors.ErrInvalidValues, "matchUpId "+contextID.MatchUpID+" does not belong to draw "+contextID.DrawID)
			}
			if req.Schedule.VenueID != "" && tournament.Venue(req.Schedule.VenueID) == nil {
				return appErrors.Clone(appErrors.ErrInvalidValues, "unknown venueId "+req.Schedule.VenueID)
			}
			targets = append(targets, m)
		}

		for _, m := range targets {
			if m.MatchUpStatus == models.StatusBye && !req.ScheduleByeMatchUps {
				result.SkippedMatchUpIDs = append(result.SkippedMatchUpIDs, m.MatchUpID)
				continue
			}
			mergeSchedule(&m.Schedule, req.Schedule)
			result.ScheduledMatchUpIDs = append(result.ScheduledMatchUpIDs, m.MatchUpID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus transitions one matchUp's status. Active statuses require
// participants on at least one side.
func (s *MatchUpsService) UpdateStatus(ctx context.Context, tournamentID string, req dto.MatchUpStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "matchUpId and matchUpStatus are required")
	}
	return s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		m := tournament.MatchUp(req.MatchUpID)
		if m == nil {
			return appErrors.Clone(appErrors.ErrInvalidValues, "unknown matchUpId "+req.MatchUpID)
		}
		if req.MatchUpStatus.ActiveStatus() && !m.HasParticipants() {
			return appErrors.Clone(appErrors.ErrInvalidMatchUpStatus, "cannot activate a matchUp without participants")
		}
		m.MatchUpStatus = req.MatchUpStatus
		return nil
	})
}

// SetWinningSide records the outcome and completes the matchUp. A different
// outcome already recorded is rejected.
func (s *MatchUpsService) SetWinningSide(ctx context.Context, tournamentID string, req dto.WinningSideRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "matchUpId and winningSide are required")
	}
	return s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		m := tournament.MatchUp(req.MatchUpID)
		if m == nil {
			return appErrors.Clone(appErrors.ErrInvalidValues, "unknown matchUpId "+req.MatchUpID)
		}
		if m.WinningSide != 0 && m.WinningSide != req.WinningSide {
			return appErrors.ErrCannotChangeWinningSide
		}
		m.WinningSide = req.WinningSide
		m.MatchUpStatus = models.StatusCompleted
		return nil
	})
}

// mergeSchedule copies the non-empty fields of src over dst, so bulk
// operations can set a date without clobbering an assigned court.
func mergeSchedule(dst *models.Schedule, src models.Schedule) {
	if src.ScheduledDate != "" {
		dst.ScheduledDate = src.ScheduledDate
	}
	if src.ScheduledTime != "" {
		dst.ScheduledTime = src.ScheduledTime
	}
	if src.VenueID != "" {
		dst.VenueID = src.VenueID
	}
	if src.CourtID != "" {
		dst.CourtID = src.CourtID
	}
	if src.CourtOrder != 0 {
		dst.CourtOrder = src.CourtOrder
	}
	if src.StartTime != "" {
		dst.StartTime = src.StartTime
	}
	if src.StopTime != "" {
		dst.StopTime = src.StopTime
	}
	if src.ResumeTime != "" {
		dst.ResumeTime = src.ResumeTime
	}
	if src.EndTime != "" {
		dst.EndTime = src.EndTime
	}
}
