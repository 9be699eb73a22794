package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

// RequestsService manages per-person scheduling constraints and daily
// matchUp limits, both persisted as tournament extensions.
type RequestsService struct {
	store      *TournamentRegistry
	extensions extensionWriter
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewRequestsService constructs the service. extensions may be nil.
func NewRequestsService(store *TournamentRegistry, extensions extensionWriter, validate *validator.Validate, logger *zap.Logger) *RequestsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestsService{store: store, extensions: extensions, validator: validate, logger: logger}
}

// GetPersonRequests returns the stored requests keyed by person.
func (s *RequestsService) GetPersonRequests(ctx context.Context, tournamentID string) (models.PersonRequests, error) {
	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.PersonRequests == nil {
		return models.PersonRequests{}, nil
	}
	return tournament.PersonRequests, nil
}

// AddPersonRequests appends constraint windows. Each request gets a
// generated requestId; requestType defaults to DO_NOT_SCHEDULE.
func (s *RequestsService) AddPersonRequests(ctx context.Context, tournamentID string, payload dto.PersonRequestsPayload) (models.PersonRequests, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "requests are required")
	}
	if err := s.validateRequests(payload.Requests); err != nil {
		return nil, err
	}

	var requests models.PersonRequests
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		if tournament.PersonRequests == nil {
			tournament.PersonRequests = models.PersonRequests{}
		}
		for _, request := range payload.Requests {
			if request.RequestID == "" {
				request.RequestID = uuid.New().String()
			}
			if request.RequestType == "" {
				request.RequestType = models.DoNotSchedule
			}
			tournament.PersonRequests[request.PersonID] = append(tournament.PersonRequests[request.PersonID], request)
		}
		requests = tournament.PersonRequests
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeRequestsExtension(ctx, tournamentID, requests)
	return requests, nil
}

// ModifyPersonRequests replaces stored requests matched by requestId.
// Requests without a stored counterpart are added.
func (s *RequestsService) ModifyPersonRequests(ctx context.Context, tournamentID string, payload dto.PersonRequestsPayload) (models.PersonRequests, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "requests are required")
	}
	if err := s.validateRequests(payload.Requests); err != nil {
		return nil, err
	}

	var requests models.PersonRequests
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		if tournament.PersonRequests == nil {
			tournament.PersonRequests = models.PersonRequests{}
		}
		for _, request := range payload.Requests {
			if request.RequestType == "" {
				request.RequestType = models.DoNotSchedule
			}
			stored := tournament.PersonRequests[request.PersonID]
			replaced := false
			if request.RequestID != "" {
				for i := range stored {
					if stored[i].RequestID == request.RequestID {
						stored[i] = request
						replaced = true
						break
					}
				}
			}
			if !replaced {
				if request.RequestID == "" {
					request.RequestID = uuid.New().String()
				}
				stored = append(stored, request)
			}
			tournament.PersonRequests[request.PersonID] = stored
		}
		requests = tournament.PersonRequests
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeRequestsExtension(ctx, tournamentID, requests)
	return requests, nil
}

// RemovePersonRequests drops windows for the named persons. Dates and
// requestType narrow the removal; empty filters remove everything for the
// person.
func (s *RequestsService) RemovePersonRequests(ctx context.Context, tournamentID string, payload dto.RemovePersonRequestsPayload) (models.PersonRequests, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "personIds are required")
	}
	if err := validDates(payload.Dates); err != nil {
		return nil, err
	}
	dates := stringFilter(payload.Dates)

	var requests models.PersonRequests
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		for _, personID := range payload.PersonIDs {
			stored, ok := tournament.PersonRequests[personID]
			if !ok {
				continue
			}
			var kept []models.PersonRequest
			for _, request := range stored {
				if dates != nil && !dates[request.Date] {
					kept = append(kept, request)
					continue
				}
				if payload.RequestType != "" && request.RequestType != payload.RequestType {
					kept = append(kept, request)
					continue
				}
			}
			if len(kept) == 0 {
				delete(tournament.PersonRequests, personID)
			} else {
				tournament.PersonRequests[personID] = kept
			}
		}
		requests = tournament.PersonRequests
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeRequestsExtension(ctx, tournamentID, requests)
	return requests, nil
}

// SetDailyLimits replaces the per-participant daily caps.
func (s *RequestsService) SetDailyLimits(ctx context.Context, tournamentID string, req dto.DailyLimitsRequest) (*models.MatchUpDailyLimits, error) {
	if req.DailyLimits == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidObject, "dailyLimits is required")
	}
	for _, limit := range []*int{req.DailyLimits.Singles, req.DailyLimits.Doubles, req.DailyLimits.Total} {
		if limit != nil && *limit < 0 {
			return nil, appErrors.Clone(appErrors.ErrInvalidObject, "daily limits must be non-negative")
		}
	}

	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		tournament.DailyLimits = req.DailyLimits
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.extensions != nil {
		if err := s.extensions.SetExtension(ctx, tournamentID, models.ExtensionDailyLimits, req.DailyLimits); err != nil {
			s.logger.Warn("failed to persist matchUpDailyLimits extension",
				zap.String("tournamentId", tournamentID), zap.Error(err))
		}
	}
	return req.DailyLimits, nil
}

func (s *RequestsService) validateRequests(requests []models.PersonRequest) error {
	for _, request := range requests {
		if request.PersonID == "" {
			return appErrors.Clone(appErrors.ErrMissingValue, "personId is required")
		}
		if !availability.ValidDate(request.Date) {
			return appErrors.Clone(appErrors.ErrInvalidDate, "invalid request date "+request.Date)
		}
		if availability.TimeToMinutes(request.StartTime) < 0 || availability.TimeToMinutes(request.EndTime) < 0 {
			return appErrors.Clone(appErrors.ErrInvalidValues, "invalid request time window")
		}
	}
	return nil
}

func (s *RequestsService) writeRequestsExtension(ctx context.Context, tournamentID string, requests models.PersonRequests) {
	if s.extensions == nil {
		return
	}
	if err := s.extensions.SetExtension(ctx, tournamentID, models.ExtensionPersonRequests, requests); err != nil {
		s.logger.Warn("failed to persist personRequests extension",
			zap.String("tournamentId", tournamentID), zap.Error(err))
	}
}
