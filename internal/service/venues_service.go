package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

type venueCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// VenuesService serves the venue/court read side and applies court
// assignments. Listings are cached per tournament and query; any court
// mutation invalidates the tournament's cached listings.
type VenuesService struct {
	store     *TournamentRegistry
	cache     venueCache
	cacheTTL  time.Duration
	metrics   cacheMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVenuesService constructs the service. cache and metrics may be nil.
func NewVenuesService(store *TournamentRegistry, cache venueCache, cacheTTL time.Duration, metrics cacheMetrics, validate *validator.Validate, logger *zap.Logger) *VenuesService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VenuesService{store: store, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// GetVenuesAndCourts lists venues with per-date court windows and free slots.
func (s *VenuesService) GetVenuesAndCourts(ctx context.Context, tournamentID string, query dto.VenuesQuery) (*dto.VenuesAndCourts, error) {
	if err := validDates(query.Dates); err != nil {
		return nil, err
	}

	key := venuesCacheKey(tournamentID, query)
	if s.cache != nil {
		var cached dto.VenuesAndCourts
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCache(true)
			return &cached, nil
		}
		s.recordCache(false)
	}

	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	requested := stringFilter(query.VenueIDs)
	result := &dto.VenuesAndCourts{Venues: []models.Venue{}}
	for _, venue := range tournament.Venues {
		if query.IgnoreDisabled && venue.Disabled {
			continue
		}
		if requested != nil && !requested[venue.VenueID] {
			continue
		}
		result.Venues = append(result.Venues, venue)
	}

	for _, date := range availability.SortedDates(query.Dates) {
		courtDates := availability.ResolveCourtDates(result.Venues, date)
		result.CourtDates = append(result.CourtDates, courtDates...)
		for _, courtDate := range courtDates {
			slots := availability.GenerateTimeSlots(courtDate)
			if len(slots) == 0 {
				continue
			}
			if result.TimeSlots == nil {
				result.TimeSlots = make(map[string][]availability.TimeSlot)
			}
			result.TimeSlots[courtDate.CourtID] = append(result.TimeSlots[courtDate.CourtID], slots...)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache venue listing", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// BulkUpdateCourtAssignments binds matchUps to courts for one day. Every
// reference is checked before any assignment is applied.
func (s *VenuesService) BulkUpdateCourtAssignments(ctx context.Context, tournamentID string, req dto.BulkCourtAssignmentsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "courtAssignments and courtDayDate are required")
	}
	if !availability.ValidDate(req.CourtDayDate) {
		return appErrors.Clone(appErrors.ErrInvalidDate, "invalid courtDayDate "+req.CourtDayDate)
	}

	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		type binding struct {
			matchUp *models.MatchUp
			venueID string
			courtID string
		}
		bindings := make([]binding, 0, len(req.CourtAssignments))
		for _, assignment := range req.CourtAssignments {
			m := tournament.MatchUp(assignment.MatchUpID)
			if m == nil {
				return appErrors.Clone(appErrors.ErrInvalidValues, "unknown matchUpId "+assignment.MatchUpID)
			}
			venue, court := tournament.Court(assignment.CourtID)
			if court == nil {
				return appErrors.Clone(appErrors.ErrCourtNotFound, "unknown courtId "+assignment.CourtID)
			}
			bindings = append(bindings, binding{matchUp: m, venueID: venue.VenueID, courtID: court.CourtID})
		}
		for _, b := range bindings {
			b.matchUp.Schedule.CourtID = b.courtID
			b.matchUp.Schedule.VenueID = b.venueID
			b.matchUp.Schedule.ScheduledDate = req.CourtDayDate
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, tournamentID)
	return nil
}

func (s *VenuesService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func (s *VenuesService) invalidate(ctx context.Context, tournamentID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("venues:%s:*", tournamentID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate venue cache", zap.String("pattern", pattern), zap.Error(err))
	}
}

func venuesCacheKey(tournamentID string, query dto.VenuesQuery) string {
	dates := append([]string(nil), query.Dates...)
	venueIDs := append([]string(nil), query.VenueIDs...)
	sort.Strings(dates)
	sort.Strings(venueIDs)
	return fmt.Sprintf("venues:%s:%t:%s:%s",
		tournamentID, query.IgnoreDisabled, strings.Join(dates, ","), strings.Join(venueIDs, ","))
}
