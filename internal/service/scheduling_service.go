package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/engine/booking"
	"github.com/courtkeeper/scheduling-api/internal/engine/depgraph"
	"github.com/courtkeeper/scheduling-api/internal/models"
	"github.com/courtkeeper/scheduling-api/pkg/config"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

type schedulerMetrics interface {
	ObserveSchedulerRun(strategy string, scheduled, deferred, iterations int)
}

// SchedulingService runs the allocator over stored snapshots and exposes the
// derived views (dependencies, bookings) around it.
type SchedulingService struct {
	store   *TournamentRegistry
	metrics schedulerMetrics
	logger  *zap.Logger
	config  config.SchedulerConfig
}

// NewSchedulingService constructs the service. metrics may be nil.
func NewSchedulingService(store *TournamentRegistry, metrics schedulerMetrics, logger *zap.Logger, cfg config.SchedulerConfig) *SchedulingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulingService{store: store, metrics: metrics, logger: logger, config: cfg}
}

// Run executes scheduleProfileRounds for one tournament.
func (s *SchedulingService) Run(ctx context.Context, tournamentID string, req dto.RunSchedulingRequest) (*allocator.Result, error) {
	if err := validDates(req.ScheduleDates); err != nil {
		return nil, err
	}

	garmanSinglePass := true
	if req.GarmanSinglePass != nil {
		garmanSinglePass = *req.GarmanSinglePass
	}
	strategy := allocator.Select(req.Pro, garmanSinglePass)

	var result *allocator.Result
	run := func(tournament *models.Tournament) error {
		request := allocator.Request{
			Tournament:         tournament,
			ScheduleDates:      req.ScheduleDates,
			Strategy:           strategy,
			DryRun:             req.DryRun,
			ClearScheduleDates: req.ClearScheduleDates,
			PeriodLength:       s.config.PeriodLength,
			Defaults: allocator.Timing{
				AverageMinutes:  s.config.AverageMinutes,
				RecoveryMinutes: s.config.RecoveryMinutes,
			},
			MaxIterations: s.config.MaxIterations,
		}
		var err error
		result, err = allocator.Run(request, s.logger)
		return err
	}

	var err error
	if req.DryRun {
		// dry runs never touch the snapshot, so a shared read suffices
		tournament, loadErr := s.store.Load(ctx, tournamentID)
		if loadErr != nil {
			return nil, loadErr
		}
		err = run(tournament)
	} else {
		err = s.store.Mutate(ctx, tournamentID, run)
	}
	if err != nil {
		return nil, err
	}

	s.observe(strategy.Name, result)
	s.logger.Info("scheduling run complete",
		zap.String("tournamentId", tournamentID),
		zap.String("strategy", strategy.Name),
		zap.Bool("dryRun", req.DryRun),
		zap.Strings("dates", result.ScheduledDates),
	)
	return result, nil
}

// MatchUpDependencies builds the dependency graph, optionally narrowed to a
// set of drawIds.
func (s *SchedulingService) MatchUpDependencies(ctx context.Context, tournamentID string, drawIDs []string) (depgraph.Graph, error) {
	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matchUps := tournament.MatchUps
	if len(drawIDs) > 0 {
		requested := make(map[string]bool, len(drawIDs))
		for _, drawID := range drawIDs {
			requested[drawID] = true
		}
		matchUps = nil
		for _, m := range tournament.MatchUps {
			if requested[m.DrawID] {
				matchUps = append(matchUps, m)
			}
		}
		if len(matchUps) == 0 {
			return nil, appErrors.Clone(appErrors.ErrInvalidValues, "no matchUps for requested drawIds")
		}
	}
	return depgraph.Build(matchUps, tournament.Links), nil
}

// ClearScheduledMatchUps resets schedule fields, optionally narrowed to
// dates and venues.
func (s *SchedulingService) ClearScheduledMatchUps(ctx context.Context, tournamentID string, req dto.ClearScheduleRequest) (*dto.ClearScheduleResult, error) {
	if err := validDates(req.ScheduledDates); err != nil {
		return nil, err
	}
	dates := stringFilter(req.ScheduledDates)
	venues := stringFilter(req.VenueIDs)

	result := &dto.ClearScheduleResult{ClearedMatchUpIDs: []string{}}
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		for _, m := range tournament.MatchUps {
			if m.Schedule == (models.Schedule{}) {
				continue
			}
			if dates != nil && !dates[m.Schedule.ScheduledDate] {
				continue
			}
			if venues != nil && !venues[m.Schedule.VenueID] {
				continue
			}
			m.Schedule.Clear()
			result.ClearedMatchUpIDs = append(result.ClearedMatchUpIDs, m.MatchUpID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Bookings projects scheduled matchUps into court bookings, optionally
// resolving virtual placements onto physical courts per date.
func (s *SchedulingService) Bookings(ctx context.Context, tournamentID string, req dto.BookingsRequest) (*dto.BookingsResult, error) {
	if err := validDates(req.Dates); err != nil {
		return nil, err
	}
	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	lookup := allocator.NewTimingLookup(tournament.ScheduleTiming, allocator.Timing{
		AverageMinutes:  s.config.AverageMinutes,
		RecoveryMinutes: s.config.RecoveryMinutes,
	})
	bookings := booking.GenerateBookings(tournament, lookup, req.Dates, req.VenueIDs)
	if !req.ResolveVirtual {
		return &dto.BookingsResult{Bookings: bookings}, nil
	}

	byDate := make(map[string][]booking.Booking)
	var dates []string
	for _, b := range bookings {
		if _, ok := byDate[b.Date]; !ok {
			dates = append(dates, b.Date)
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	result := &dto.BookingsResult{}
	for _, date := range availability.SortedDates(dates) {
		courtDates := availability.ResolveCourtDates(tournament.Venues, date)
		resolved := booking.GenerateVirtualCourts(byDate[date], courtDates, s.logger)
		result.Bookings = append(result.Bookings, resolved.Bookings...)
		result.Overlaps = append(result.Overlaps, resolved.Overlaps...)
	}
	return result, nil
}

func (s *SchedulingService) observe(strategy string, result *allocator.Result) {
	if s.metrics == nil || result == nil {
		return
	}
	scheduled, deferred := 0, 0
	for _, ids := range result.ScheduledMatchUpIDs {
		scheduled += len(ids)
	}
	for _, ids := range result.NoTimeMatchUpIDs {
		deferred += len(ids)
	}
	for _, ids := range result.OverLimitMatchUpIDs {
		deferred += len(ids)
	}
	s.metrics.ObserveSchedulerRun(strategy, scheduled, deferred, result.Iterations)
}

func validDates(dates []string) error {
	for _, date := range dates {
		if !availability.ValidDate(date) {
			return appErrors.Clone(appErrors.ErrInvalidDate, "invalid date "+date)
		}
	}
	return nil
}

func stringFilter(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	filter := make(map[string]bool, len(values))
	for _, value := range values {
		filter[value] = true
	}
	return filter
}
