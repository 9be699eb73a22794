package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/dto"
	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/engine/depgraph"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

type extensionWriter interface {
	SetExtension(ctx context.Context, tournamentID, name string, payload interface{}) error
}

// ProfileService manages the scheduling profile extension: the operator's
// ordered intent for which rounds get placed at which venue on which date.
type ProfileService struct {
	store      *TournamentRegistry
	extensions extensionWriter
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProfileService constructs the service. extensions may be nil.
func NewProfileService(store *TournamentRegistry, extensions extensionWriter, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{store: store, extensions: extensions, validator: validate, logger: logger}
}

// Get returns the stored profile.
func (s *ProfileService) Get(ctx context.Context, tournamentID string) (models.SchedulingProfile, error) {
	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.SchedulingProfile == nil {
		return models.SchedulingProfile{}, nil
	}
	return tournament.SchedulingProfile, nil
}

// Set replaces the stored profile.
func (s *ProfileService) Set(ctx context.Context, tournamentID string, req dto.SetProfileRequest) (models.SchedulingProfile, error) {
	for _, entry := range req.SchedulingProfile {
		if !availability.ValidDate(entry.ScheduleDate) {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "invalid profile date "+entry.ScheduleDate)
		}
	}
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		tournament.SchedulingProfile = req.SchedulingProfile
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeExtension(ctx, tournamentID, req.SchedulingProfile)
	return req.SchedulingProfile, nil
}

// AddRound validates and appends one round selector. Validation order:
// date, then selector resolution, then duplicate detection.
func (s *ProfileService) AddRound(ctx context.Context, tournamentID string, req dto.AddProfileRoundRequest) (models.SchedulingProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingValue.Code, appErrors.ErrMissingValue.Status, "scheduleDate, venueId and round are required")
	}
	if !availability.ValidDate(req.ScheduleDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "invalid schedule date "+req.ScheduleDate)
	}

	var profile models.SchedulingProfile
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		if tournament.Venue(req.VenueID) == nil {
			return appErrors.Clone(appErrors.ErrInvalidValues, "unknown venueId "+req.VenueID)
		}
		if len(allocator.ResolveRoundSelector(tournament.MatchUps, req.Round)) == 0 {
			return appErrors.Clone(appErrors.ErrInvalidValues, "round selector resolves to no matchUps")
		}

		profileDate := tournament.SchedulingProfile.Date(req.ScheduleDate)
		if profileDate == nil {
			tournament.SchedulingProfile = append(tournament.SchedulingProfile, models.ProfileDate{ScheduleDate: req.ScheduleDate})
			profileDate = &tournament.SchedulingProfile[len(tournament.SchedulingProfile)-1]
		}

		var profileVenue *models.ProfileVenue
		for i := range profileDate.Venues {
			if profileDate.Venues[i].VenueID == req.VenueID {
				profileVenue = &profileDate.Venues[i]
				break
			}
		}
		if profileVenue == nil {
			profileDate.Venues = append(profileDate.Venues, models.ProfileVenue{VenueID: req.VenueID})
			profileVenue = &profileDate.Venues[len(profileDate.Venues)-1]
		}

		for _, existing := range profileVenue.Rounds {
			if existing.Equal(req.Round) {
				return appErrors.ErrExistingRound
			}
		}
		profileVenue.Rounds = append(profileVenue.Rounds, req.Round)
		profile = tournament.SchedulingProfile
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.writeExtension(ctx, tournamentID, profile)
	return profile, nil
}

// Issues walks each date's rounds in profile order and flags rounds whose
// matchUps depend on rounds declared later. Advisory only: it does not block
// scheduling, it predicts deferrals.
func (s *ProfileService) Issues(ctx context.Context, tournamentID string, scheduleDates []string) (*dto.ProfileIssues, error) {
	if err := validDates(scheduleDates); err != nil {
		return nil, err
	}
	tournament, err := s.store.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	graph := depgraph.Build(tournament.MatchUps, tournament.Links)
	dateFilter := stringFilter(scheduleDates)

	issues := &dto.ProfileIssues{
		RoundIndexShouldBeAfter: make(map[string]map[int][]int),
		MatchUpIDShouldBeAfter:  make(map[string]map[string][]string),
	}

	for _, profileDate := range tournament.SchedulingProfile {
		if dateFilter != nil && !dateFilter[profileDate.ScheduleDate] {
			continue
		}

		// flatten the date's rounds across venues in declared order and
		// index every matchUp by the round that schedules it
		var rounds [][]*models.MatchUp
		matchUpRound := make(map[string]int)
		for _, profileVenue := range profileDate.Venues {
			for _, selector := range profileVenue.Rounds {
				matchUps := allocator.ResolveRoundSelector(tournament.MatchUps, selector)
				for _, m := range matchUps {
					matchUpRound[m.MatchUpID] = len(rounds)
				}
				rounds = append(rounds, matchUps)
			}
		}

		for index, matchUps := range rounds {
			for _, m := range matchUps {
				for prerequisiteID := range graph.Dependencies(m.MatchUpID).MatchUpIDs {
					prerequisite := tournament.MatchUp(prerequisiteID)
					if prerequisite == nil || prerequisite.MatchUpStatus.Resolved() {
						continue
					}
					laterIndex, scheduled := matchUpRound[prerequisiteID]
					if !scheduled || laterIndex <= index {
						continue
					}
					s.recordIssue(issues, profileDate.ScheduleDate, index, laterIndex, m.MatchUpID, prerequisiteID)
				}
			}
		}
	}
	return issues, nil
}

func (s *ProfileService) recordIssue(issues *dto.ProfileIssues, date string, index, laterIndex int, matchUpID, prerequisiteID string) {
	if issues.RoundIndexShouldBeAfter[date] == nil {
		issues.RoundIndexShouldBeAfter[date] = make(map[int][]int)
	}
	for _, existing := range issues.RoundIndexShouldBeAfter[date][index] {
		if existing == laterIndex {
			laterIndex = -1
			break
		}
	}
	if laterIndex >= 0 {
		issues.RoundIndexShouldBeAfter[date][index] = append(issues.RoundIndexShouldBeAfter[date][index], laterIndex)
		issues.ProfileIssues = append(issues.ProfileIssues,
			fmt.Sprintf("%s: round index %d depends on round index %d", date, index, laterIndex))
		issues.IssuesCount++
	}

	if issues.MatchUpIDShouldBeAfter[date] == nil {
		issues.MatchUpIDShouldBeAfter[date] = make(map[string][]string)
	}
	issues.MatchUpIDShouldBeAfter[date][matchUpID] = append(issues.MatchUpIDShouldBeAfter[date][matchUpID], prerequisiteID)
}

// Updated reconciles the stored profile against current venue/draw/event
// ids, dropping stale rounds and persisting when anything changed.
func (s *ProfileService) Updated(ctx context.Context, tournamentID string) (*dto.UpdatedProfile, error) {
	result := &dto.UpdatedProfile{}
	err := s.store.Mutate(ctx, tournamentID, func(tournament *models.Tournament) error {
		drawIDs := stringFilter(tournament.DrawIDs())
		eventIDs := stringFilter(tournament.EventIDs())

		var updated models.SchedulingProfile
		for _, profileDate := range tournament.SchedulingProfile {
			var venues []models.ProfileVenue
			for _, profileVenue := range profileDate.Venues {
				if tournament.Venue(profileVenue.VenueID) == nil {
					result.Modifications += len(profileVenue.Rounds)
					result.Issues = append(result.Issues,
						fmt.Sprintf("%s: dropped venue %s", profileDate.ScheduleDate, profileVenue.VenueID))
					continue
				}
				var rounds []models.RoundSelector
				for _, round := range profileVenue.Rounds {
					if drawIDs != nil && !drawIDs[round.DrawID] {
						result.Modifications++
						result.Issues = append(result.Issues,
							fmt.Sprintf("%s: dropped round for missing draw %s", profileDate.ScheduleDate, round.DrawID))
						continue
					}
					if round.EventID != "" && eventIDs != nil && !eventIDs[round.EventID] {
						result.Modifications++
						result.Issues = append(result.Issues,
							fmt.Sprintf("%s: dropped round for missing event %s", profileDate.ScheduleDate, round.EventID))
						continue
					}
					rounds = append(rounds, round)
				}
				if len(rounds) > 0 {
					profileVenue.Rounds = rounds
					venues = append(venues, profileVenue)
				}
			}
			if len(venues) > 0 {
				profileDate.Venues = venues
				updated = append(updated, profileDate)
			}
		}

		if result.Modifications > 0 {
			tournament.SchedulingProfile = updated
		}
		result.SchedulingProfile = tournament.SchedulingProfile
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Modifications > 0 {
		s.writeExtension(ctx, tournamentID, result.SchedulingProfile)
	}
	return result, nil
}

func (s *ProfileService) writeExtension(ctx context.Context, tournamentID string, profile models.SchedulingProfile) {
	if s.extensions == nil {
		return
	}
	if err := s.extensions.SetExtension(ctx, tournamentID, models.ExtensionSchedulingProfile, profile); err != nil {
		s.logger.Warn("failed to persist schedulingProfile extension",
			zap.String("tournamentId", tournamentID), zap.Error(err))
	}
}
