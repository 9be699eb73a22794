package dto

import "github.com/courtkeeper/scheduling-api/internal/models"

// RunSchedulingRequest triggers a scheduling pass over the stored profile.
type RunSchedulingRequest struct {
	ScheduleDates      []string `json:"scheduleDates,omitempty"`
	Pro                bool     `json:"pro,omitempty"`
	DryRun             bool     `json:"dryRun,omitempty"`
	GarmanSinglePass   *bool    `json:"garmanSinglePass,omitempty"`
	ClearScheduleDates bool     `json:"clearScheduleDates,omitempty"`
}

// AddProfileRoundRequest appends one round selector to the profile.
type AddProfileRoundRequest struct {
	ScheduleDate string               `json:"scheduleDate" validate:"required"`
	VenueID      string               `json:"venueId" validate:"required"`
	Round        models.RoundSelector `json:"round" validate:"required"`
}

// SetProfileRequest replaces the stored scheduling profile.
type SetProfileRequest struct {
	SchedulingProfile models.SchedulingProfile `json:"schedulingProfile" validate:"required"`
}

// ProfileIssues reports advisory ordering problems in the stored profile.
// Round indexes count rounds across a date's venues in declared order.
type ProfileIssues struct {
	RoundIndexShouldBeAfter map[string]map[int][]int       `json:"roundIndexShouldBeAfter"`
	MatchUpIDShouldBeAfter  map[string]map[string][]string `json:"matchUpIdShouldBeAfter"`
	ProfileIssues           []string                       `json:"profileIssues,omitempty"`
	IssuesCount             int                            `json:"issuesCount"`
}

// UpdatedProfile is the reconciliation result: the profile with stale rounds
// dropped, plus what changed.
type UpdatedProfile struct {
	SchedulingProfile models.SchedulingProfile `json:"schedulingProfile"`
	Modifications     int                      `json:"modifications"`
	Issues            []string                 `json:"issues,omitempty"`
}

// DailyLimitsRequest sets the per-participant daily caps.
type DailyLimitsRequest struct {
	DailyLimits *models.MatchUpDailyLimits `json:"dailyLimits" validate:"required"`
}

// ClearScheduleRequest wipes schedule fields, optionally narrowed to dates.
type ClearScheduleRequest struct {
	ScheduledDates []string `json:"scheduledDates,omitempty"`
	VenueIDs       []string `json:"venueIds,omitempty"`
}

// ClearScheduleResult reports how many matchUps were reset.
type ClearScheduleResult struct {
	ClearedMatchUpIDs []string `json:"clearedMatchUpIds"`
}

// BookingsRequest projects scheduled matchUps into court bookings.
type BookingsRequest struct {
	Dates    []string `json:"dates,omitempty"`
	VenueIDs []string `json:"venueIds,omitempty"`
	// ResolveVirtual assigns concrete courts to time-only bookings.
	ResolveVirtual bool `json:"resolveVirtual,omitempty"`
}
