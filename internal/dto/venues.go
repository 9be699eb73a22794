package dto

import (
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
)

// VenuesQuery filters the venue/court listing.
type VenuesQuery struct {
	IgnoreDisabled bool     `json:"ignoreDisabled,omitempty" form:"ignoreDisabled"`
	Dates          []string `json:"dates,omitempty" form:"dates"`
	VenueIDs       []string `json:"venueIds,omitempty" form:"venueIds"`
}

// VenuesAndCourts is the listing response: venues plus their resolved
// per-date court windows when dates were requested.
type VenuesAndCourts struct {
	Venues     []models.Venue                     `json:"venues"`
	CourtDates []availability.CourtDate           `json:"courtDates,omitempty"`
	TimeSlots  map[string][]availability.TimeSlot `json:"timeSlots,omitempty"`
}
