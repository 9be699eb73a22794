package models

// BookingType classifies what occupies a court interval.
const (
	BookingMatchUp     = "matchUp"
	BookingPractice    = "practice"
	BookingMaintenance = "maintenance"
)

// Booking occupies part of a court's availability window.
type Booking struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	BookingType string `json:"bookingType"`
	MatchUpID   string `json:"matchUpId,omitempty"`
}

// DateAvailability is one open-hours window for a court. An entry without a
// date is the default recurring window; dated entries override it.
type DateAvailability struct {
	Date      string    `json:"date,omitempty"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

// Court belongs to a venue and carries ordered availability windows.
type Court struct {
	CourtID          string             `json:"courtId"`
	CourtName        string             `json:"courtName,omitempty"`
	DateAvailability []DateAvailability `json:"dateAvailability,omitempty"`
}

// AvailabilityForDate resolves the effective window for a date: the dated
// entry when present, otherwise the default entry.
func (c *Court) AvailabilityForDate(date string) *DateAvailability {
	var fallback *DateAvailability
	for i := range c.DateAvailability {
		entry := &c.DateAvailability[i]
		if entry.Date == date {
			return entry
		}
		if entry.Date == "" && fallback == nil {
			fallback = entry
		}
	}
	return fallback
}

// Venue owns a set of courts. Disabled venues are excluded from allocation
// when callers filter them out.
type Venue struct {
	VenueID   string  `json:"venueId"`
	VenueName string  `json:"venueName,omitempty"`
	Disabled  bool    `json:"disabled,omitempty"`
	Courts    []Court `json:"courts,omitempty"`
}

// Court returns the venue court with the given id.
func (v *Venue) Court(courtID string) *Court {
	for i := range v.Courts {
		if v.Courts[i].CourtID == courtID {
			return &v.Courts[i]
		}
	}
	return nil
}
