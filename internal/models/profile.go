package models

// RoundSegment splits one logical round's matchUps across venues for the
// same date. Segments are 1-based.
type RoundSegment struct {
	SegmentNumber int `json:"segmentNumber"`
	SegmentsCount int `json:"segmentsCount"`
}

// RoundSelector identifies a slice of matchUps for a profile round. Exactly
// one selection mode applies: literal structure round, or winner
// finishing-position range; RoundSegment optionally narrows either.
type RoundSelector struct {
	DrawID                       string        `json:"drawId"`
	EventID                      string        `json:"eventId,omitempty"`
	StructureID                  string        `json:"structureId,omitempty"`
	RoundNumber                  int           `json:"roundNumber,omitempty"`
	WinnerFinishingPositionRange *[2]int       `json:"winnerFinishingPositionRange,omitempty"`
	RoundSegment                 *RoundSegment `json:"roundSegment,omitempty"`
}

// Equal reports whether two selectors identify the same round slice.
func (r RoundSelector) Equal(other RoundSelector) bool {
	if r.DrawID != other.DrawID || r.StructureID != other.StructureID || r.RoundNumber != other.RoundNumber {
		return false
	}
	if (r.WinnerFinishingPositionRange == nil) != (other.WinnerFinishingPositionRange == nil) {
		return false
	}
	if r.WinnerFinishingPositionRange != nil && *r.WinnerFinishingPositionRange != *other.WinnerFinishingPositionRange {
		return false
	}
	if (r.RoundSegment == nil) != (other.RoundSegment == nil) {
		return false
	}
	if r.RoundSegment != nil && *r.RoundSegment != *other.RoundSegment {
		return false
	}
	return true
}

// ProfileVenue lists the rounds intended for one venue on a profile date.
type ProfileVenue struct {
	VenueID string          `json:"venueId"`
	Rounds  []RoundSelector `json:"rounds"`
}

// ProfileDate is one dated entry of the scheduling profile.
type ProfileDate struct {
	ScheduleDate string         `json:"scheduleDate"`
	Venues       []ProfileVenue `json:"venues"`
}

// SchedulingProfile is the operator-declared ordered intent for which rounds
// get placed at which venue on which date. Order is significant: it is the
// scheduling priority.
type SchedulingProfile []ProfileDate

// Date returns the profile entry for a date, if present.
func (p SchedulingProfile) Date(scheduleDate string) *ProfileDate {
	for i := range p {
		if p[i].ScheduleDate == scheduleDate {
			return &p[i]
		}
	}
	return nil
}

// Dates returns the profile's schedule dates in declared order.
func (p SchedulingProfile) Dates() []string {
	dates := make([]string, 0, len(p))
	for _, entry := range p {
		dates = append(dates, entry.ScheduleDate)
	}
	return dates
}
