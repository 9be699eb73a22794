package models

import "time"

// Extension names persisted on the tournament record.
const (
	ExtensionSchedulingProfile = "schedulingProfile"
	ExtensionPersonRequests    = "personRequests"
	ExtensionDailyLimits       = "matchUpDailyLimits"
	ExtensionScheduleTiming    = "scheduleTiming"
)

// MatchUpFormatTiming overrides average/recovery minutes for a matchUp
// format, optionally narrowed to a category type. Stored as the
// scheduleTiming extension at tournament or event level.
type MatchUpFormatTiming struct {
	MatchUpFormat   string `json:"matchUpFormat,omitempty"`
	CategoryType    string `json:"categoryType,omitempty"`
	AverageMinutes  int    `json:"averageMinutes,omitempty"`
	RecoveryMinutes int    `json:"recoveryMinutes,omitempty"`
}

// ScheduleTiming is the timing override extension payload.
type ScheduleTiming struct {
	Tournament []MatchUpFormatTiming            `json:"tournament,omitempty"`
	Events     map[string][]MatchUpFormatTiming `json:"events,omitempty"`
}

// Event groups draws; the scheduler only needs ids for profile
// reconciliation and event-level timing overrides.
type Event struct {
	EventID   string   `json:"eventId"`
	EventName string   `json:"eventName,omitempty"`
	DrawIDs   []string `json:"drawIds,omitempty"`
}

// Tournament is the in-memory snapshot the scheduler transforms. MatchUps
// arrive flat from the draw collaborator with round/position/link metadata;
// the scheduler mutates schedule fields in place and persists extensions
// through the repository at call boundaries.
type Tournament struct {
	TournamentID   string          `json:"tournamentId"`
	TournamentName string          `json:"tournamentName,omitempty"`
	StartDate      string          `json:"startDate,omitempty"`
	EndDate        string          `json:"endDate,omitempty"`
	Venues         []Venue         `json:"venues,omitempty"`
	Events         []Event         `json:"events,omitempty"`
	MatchUps       []*MatchUp      `json:"matchUps,omitempty"`
	Links          []StructureLink `json:"links,omitempty"`

	SchedulingProfile SchedulingProfile   `json:"schedulingProfile,omitempty"`
	PersonRequests    PersonRequests      `json:"personRequests,omitempty"`
	DailyLimits       *MatchUpDailyLimits `json:"matchUpDailyLimits,omitempty"`
	ScheduleTiming    *ScheduleTiming     `json:"scheduleTiming,omitempty"`
}

// TournamentSummary is the listing projection of a stored tournament.
type TournamentSummary struct {
	TournamentID   string    `db:"tournament_id" json:"tournamentId"`
	TournamentName string    `db:"tournament_name" json:"tournamentName,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// MatchUp returns the matchUp with the given id.
func (t *Tournament) MatchUp(matchUpID string) *MatchUp {
	for _, m := range t.MatchUps {
		if m.MatchUpID == matchUpID {
			return m
		}
	}
	return nil
}

// Venue returns the venue with the given id.
func (t *Tournament) Venue(venueID string) *Venue {
	for i := range t.Venues {
		if t.Venues[i].VenueID == venueID {
			return &t.Venues[i]
		}
	}
	return nil
}

// Court locates a court across all venues, returning its owning venue.
func (t *Tournament) Court(courtID string) (*Venue, *Court) {
	for i := range t.Venues {
		if court := t.Venues[i].Court(courtID); court != nil {
			return &t.Venues[i], court
		}
	}
	return nil, nil
}

// DrawIDs returns the distinct draw ids present in the snapshot.
func (t *Tournament) DrawIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range t.MatchUps {
		if m.DrawID != "" && !seen[m.DrawID] {
			seen[m.DrawID] = true
			ids = append(ids, m.DrawID)
		}
	}
	return ids
}

// EventIDs returns the distinct event ids present in the snapshot.
func (t *Tournament) EventIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range t.Events {
		if !seen[e.EventID] {
			seen[e.EventID] = true
			ids = append(ids, e.EventID)
		}
	}
	for _, m := range t.MatchUps {
		if m.EventID != "" && !seen[m.EventID] {
			seen[m.EventID] = true
			ids = append(ids, m.EventID)
		}
	}
	return ids
}
