package models

// MatchUpType distinguishes singles, doubles and team matchUps for
// daily-limit accounting.
type MatchUpType string

const (
	Singles MatchUpType = "SINGLES"
	Doubles MatchUpType = "DOUBLES"
	Team    MatchUpType = "TEAM"
)

// MatchUpStatus is the minimal status vocabulary the scheduler consults.
// Score entry owns the full state machine; the scheduler only needs to know
// whether a matchUp is schedulable, in play, or resolved.
type MatchUpStatus string

const (
	StatusToBePlayed MatchUpStatus = "TO_BE_PLAYED"
	StatusBye        MatchUpStatus = "BYE"
	StatusInProgress MatchUpStatus = "IN_PROGRESS"
	StatusSuspended  MatchUpStatus = "SUSPENDED"
	StatusCompleted  MatchUpStatus = "COMPLETED"
	StatusWalkover   MatchUpStatus = "WALKOVER"
	StatusDefaulted  MatchUpStatus = "DEFAULTED"
)

// Resolved reports whether the status terminates the matchUp, making it a
// satisfied dependency for downstream matchUps.
func (s MatchUpStatus) Resolved() bool {
	switch s {
	case StatusBye, StatusCompleted, StatusWalkover, StatusDefaulted:
		return true
	}
	return false
}

// ActiveStatus reports whether the status implies play has started, which
// requires participants to be assigned.
func (s MatchUpStatus) ActiveStatus() bool {
	return s == StatusInProgress || s == StatusSuspended
}

// Schedule is the mutable scheduling sub-record of a matchUp. Times are
// "HH:MM" clock strings, dates "YYYY-MM-DD". Fields advance through
// UNSCHEDULED -> time assigned -> court assigned -> in progress -> completed
// and are cleared (never deleted) by schedule-clear operations.
type Schedule struct {
	ScheduledDate string `json:"scheduledDate,omitempty"`
	ScheduledTime string `json:"scheduledTime,omitempty"`
	VenueID       string `json:"venueId,omitempty"`
	CourtID       string `json:"courtId,omitempty"`
	CourtOrder    int    `json:"courtOrder,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	StopTime      string `json:"stopTime,omitempty"`
	ResumeTime    string `json:"resumeTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
}

// TimeAssigned reports whether a scheduled time has been allocated.
func (s Schedule) TimeAssigned() bool {
	return s.ScheduledDate != "" && s.ScheduledTime != ""
}

// Clear resets every schedule field, returning the matchUp to UNSCHEDULED.
func (s *Schedule) Clear() {
	*s = Schedule{}
}

// FinishingPositionRange describes the final standings attainable from a
// matchUp, used as an alternate round selector.
type FinishingPositionRange struct {
	Winner [2]int `json:"winner"`
	Loser  [2]int `json:"loser"`
}

// Side is one side of a matchUp with its individual participants.
type Side struct {
	SideNumber               int      `json:"sideNumber"`
	ParticipantID            string   `json:"participantId,omitempty"`
	IndividualParticipantIDs []string `json:"individualParticipantIds,omitempty"`
}

// Persons returns the individual participant ids of the side, falling back
// to the side participant when no individuals are listed.
func (s Side) Persons() []string {
	if len(s.IndividualParticipantIDs) > 0 {
		return s.IndividualParticipantIDs
	}
	if s.ParticipantID != "" {
		return []string{s.ParticipantID}
	}
	return nil
}

// MatchUp is one schedulable contest. Created by the draw generation
// collaborator; this subsystem mutates only Schedule, MatchUpStatus and
// WinningSide.
type MatchUp struct {
	MatchUpID              string                  `json:"matchUpId"`
	EventID                string                  `json:"eventId,omitempty"`
	DrawID                 string                  `json:"drawId"`
	StructureID            string                  `json:"structureId"`
	RoundNumber            int                     `json:"roundNumber"`
	RoundPosition          int                     `json:"roundPosition"`
	FinishingPositionRange *FinishingPositionRange `json:"finishingPositionRange,omitempty"`
	MatchUpType            MatchUpType             `json:"matchUpType"`
	MatchUpFormat          string                  `json:"matchUpFormat,omitempty"`
	MatchUpStatus          MatchUpStatus           `json:"matchUpStatus"`
	WinningSide            int                     `json:"winningSide,omitempty"`
	CategoryType           string                  `json:"categoryType,omitempty"`
	Schedule               Schedule                `json:"schedule"`
	Sides                  []Side                  `json:"sides,omitempty"`
}

// Persons returns all individual participant ids across both sides.
func (m *MatchUp) Persons() []string {
	var persons []string
	for _, side := range m.Sides {
		persons = append(persons, side.Persons()...)
	}
	return persons
}

// HasParticipants reports whether at least one side has a participant.
func (m *MatchUp) HasParticipants() bool {
	for _, side := range m.Sides {
		if len(side.Persons()) > 0 {
			return true
		}
	}
	return false
}

// Schedulable reports whether the allocator may assign a time to the
// matchUp. BYE placeholders and resolved matchUps are never scheduled.
func (m *MatchUp) Schedulable() bool {
	return !m.MatchUpStatus.Resolved()
}

// StructureLink is a declared source -> target link between structures
// (compass, feed-in, playoff and round-robin-to-elimination references).
// Supplied by the draw collaborator; consumed by the dependency graph
// builder.
type StructureLink struct {
	DrawID            string `json:"drawId"`
	SourceStructureID string `json:"sourceStructureId"`
	TargetStructureID string `json:"targetStructureId"`
	SourceRoundNumber int    `json:"sourceRoundNumber,omitempty"`
	TargetRoundNumber int    `json:"targetRoundNumber,omitempty"`
	LinkType          string `json:"linkType,omitempty"`
}
