package allocator

import (
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
)

// ParticipantProfile is the scheduler's working state for one individual
// participant on the date being scheduled. It is reported in results but
// never persisted.
type ParticipantProfile struct {
	Counters map[models.MatchUpType]int `json:"counters"`
	// TimeAfterRecovery is the end of the participant's latest scheduled
	// match plus recovery, as "HH:MM"; empty when nothing is scheduled.
	TimeAfterRecovery string `json:"timeAfterRecovery,omitempty"`
	// PotentialRecovery carries speculative recovery times for bracket
	// paths the participant might advance along.
	PotentialRecovery []string `json:"potentialRecovery,omitempty"`

	intervals []Interval
}

func newParticipantProfile() *ParticipantProfile {
	return &ParticipantProfile{Counters: make(map[models.MatchUpType]int)}
}

// participantState tracks all participant profiles for one schedule date.
type participantState map[string]*ParticipantProfile

func (s participantState) profile(personID string) *ParticipantProfile {
	if profile, ok := s[personID]; ok {
		return profile
	}
	profile := newParticipantProfile()
	s[personID] = profile
	return profile
}

// overLimit reports whether placing the matchUp would push any participant
// over the daily caps.
func (s participantState) overLimit(m *models.MatchUp, limits *models.MatchUpDailyLimits) bool {
	if limits == nil {
		return false
	}
	for _, personID := range m.Persons() {
		profile := s.profile(personID)
		if limit := limits.LimitFor(m.MatchUpType); limit != nil && profile.Counters[m.MatchUpType]+1 > *limit {
			return true
		}
		if limits.Total != nil {
			total := 0
			for _, count := range profile.Counters {
				total += count
			}
			if total+1 > *limits.Total {
				return true
			}
		}
	}
	return false
}

// conflicts reports whether the candidate interval overlaps any
// participant's already-placed intervals.
func (s participantState) conflicts(persons []string, candidate Interval) bool {
	for _, personID := range persons {
		for _, placed := range s.profile(personID).intervals {
			if AnalyzeScheduleOverlap(candidate, placed) {
				return true
			}
		}
	}
	return false
}

// place commits the matchUp's interval against every participant.
func (s participantState) place(m *models.MatchUp, candidate Interval) {
	after := availability.MinutesToTime(candidate.TimeAfterRecovery)
	for _, personID := range m.Persons() {
		profile := s.profile(personID)
		profile.Counters[m.MatchUpType]++
		profile.intervals = append(profile.intervals, candidate)
		if profile.TimeAfterRecovery == "" || availability.TimeToMinutes(profile.TimeAfterRecovery) < candidate.TimeAfterRecovery {
			profile.TimeAfterRecovery = after
		}
	}
}

// notePotential records a speculative recovery time for participants who
// might advance out of the placed matchUp.
func (s participantState) notePotential(m *models.MatchUp, timeAfterRecovery int) {
	after := availability.MinutesToTime(timeAfterRecovery)
	for _, personID := range m.Persons() {
		profile := s.profile(personID)
		profile.PotentialRecovery = append(profile.PotentialRecovery, after)
	}
}
