package allocator

import (
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
)

// Interval is a half-open [ScheduleTime, TimeAfterRecovery) span in minutes
// after midnight.
type Interval struct {
	ScheduleTime      int
	TimeAfterRecovery int
}

// AnalyzeScheduleOverlap reports whether two half-open intervals intersect.
// Used both for same-participant conflicts and court double-booking checks.
func AnalyzeScheduleOverlap(candidate, booking Interval) bool {
	return candidate.ScheduleTime < booking.TimeAfterRecovery &&
		booking.ScheduleTime < candidate.TimeAfterRecovery
}

// RequestConflict records a DO_NOT_SCHEDULE window that blocked a candidate
// placement.
type RequestConflict struct {
	PersonID     string `json:"personId"`
	MatchUpID    string `json:"matchUpId"`
	ScheduleTime string `json:"scheduleTime"`
}

// blackouts indexes DO_NOT_SCHEDULE windows per person for one date.
type blackouts map[string][]Interval

func buildBlackouts(requests models.PersonRequests, date string) blackouts {
	windows := make(blackouts)
	for personID, personRequests := range requests {
		for _, request := range personRequests {
			if request.RequestType != models.DoNotSchedule || request.Date != date {
				continue
			}
			start := availability.TimeToMinutes(request.StartTime)
			end := availability.TimeToMinutes(request.EndTime)
			if start < 0 || end <= start {
				continue
			}
			windows[personID] = append(windows[personID], Interval{start, end})
		}
	}
	return windows
}

// blocked returns the person whose request window intersects the candidate
// match interval, or "".
func (b blackouts) blocked(persons []string, candidate Interval) string {
	for _, personID := range persons {
		for _, window := range b[personID] {
			if AnalyzeScheduleOverlap(candidate, window) {
				return personID
			}
		}
	}
	return ""
}
