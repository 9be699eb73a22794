// Package booking projects time-assigned matchUps into concrete court
// bookings and resolves virtual (time-only) placements onto physical
// courts, reporting residual overlaps instead of erroring.
package booking

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
)

// Booking is one matchUp's claim on court time. CourtID is empty for a
// virtual booking, where the allocator assigned only a time.
type Booking struct {
	BookingID string `json:"bookingId"`
	MatchUpID string `json:"matchUpId"`
	VenueID   string `json:"venueId"`
	CourtID   string `json:"courtId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GenerateBookings projects every time-assigned matchUp on the given dates
// into a booking record. End times come from the timing lookup's average
// minutes for the matchUp; recovery time is a participant concern and does
// not occupy the court. Empty dates means all scheduled dates; empty
// venueIDs means all venues.
func GenerateBookings(t *models.Tournament, lookup *allocator.TimingLookup, dates, venueIDs []string) []Booking {
	dateFilter := stringSet(dates)
	venueFilter := stringSet(venueIDs)

	var bookings []Booking
	for _, m := range t.MatchUps {
		schedule := m.Schedule
		if !schedule.TimeAssigned() {
			continue
		}
		if dateFilter != nil && !dateFilter[schedule.ScheduledDate] {
			continue
		}
		if venueFilter != nil && !venueFilter[schedule.VenueID] {
			continue
		}
		start := availability.TimeToMinutes(schedule.ScheduledTime)
		if start < 0 {
			continue
		}
		timing := lookup.For(m)
		bookings = append(bookings, Booking{
			BookingID: uuid.NewString(),
			MatchUpID: m.MatchUpID,
			VenueID:   schedule.VenueID,
			CourtID:   schedule.CourtID,
			Date:      schedule.ScheduledDate,
			StartTime: schedule.ScheduledTime,
			EndTime:   availability.MinutesToTime(start + timing.AverageMinutes),
		})
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		if bookings[i].StartTime != bookings[j].StartTime {
			return bookings[i].StartTime < bookings[j].StartTime
		}
		return bookings[i].MatchUpID < bookings[j].MatchUpID
	})
	return bookings
}

// Overlap reports a booking that could not be placed without intersecting
// another claim on the same court.
type Overlap struct {
	MatchUpID string `json:"matchUpId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// VirtualCourtsResult is the outcome of resolving virtual bookings onto
// physical courts.
type VirtualCourtsResult struct {
	Bookings []Booking `json:"bookings"`
	Overlaps []Overlap `json:"overlaps,omitempty"`
}

// GenerateVirtualCourts assigns court ids to bookings that lack one,
// filling each court's free capacity in start-time order. Bookings that fit
// on no court are reported as overlaps; bookings already carrying a court
// are kept and their interval blocks that court.
func GenerateVirtualCourts(bookings []Booking, courtDates []availability.CourtDate, logger *zap.Logger) VirtualCourtsResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	occupied := make(map[string][]allocator.Interval, len(courtDates))
	windows := make(map[string]allocator.Interval, len(courtDates))
	order := make([]string, 0, len(courtDates))
	for _, cd := range courtDates {
		start := availability.TimeToMinutes(cd.StartTime)
		end := availability.TimeToMinutes(cd.EndTime)
		if start < 0 || end <= start {
			continue
		}
		windows[cd.CourtID] = allocator.Interval{ScheduleTime: start, TimeAfterRecovery: end}
		order = append(order, cd.CourtID)
		for _, b := range cd.Bookings {
			bStart := availability.TimeToMinutes(b.StartTime)
			bEnd := availability.TimeToMinutes(b.EndTime)
			if bStart < 0 || bEnd <= bStart {
				continue
			}
			occupied[cd.CourtID] = append(occupied[cd.CourtID], allocator.Interval{ScheduleTime: bStart, TimeAfterRecovery: bEnd})
		}
	}

	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTime != sorted[j].StartTime {
			return sorted[i].StartTime < sorted[j].StartTime
		}
		return sorted[i].MatchUpID < sorted[j].MatchUpID
	})

	result := VirtualCourtsResult{}
	// pre-block courts claimed by explicit assignments
	for _, b := range sorted {
		if b.CourtID == "" {
			continue
		}
		occupied[b.CourtID] = append(occupied[b.CourtID], toInterval(b))
	}

	for _, b := range sorted {
		if b.CourtID != "" {
			result.Bookings = append(result.Bookings, b)
			continue
		}
		interval := toInterval(b)
		assigned := false
		for _, courtID := range order {
			window := windows[courtID]
			if interval.ScheduleTime < window.ScheduleTime || interval.TimeAfterRecovery > window.TimeAfterRecovery {
				continue
			}
			if intersectsAny(interval, occupied[courtID]) {
				continue
			}
			b.CourtID = courtID
			occupied[courtID] = append(occupied[courtID], interval)
			assigned = true
			break
		}
		if assigned {
			result.Bookings = append(result.Bookings, b)
		} else {
			result.Overlaps = append(result.Overlaps, Overlap{MatchUpID: b.MatchUpID, StartTime: b.StartTime, EndTime: b.EndTime})
		}
	}

	if len(result.Overlaps) > 0 {
		logger.Warn("virtual court resolution left unplaced bookings",
			zap.Int("overlaps", len(result.Overlaps)),
			zap.Int("courts", len(order)),
		)
	}
	return result
}

func toInterval(b Booking) allocator.Interval {
	return allocator.Interval{
		ScheduleTime:      availability.TimeToMinutes(b.StartTime),
		TimeAfterRecovery: availability.TimeToMinutes(b.EndTime),
	}
}

func intersectsAny(candidate allocator.Interval, placed []allocator.Interval) bool {
	for _, p := range placed {
		if allocator.AnalyzeScheduleOverlap(candidate, p) {
			return true
		}
	}
	return false
}

func stringSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
