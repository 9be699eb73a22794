// Package availability turns court open-hours and bookings into per-day
// free-time grids and capacity timelines. Everything operates on an
// in-memory snapshot; malformed or empty availability yields zero capacity,
// never an error.
package availability

import (
	"sort"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

// CourtDate is one court's resolved window for a single date.
type CourtDate struct {
	CourtID   string
	VenueID   string
	Date      string
	StartTime string
	EndTime   string
	Bookings  []models.Booking
}

// Minutes returns the open window length, or 0 when malformed.
func (c CourtDate) Minutes() int {
	start := TimeToMinutes(c.StartTime)
	end := TimeToMinutes(c.EndTime)
	if start < 0 || end <= start {
		return 0
	}
	return end - start
}

// ResolveCourtDates flattens venues into per-date court windows, skipping
// disabled venues and courts with no availability for the date.
func ResolveCourtDates(venues []models.Venue, date string) []CourtDate {
	var courtDates []CourtDate
	for i := range venues {
		venue := &venues[i]
		if venue.Disabled {
			continue
		}
		for j := range venue.Courts {
			court := &venue.Courts[j]
			entry := court.AvailabilityForDate(date)
			if entry == nil {
				continue
			}
			courtDates = append(courtDates, CourtDate{
				CourtID:   court.CourtID,
				VenueID:   venue.VenueID,
				Date:      date,
				StartTime: entry.StartTime,
				EndTime:   entry.EndTime,
				Bookings:  entry.Bookings,
			})
		}
	}
	return courtDates
}

// PeriodProfile is one period of the capacity timeline.
type PeriodProfile struct {
	PeriodStart              string `json:"periodStart"`
	Add                      int    `json:"add"`
	AvailableToScheduleCount int    `json:"availableToScheduleCount"`
	TotalMatchUps            int    `json:"totalMatchUps"`
}

// TimingProfile builds the capacity grid for a date: one period per
// periodLength step from the earliest court start through the last period at
// which a match can still begin without exceeding its window. Capacity
// accrues a court at its opening period and then at the averaged turnover
// rate (periodLength/averageMinutes per active court), capped by the total
// whole matches the courts' windows can hold.
func TimingProfile(courtDates []CourtDate, periodLength, averageMinutes int) []PeriodProfile {
	if periodLength <= 0 || averageMinutes <= 0 {
		return nil
	}

	type window struct{ start, end int }
	var windows []window
	earliest, latest := -1, -1
	physicalCap := 0
	for _, cd := range courtDates {
		start := TimeToMinutes(cd.StartTime)
		end := TimeToMinutes(cd.EndTime)
		if start < 0 || end <= start || end-start < averageMinutes {
			continue
		}
		windows = append(windows, window{start, end})
		if earliest < 0 || start < earliest {
			earliest = start
		}
		if end > latest {
			latest = end
		}
		physicalCap += (end - start) / averageMinutes
	}
	if len(windows) == 0 {
		return nil
	}

	lastStart := latest - averageMinutes
	periodCount := (lastStart-earliest)/periodLength + 1

	profile := make([]PeriodProfile, 0, periodCount)
	// capacity tracked in court-minutes so the averaged turnover rate stays
	// exact integer arithmetic
	capacityMinutes := 0
	previousTotal := 0

	for i := 0; i < periodCount; i++ {
		periodStart := earliest + i*periodLength

		available := 0
		for _, w := range windows {
			// a court opens at the first period covering its start time
			opensAt := w.start
			if rem := (opensAt - earliest) % periodLength; rem != 0 {
				opensAt += periodLength - rem
			}
			openPeriod := (opensAt - earliest) / periodLength
			switch {
			case i == openPeriod:
				capacityMinutes += averageMinutes
			case i >= openPeriod+2 && periodStart <= w.end-averageMinutes:
				capacityMinutes += periodLength
			}
			if periodStart >= opensAt && periodStart <= w.end-averageMinutes {
				available++
			}
		}

		total := capacityMinutes / averageMinutes
		if total > physicalCap {
			total = physicalCap
		}
		profile = append(profile, PeriodProfile{
			PeriodStart:              MinutesToTime(periodStart),
			Add:                      total - previousTotal,
			AvailableToScheduleCount: available,
			TotalMatchUps:            total,
		})
		previousTotal = total
	}

	return profile
}

// ScheduleTimes expands a timing profile into an ordered list of candidate
// start times, one entry per unit of added capacity.
func ScheduleTimes(profile []PeriodProfile) []string {
	var times []string
	for _, period := range profile {
		for n := 0; n < period.Add; n++ {
			times = append(times, period.PeriodStart)
		}
	}
	return times
}

// CourtsAvailableAtPeriodStart counts courts whose window contains the
// period start with at least averageMinutes remaining.
func CourtsAvailableAtPeriodStart(courtDates []CourtDate, periodStart string, averageMinutes int) int {
	start := TimeToMinutes(periodStart)
	if start < 0 {
		return 0
	}
	count := 0
	for _, cd := range courtDates {
		open := TimeToMinutes(cd.StartTime)
		close := TimeToMinutes(cd.EndTime)
		if open < 0 || close <= open {
			continue
		}
		if start >= open && close-start >= averageMinutes {
			count++
		}
	}
	return count
}

// TimeSlot is a free sub-interval of a court's day window.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GenerateTimeSlots subtracts booking intervals from the court's window and
// returns the remaining free sub-intervals. Booking types listed in
// includeBookingTypes are treated as available time rather than occupying.
func GenerateTimeSlots(courtDate CourtDate, includeBookingTypes ...string) []TimeSlot {
	open := TimeToMinutes(courtDate.StartTime)
	close := TimeToMinutes(courtDate.EndTime)
	if open < 0 || close <= open {
		return nil
	}

	included := make(map[string]bool, len(includeBookingTypes))
	for _, bookingType := range includeBookingTypes {
		included[bookingType] = true
	}

	type interval struct{ start, end int }
	var occupied []interval
	for _, booking := range courtDate.Bookings {
		if included[booking.BookingType] {
			continue
		}
		start := TimeToMinutes(booking.StartTime)
		end := TimeToMinutes(booking.EndTime)
		if start < 0 || end <= start {
			continue
		}
		if start < open {
			start = open
		}
		if end > close {
			end = close
		}
		if end <= start {
			continue
		}
		occupied = append(occupied, interval{start, end})
	}
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].start < occupied[j].start })

	var slots []TimeSlot
	cursor := open
	for _, block := range occupied {
		if block.start > cursor {
			slots = append(slots, TimeSlot{StartTime: MinutesToTime(cursor), EndTime: MinutesToTime(block.start)})
		}
		if block.end > cursor {
			cursor = block.end
		}
	}
	if cursor < close {
		slots = append(slots, TimeSlot{StartTime: MinutesToTime(cursor), EndTime: MinutesToTime(close)})
	}
	return slots
}
