package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/engine/allocator"
	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/models"
)

func scheduledMatchUp(id, date, time, venueID, courtID string) *models.MatchUp {
	return &models.MatchUp{
		MatchUpID:     id,
		DrawID:        "draw-1",
		MatchUpStatus: models.StatusToBePlayed,
		Schedule: models.Schedule{
			ScheduledDate: date,
			ScheduledTime: time,
			VenueID:       venueID,
			CourtID:       courtID,
		},
	}
}

func TestGenerateBookings(t *testing.T) {
	tournament := &models.Tournament{
		MatchUps: []*models.MatchUp{
			scheduledMatchUp("m1", "2026-09-01", "10:00", "venue-1", "court-1"),
			scheduledMatchUp("m2", "2026-09-01", "09:00", "venue-1", ""),
			scheduledMatchUp("m3", "2026-09-02", "10:00", "venue-1", ""),
			scheduledMatchUp("m4", "2026-09-01", "10:00", "venue-2", ""),
			{MatchUpID: "unscheduled", DrawID: "draw-1", MatchUpStatus: models.StatusToBePlayed},
		},
	}
	lookup := allocator.NewTimingLookup(nil, allocator.Timing{AverageMinutes: 90, RecoveryMinutes: 60})

	bookings := GenerateBookings(tournament, lookup, []string{"2026-09-01"}, []string{"venue-1"})
	require.Len(t, bookings, 2)

	assert.Equal(t, "m2", bookings[0].MatchUpID)
	assert.Equal(t, "09:00", bookings[0].StartTime)
	// average minutes bound the booking, recovery does not occupy the court
	assert.Equal(t, "10:30", bookings[0].EndTime)
	assert.Empty(t, bookings[0].CourtID)
	assert.NotEmpty(t, bookings[0].BookingID)

	assert.Equal(t, "m1", bookings[1].MatchUpID)
	assert.Equal(t, "court-1", bookings[1].CourtID)

	all := GenerateBookings(tournament, lookup, nil, nil)
	assert.Len(t, all, 4)
}

func TestGenerateVirtualCourts(t *testing.T) {
	courtDates := []availability.CourtDate{
		{CourtID: "court-1", StartTime: "09:00", EndTime: "12:00"},
		{CourtID: "court-2", StartTime: "09:00", EndTime: "12:00"},
	}
	bookings := []Booking{
		{MatchUpID: "m1", StartTime: "09:00", EndTime: "10:30"},
		{MatchUpID: "m2", StartTime: "09:00", EndTime: "10:30"},
		{MatchUpID: "m3", StartTime: "10:30", EndTime: "12:00"},
	}

	result := GenerateVirtualCourts(bookings, courtDates, nil)
	require.Len(t, result.Bookings, 3)
	assert.Empty(t, result.Overlaps)

	byID := make(map[string]Booking)
	for _, b := range result.Bookings {
		byID[b.MatchUpID] = b
	}
	assert.Equal(t, "court-1", byID["m1"].CourtID)
	assert.Equal(t, "court-2", byID["m2"].CourtID)
	// m3 backfills the first court once it frees up
	assert.Equal(t, "court-1", byID["m3"].CourtID)
}

func TestGenerateVirtualCourtsReportsOverlaps(t *testing.T) {
	courtDates := []availability.CourtDate{
		{CourtID: "court-1", StartTime: "09:00", EndTime: "11:00"},
	}
	bookings := []Booking{
		{MatchUpID: "m1", StartTime: "09:00", EndTime: "10:30"},
		{MatchUpID: "m2", StartTime: "09:30", EndTime: "11:00"},
		{MatchUpID: "m3", StartTime: "11:00", EndTime: "12:30"},
	}

	result := GenerateVirtualCourts(bookings, courtDates, nil)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "m1", result.Bookings[0].MatchUpID)

	require.Len(t, result.Overlaps, 2)
	assert.Equal(t, "m2", result.Overlaps[0].MatchUpID)
	// m3 falls outside the court window entirely
	assert.Equal(t, "m3", result.Overlaps[1].MatchUpID)
}

func TestGenerateVirtualCourtsRespectsExistingClaims(t *testing.T) {
	courtDates := []availability.CourtDate{
		{
			CourtID: "court-1", StartTime: "09:00", EndTime: "12:00",
			Bookings: []models.Booking{{StartTime: "09:00", EndTime: "10:00", BookingType: models.BookingMaintenance}},
		},
		{CourtID: "court-2", StartTime: "09:00", EndTime: "12:00"},
	}
	bookings := []Booking{
		{MatchUpID: "m1", StartTime: "09:30", EndTime: "10:30"},
		{MatchUpID: "m2", CourtID: "court-2", StartTime: "09:00", EndTime: "10:00"},
		{MatchUpID: "m3", StartTime: "10:00", EndTime: "11:00"},
	}

	result := GenerateVirtualCourts(bookings, courtDates, nil)
	require.Len(t, result.Bookings, 2)
	require.Len(t, result.Overlaps, 1)

	byID := make(map[string]Booking)
	for _, b := range result.Bookings {
		byID[b.MatchUpID] = b
	}
	// m1 collides with maintenance on court-1 and the explicit claim on court-2
	assert.Equal(t, "m1", result.Overlaps[0].MatchUpID)
	assert.Equal(t, "court-2", byID["m2"].CourtID)
	// m3 starts right as maintenance ends
	assert.Equal(t, "court-1", byID["m3"].CourtID)
}
