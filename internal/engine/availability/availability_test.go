package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

func uniformCourts(count int, startTime, endTime string) []CourtDate {
	courtDates := make([]CourtDate, 0, count)
	for i := 0; i < count; i++ {
		courtDates = append(courtDates, CourtDate{
			CourtID:   "court-" + string(rune('a'+i)),
			VenueID:   "venue-1",
			Date:      "2026-09-01",
			StartTime: startTime,
			EndTime:   endTime,
		})
	}
	return courtDates
}

func TestTimingProfileTenCourtGrid(t *testing.T) {
	profile := TimingProfile(uniformCourts(10, "08:00", "20:30"), 30, 90)
	require.Len(t, profile, 23)

	assert.Equal(t, "08:00", profile[0].PeriodStart)
	assert.Equal(t, 10, profile[0].Add)
	assert.Equal(t, 10, profile[0].AvailableToScheduleCount)

	assert.Equal(t, "19:00", profile[22].PeriodStart)
	assert.Equal(t, 3, profile[21].Add)
	assert.Equal(t, 4, profile[22].Add)
	assert.Equal(t, 80, profile[22].TotalMatchUps)

	total := 0
	for _, period := range profile {
		total += period.Add
		assert.Equal(t, total, period.TotalMatchUps, "period %s", period.PeriodStart)
	}
	assert.Equal(t, 80, total)
}

func TestTimingProfileStaggeredOpen(t *testing.T) {
	courtDates := []CourtDate{
		{CourtID: "c1", StartTime: "09:00", EndTime: "12:00"},
		{CourtID: "c2", StartTime: "10:00", EndTime: "12:00"},
	}
	profile := TimingProfile(courtDates, 30, 60)
	require.NotEmpty(t, profile)

	assert.Equal(t, "09:00", profile[0].PeriodStart)
	assert.Equal(t, 1, profile[0].Add)
	// c2 contributes its first match only once its own window opens
	assert.Equal(t, "10:00", profile[2].PeriodStart)
	assert.GreaterOrEqual(t, profile[2].Add, 1)
	assert.Equal(t, 2, profile[2].AvailableToScheduleCount)

	last := profile[len(profile)-1]
	assert.Equal(t, "11:00", last.PeriodStart)
	assert.Equal(t, 4, last.TotalMatchUps)
}

func TestTimingProfileMalformedYieldsNothing(t *testing.T) {
	assert.Nil(t, TimingProfile(nil, 30, 90))
	assert.Nil(t, TimingProfile([]CourtDate{{StartTime: "bogus", EndTime: "10:00"}}, 30, 90))
	assert.Nil(t, TimingProfile([]CourtDate{{StartTime: "10:00", EndTime: "09:00"}}, 30, 90))
	// window shorter than one match holds zero matches
	assert.Nil(t, TimingProfile([]CourtDate{{StartTime: "10:00", EndTime: "11:00"}}, 30, 90))
}

func TestScheduleTimesExpansion(t *testing.T) {
	profile := []PeriodProfile{
		{PeriodStart: "08:00", Add: 2},
		{PeriodStart: "08:30", Add: 0},
		{PeriodStart: "09:00", Add: 1},
	}
	assert.Equal(t, []string{"08:00", "08:00", "09:00"}, ScheduleTimes(profile))
}

func TestCourtsAvailableAtPeriodStart(t *testing.T) {
	courtDates := []CourtDate{
		{CourtID: "c1", StartTime: "08:00", EndTime: "12:00"},
		{CourtID: "c2", StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Equal(t, 1, CourtsAvailableAtPeriodStart(courtDates, "08:00", 90))
	// c2's remaining window is too short for a full match
	assert.Equal(t, 1, CourtsAvailableAtPeriodStart(courtDates, "09:00", 90))
	assert.Equal(t, 2, CourtsAvailableAtPeriodStart(courtDates, "09:00", 60))
	assert.Equal(t, 0, CourtsAvailableAtPeriodStart(courtDates, "bogus", 60))
}

func TestResolveCourtDates(t *testing.T) {
	venues := []models.Venue{
		{
			VenueID: "venue-1",
			Courts: []models.Court{
				{
					CourtID: "c1",
					DateAvailability: []models.DateAvailability{
						{StartTime: "08:00", EndTime: "18:00"},
						{Date: "2026-09-01", StartTime: "10:00", EndTime: "16:00"},
					},
				},
				{CourtID: "c2"},
			},
		},
		{
			VenueID:  "venue-2",
			Disabled: true,
			Courts:   []models.Court{{CourtID: "c3", DateAvailability: []models.DateAvailability{{StartTime: "08:00", EndTime: "18:00"}}}},
		},
	}

	courtDates := ResolveCourtDates(venues, "2026-09-01")
	require.Len(t, courtDates, 1)
	assert.Equal(t, "c1", courtDates[0].CourtID)
	// dated entry overrides the recurring default
	assert.Equal(t, "10:00", courtDates[0].StartTime)
	assert.Equal(t, "16:00", courtDates[0].EndTime)
	assert.Equal(t, 360, courtDates[0].Minutes())

	fallback := ResolveCourtDates(venues, "2026-09-02")
	require.Len(t, fallback, 1)
	assert.Equal(t, "08:00", fallback[0].StartTime)
}

func TestGenerateTimeSlots(t *testing.T) {
	courtDate := CourtDate{
		StartTime: "08:00",
		EndTime:   "18:00",
		Bookings: []models.Booking{
			{StartTime: "12:00", EndTime: "13:00", BookingType: models.BookingMaintenance},
			{StartTime: "09:00", EndTime: "10:30", BookingType: models.BookingMatchUp},
			{StartTime: "07:00", EndTime: "08:30", BookingType: models.BookingPractice},
		},
	}

	slots := GenerateTimeSlots(courtDate)
	require.Equal(t, []TimeSlot{
		{StartTime: "08:30", EndTime: "09:00"},
		{StartTime: "10:30", EndTime: "12:00"},
		{StartTime: "13:00", EndTime: "18:00"},
	}, slots)

	// practice and maintenance treated as free when included
	slots = GenerateTimeSlots(courtDate, models.BookingPractice, models.BookingMaintenance)
	require.Equal(t, []TimeSlot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "10:30", EndTime: "18:00"},
	}, slots)
}

func TestGenerateTimeSlotsFullyBooked(t *testing.T) {
	courtDate := CourtDate{
		StartTime: "08:00",
		EndTime:   "10:00",
		Bookings:  []models.Booking{{StartTime: "08:00", EndTime: "10:00", BookingType: models.BookingMatchUp}},
	}
	assert.Empty(t, GenerateTimeSlots(courtDate))
}
