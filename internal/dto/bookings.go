package dto

import "github.com/courtkeeper/scheduling-api/internal/engine/booking"

// BookingsResult is the booking projection response. Overlaps are populated
// only when virtual resolution could not place every booking.
type BookingsResult struct {
	Bookings []booking.Booking `json:"bookings"`
	Overlaps []booking.Overlap `json:"overlaps,omitempty"`
}
