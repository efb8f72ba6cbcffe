package cancellation

import (
	"busline/internal/bookings"

	"github.com/google/uuid"
)

// Actor is the authenticated caller requesting a cancellation.
type Actor struct {
	UserID uuid.UUID
	// Staff may cancel bookings they do not own.
	Staff bool
	// Admin may additionally cancel paid bookings.
	Admin bool
}

// CancellationRequest carries the optional passenger-supplied reason.
type CancellationRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// CancellationResult lists every booking cancelled by one request: the
// requested booking and, for round trips, its linked leg.
type CancellationResult struct {
	Cancelled []bookings.Booking `json:"cancelled"`
}

// BookingNumbers returns the cancelled booking numbers in order.
func (r *CancellationResult) BookingNumbers() []string {
	numbers := make([]string, 0, len(r.Cancelled))
	for i := range r.Cancelled {
		numbers = append(numbers, r.Cancelled[i].BookingNumber)
	}
	return numbers
}
