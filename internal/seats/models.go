package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatHold is a transient, TTL-bound claim on seat numbers for one trip.
// Holds live only in Redis; the booking transaction is the durable claim.
// An expired hold simply vanishes, no cleanup job required.
type SeatHold struct {
	HoldID      string    `json:"hold_id"`
	TripID      uuid.UUID `json:"trip_id"`
	UserID      uuid.UUID `json:"user_id"`
	SeatNumbers []int     `json:"seat_numbers"`
	ExpiresAt   time.Time `json:"expires_at"`
}
