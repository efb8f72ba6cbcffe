package seats

import "time"

type HoldSeatsResponse struct {
	HoldID      string    `json:"hold_id"`
	TripID      string    `json:"trip_id"`
	SeatNumbers []int     `json:"seat_numbers"`
	ExpiresAt   time.Time `json:"expires_at"`
	TTLSeconds  int       `json:"ttl_seconds"`
}

type ReleaseHoldResponse struct {
	HoldID        string `json:"hold_id"`
	ReleasedSeats int    `json:"released_seats"`
}

type TripHoldsResponse struct {
	TripID    string `json:"trip_id"`
	HeldSeats []int  `json:"held_seats"`
}
