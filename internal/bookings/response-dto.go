package bookings

// CreateBookingResponse returns the created leg(s) and the combined fare.
type CreateBookingResponse struct {
	Outbound  *Booking `json:"outbound"`
	Return    *Booking `json:"return,omitempty"`
	TotalFare int64    `json:"total_fare"`
}

func NewCreateBookingResponse(pair *BookingPair) *CreateBookingResponse {
	return &CreateBookingResponse{
		Outbound:  pair.Outbound,
		Return:    pair.Return,
		TotalFare: pair.TotalFare(),
	}
}

// SeatMapResponse is the per-trip seat availability view.
type SeatMapResponse struct {
	TripID    string `json:"trip_id"`
	Capacity  int    `json:"capacity"`
	Taken     []int  `json:"taken_seats"`
	Free      []int  `json:"free_seats"`
	FreeCount int    `json:"free_count"`
}

func NewSeatMapResponse(view *SeatLedgerView) *SeatMapResponse {
	free := view.FreeSeats()
	taken := view.TakenSeats
	if taken == nil {
		taken = []int{}
	}
	return &SeatMapResponse{
		TripID:    view.TripID.String(),
		Capacity:  view.Capacity,
		Taken:     taken,
		Free:      free,
		FreeCount: len(free),
	}
}
