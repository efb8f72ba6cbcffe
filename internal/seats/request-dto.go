package seats

type HoldSeatsRequest struct {
	TripID      string `json:"trip_id" binding:"required,uuid"`
	SeatNumbers []int  `json:"seat_numbers" binding:"required,min=1,dive,min=1"`
}
