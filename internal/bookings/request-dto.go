package bookings

// CreateBookingRequest covers both one-way and round-trip creation. For a
// round trip a return trip id is required and both legs are booked in a
// single transaction.
type CreateBookingRequest struct {
	TripID         string `json:"trip_id" binding:"required,uuid"`
	SeatNumbers    []int  `json:"seat_numbers" binding:"required,min=1,dive,min=1"`
	PassengerCount int    `json:"passenger_count" binding:"required,min=1"`
	BookingType    string `json:"booking_type" binding:"omitempty,oneof=one_way round_trip"`

	// ReturnSeats defaults to SeatNumbers: the same physical seats on
	// both vehicles unless the passenger picks a different return set.
	ReturnTripID    string `json:"return_trip_id" binding:"omitempty,uuid"`
	ReturnSeats     []int  `json:"return_seat_numbers" binding:"omitempty,min=1,dive,min=1"`
	PaymentMethod   string `json:"payment_method" binding:"omitempty,max=50"`
	TotalFare       *int64 `json:"total_fare" binding:"omitempty,min=0"`
	ReturnTotalFare *int64 `json:"return_total_fare" binding:"omitempty,min=0"`

	// Set by staff/admin when booking on behalf of a passenger.
	PassengerUserID string `json:"passenger_user_id" binding:"omitempty,uuid"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type MarkPaidRequest struct {
	Amount *int64 `json:"amount" binding:"omitempty,min=0"`
	Method string `json:"method" binding:"required,max=50"`
}

type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	TripID   string `form:"trip_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type PaymentListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
