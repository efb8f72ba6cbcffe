package bookings

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// HoldsSeats reports whether bookings in this status still occupy their
// seats on the trip.
func (s Status) HoldsSeats() bool {
	return s != StatusCancelled
}

func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (p PaymentStatus) String() string {
	return string(p)
}

type BookingType string

const (
	TypeOneWay    BookingType = "one_way"
	TypeRoundTrip BookingType = "round_trip"
)

func (t BookingType) IsValid() bool {
	return t == TypeOneWay || t == TypeRoundTrip
}

func (t BookingType) String() string {
	return string(t)
}

// Leg identifies which half of a round trip an error or booking refers to.
type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

func (l Leg) String() string {
	return string(l)
}
