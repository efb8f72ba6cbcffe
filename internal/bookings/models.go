package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the core entity: one leg of a one-way or round-trip reservation.
// Rows are never physically deleted; cancellation is a status flip.
type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingNumber string    `gorm:"uniqueIndex;not null;size:32" json:"booking_number"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TripID        uuid.UUID `gorm:"type:uuid;index;not null" json:"trip_id"`

	PassengerCount int           `gorm:"not null;check:passenger_count >= 1" json:"passenger_count"`
	TotalFare      int64         `gorm:"not null;check:total_fare >= 0" json:"total_fare"`
	Status         Status        `gorm:"type:varchar(20);default:'confirmed'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentMethod  *string       `gorm:"size:50" json:"payment_method,omitempty"`

	BookingType     BookingType `gorm:"type:varchar(20);default:'one_way'" json:"booking_type"`
	IsReturnLeg     bool        `gorm:"default:false" json:"is_return_leg"`
	LinkedBookingID *uuid.UUID  `gorm:"type:uuid;index" json:"linked_booking_id,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	BookedAt           time.Time  `gorm:"autoCreateTime" json:"booked_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationships
	Seats    []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Payments []Payment     `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// BookingSeat claims one seat number on one trip. The partial unique
// index on (trip_id, seat_number) WHERE active (MigrateConstraints) is
// the storage-level backstop against double booking. Cancellation clears
// the active flag instead of deleting the row, so a cancelled booking
// keeps its full seat record.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	TripID     uuid.UUID `gorm:"type:uuid;not null" json:"trip_id"`
	SeatNumber int       `gorm:"not null;check:seat_number >= 1" json:"seat_number"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Payment is an immutable record of a completed payment for a booking.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount    int64     `gorm:"not null;check:amount >= 0" json:"amount"`
	Method    string    `gorm:"size:50;not null" json:"method"`
	Status    string    `gorm:"type:varchar(20);default:'completed'" json:"status"`
	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

func (Payment) TableName() string {
	return "payments"
}

// SeatNumbers returns the ordered seat numbers claimed by this booking.
func (b *Booking) SeatNumbers() []int {
	out := make([]int, 0, len(b.Seats))
	for _, s := range b.Seats {
		out = append(out, s.SeatNumber)
	}
	return out
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentCompleted
}

func (b *Booking) IsRoundTrip() bool {
	return b.BookingType == TypeRoundTrip
}

// BookingPair is the result of a successful create: the outbound leg and,
// for round trips, the mutually linked return leg.
type BookingPair struct {
	Outbound *Booking `json:"outbound"`
	Return   *Booking `json:"return,omitempty"`
}

// TotalFare sums both legs.
func (p *BookingPair) TotalFare() int64 {
	total := p.Outbound.TotalFare
	if p.Return != nil {
		total += p.Return.TotalFare
	}
	return total
}

// SeatLedgerView is the derived seat occupancy for one trip: which seat
// numbers out of 1..Capacity are claimed by non-cancelled bookings.
type SeatLedgerView struct {
	TripID     uuid.UUID `json:"trip_id"`
	Capacity   int       `json:"capacity"`
	TakenSeats []int     `json:"taken_seats"`
}

// IsTaken reports whether a seat number appears in the taken set.
func (v *SeatLedgerView) IsTaken(seat int) bool {
	for _, s := range v.TakenSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// FreeSeats lists the seats not taken, in ascending order.
func (v *SeatLedgerView) FreeSeats() []int {
	taken := make(map[int]struct{}, len(v.TakenSeats))
	for _, s := range v.TakenSeats {
		taken[s] = struct{}{}
	}
	free := make([]int, 0, v.Capacity-len(taken))
	for seat := 1; seat <= v.Capacity; seat++ {
		if _, ok := taken[seat]; !ok {
			free = append(free, seat)
		}
	}
	return free
}
