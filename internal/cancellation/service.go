package cancellation

import (
	"context"

	"busline/internal/bookings"

	"github.com/google/uuid"
)

// DefaultReason is recorded when the passenger gives none.
const DefaultReason = "Cancelled by user"

// LinkedReason is recorded on the sibling leg of a round-trip cascade.
const LinkedReason = "Cancelled with linked booking"

// BookingService is the slice of the booking service the cancellation
// policy needs. Defining it here keeps the dependency one-directional.
type BookingService interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	FindLinkedLeg(ctx context.Context, booking *bookings.Booking) (*bookings.Booking, error)
	CancelBookings(ctx context.Context, orders []bookings.CancelOrder) ([]bookings.Booking, error)
}

// Service applies the cancellation policy: ownership, the paid-booking
// guard, and the round-trip cascade.
type Service interface {
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req CancellationRequest) (*CancellationResult, error)
}

type service struct {
	bookingService BookingService
}

func NewService(bookingService BookingService) Service {
	return &service{bookingService: bookingService}
}

// CancelBooking cancels one booking and, for round trips, its linked leg in
// the same storage transaction. Rules, in order:
//   - passengers may only cancel their own bookings,
//   - a booking that is already cancelled cannot be cancelled again,
//   - a paid booking (either leg) is immutable to non-admins,
//   - both legs of a round trip cancel together or not at all.
func (s *service) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req CancellationRequest) (*CancellationResult, error) {
	booking, err := s.bookingService.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.Staff && booking.UserID != actor.UserID {
		return nil, bookings.NewNotFoundError()
	}

	if booking.IsCancelled() {
		return nil, bookings.NewValidationError("booking %s is already cancelled", booking.BookingNumber)
	}

	linked, err := s.bookingService.FindLinkedLeg(ctx, booking)
	if err != nil {
		return nil, err
	}
	if linked != nil && linked.IsCancelled() {
		linked = nil
	}

	if !actor.Admin {
		if booking.IsPaid() {
			return nil, bookings.NewPaidImmutableError()
		}
		if linked != nil && linked.IsPaid() {
			return nil, bookings.NewPaidImmutableError()
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = DefaultReason
	}

	orders := []bookings.CancelOrder{{ID: booking.ID, Reason: reason}}
	if linked != nil {
		orders = append(orders, bookings.CancelOrder{ID: linked.ID, Reason: LinkedReason})
	}

	cancelled, err := s.bookingService.CancelBookings(ctx, orders)
	if err != nil {
		return nil, err
	}

	return &CancellationResult{Cancelled: cancelled}, nil
}
