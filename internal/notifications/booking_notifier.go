package notifications

import (
	"context"
	"log"
	"time"

	"busline/internal/bookings"

	"github.com/google/uuid"
)

// UserService provides recipient details for booking notifications.
type UserService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error)
}

// BookingNotifier adapts the notification pipeline to the booking service's
// Notifier interface. Publishing happens in a goroutine so a slow broker
// never delays a committed booking response.
type BookingNotifier struct {
	service NotificationService
	users   UserService
	timeout time.Duration
}

func NewBookingNotifier(service NotificationService, users UserService) *BookingNotifier {
	return &BookingNotifier{
		service: service,
		users:   users,
		timeout: 10 * time.Second,
	}
}

func (n *BookingNotifier) BookingConfirmed(booking *bookings.Booking) {
	n.publish(booking, NotificationTypeBookingConfirmed, map[string]interface{}{
		"booking_number": booking.BookingNumber,
		"seat_numbers":   booking.SeatNumbers(),
		"total_fare":     booking.TotalFare,
	})
}

func (n *BookingNotifier) BookingCancelled(booking *bookings.Booking) {
	reason := ""
	if booking.CancellationReason != nil {
		reason = *booking.CancellationReason
	}
	n.publish(booking, NotificationTypeBookingCancelled, map[string]interface{}{
		"booking_number": booking.BookingNumber,
		"reason":         reason,
	})
}

func (n *BookingNotifier) PaymentReceived(booking *bookings.Booking, payment *bookings.Payment) {
	n.publish(booking, NotificationTypePaymentReceived, map[string]interface{}{
		"booking_number": booking.BookingNumber,
		"amount":         payment.Amount,
		"method":         payment.Method,
	})
}

func (n *BookingNotifier) publish(booking *bookings.Booking, notType NotificationType, data map[string]interface{}) {
	bookingID := booking.ID
	tripID := booking.TripID
	userID := booking.UserID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		email, firstName, lastName, err := n.users.GetUserByID(ctx, userID)
		if err != nil {
			log.Printf("Failed to resolve notification recipient %s: %v", userID, err)
			return
		}

		name := firstName + " " + lastName
		if err := n.service.SendBookingNotification(ctx, userID, email, name, bookingID, tripID, notType, data); err != nil {
			log.Printf("Failed to publish %s notification for booking %s: %v", notType, booking.BookingNumber, err)
		}
	}()
}
