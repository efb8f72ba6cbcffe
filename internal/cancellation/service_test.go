package cancellation

import (
	"context"
	"testing"
	"time"

	"busline/internal/bookings"

	"github.com/google/uuid"
)

// fakeBookingService is an in-memory BookingService with linked round-trip
// legs, mirroring the cascade semantics of the real service.
type fakeBookingService struct {
	store map[uuid.UUID]*bookings.Booking
}

func newFakeBookingService() *fakeBookingService {
	return &fakeBookingService{store: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeBookingService) addOneWay(userID uuid.UUID, paid bool) *bookings.Booking {
	booking := &bookings.Booking{
		ID:            uuid.New(),
		BookingNumber: "BKTEST" + uuid.New().String()[:4],
		UserID:        userID,
		TripID:        uuid.New(),
		Status:        bookings.StatusConfirmed,
		PaymentStatus: bookings.PaymentPending,
		BookingType:   bookings.TypeOneWay,
	}
	if paid {
		booking.PaymentStatus = bookings.PaymentCompleted
	}
	f.store[booking.ID] = booking
	return booking
}

func (f *fakeBookingService) addRoundTrip(userID uuid.UUID) (*bookings.Booking, *bookings.Booking) {
	outbound := f.addOneWay(userID, false)
	ret := f.addOneWay(userID, false)
	outbound.BookingType = bookings.TypeRoundTrip
	ret.BookingType = bookings.TypeRoundTrip
	ret.IsReturnLeg = true
	outbound.LinkedBookingID = &ret.ID
	ret.LinkedBookingID = &outbound.ID
	return outbound, ret
}

func (f *fakeBookingService) GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	booking, ok := f.store[id]
	if !ok {
		return nil, bookings.NewNotFoundError()
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingService) FindLinkedLeg(ctx context.Context, booking *bookings.Booking) (*bookings.Booking, error) {
	if !booking.IsRoundTrip() || booking.LinkedBookingID == nil {
		return nil, nil
	}
	return f.GetBookingByID(ctx, *booking.LinkedBookingID)
}

func (f *fakeBookingService) CancelBookings(ctx context.Context, orders []bookings.CancelOrder) ([]bookings.Booking, error) {
	now := time.Now()
	cancelled := make([]bookings.Booking, 0, len(orders))
	for _, order := range orders {
		booking, ok := f.store[order.ID]
		if !ok {
			return nil, bookings.NewNotFoundError()
		}
		if booking.IsCancelled() {
			return nil, bookings.NewValidationError("booking %s is already cancelled", booking.BookingNumber)
		}
		reason := order.Reason
		booking.Status = bookings.StatusCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = &reason
		cancelled = append(cancelled, *booking)
	}
	return cancelled, nil
}

func TestCancelOneWayRecordsReason(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	booking := store.addOneWay(userID, false)
	svc := NewService(store)

	result, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, booking.ID, CancellationRequest{Reason: "missed connection"})
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if len(result.Cancelled) != 1 {
		t.Fatalf("cancelled %d bookings, want 1", len(result.Cancelled))
	}
	if got := *result.Cancelled[0].CancellationReason; got != "missed connection" {
		t.Errorf("reason = %q, want %q", got, "missed connection")
	}
}

func TestCancelDefaultsReason(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	booking := store.addOneWay(userID, false)
	svc := NewService(store)

	result, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, booking.ID, CancellationRequest{})
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if got := *result.Cancelled[0].CancellationReason; got != DefaultReason {
		t.Errorf("reason = %q, want %q", got, DefaultReason)
	}
}

func TestCancelRoundTripCascades(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	outbound, ret := store.addRoundTrip(userID)
	svc := NewService(store)

	result, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, outbound.ID, CancellationRequest{Reason: "trip postponed"})
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if len(result.Cancelled) != 2 {
		t.Fatalf("cancelled %d bookings, want both legs", len(result.Cancelled))
	}

	if !store.store[ret.ID].IsCancelled() {
		t.Error("linked return leg was not cancelled")
	}
	if got := *store.store[outbound.ID].CancellationReason; got != "trip postponed" {
		t.Errorf("outbound reason = %q, want %q", got, "trip postponed")
	}
	if got := *store.store[ret.ID].CancellationReason; got != LinkedReason {
		t.Errorf("linked leg reason = %q, want %q", got, LinkedReason)
	}
}

func TestCancelFromReturnLegCascadesToOutbound(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	outbound, ret := store.addRoundTrip(userID)
	svc := NewService(store)

	result, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, ret.ID, CancellationRequest{})
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if len(result.Cancelled) != 2 {
		t.Fatalf("cancelled %d bookings, want both legs", len(result.Cancelled))
	}
	if !store.store[outbound.ID].IsCancelled() {
		t.Error("linked outbound leg was not cancelled")
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	booking := store.addOneWay(userID, false)
	booking.Status = bookings.StatusCancelled
	svc := NewService(store)

	_, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, booking.ID, CancellationRequest{})
	if !bookings.IsKind(err, bookings.KindValidation) {
		t.Errorf("cancelling a cancelled booking returned %v, want %s", err, bookings.KindValidation)
	}
}

func TestCancelOwnership(t *testing.T) {
	store := newFakeBookingService()
	booking := store.addOneWay(uuid.New(), false)
	svc := NewService(store)

	// Strangers get not-found, not forbidden, so booking ids stay opaque.
	_, err := svc.CancelBooking(context.Background(), Actor{UserID: uuid.New()}, booking.ID, CancellationRequest{})
	if !bookings.IsKind(err, bookings.KindNotFound) {
		t.Errorf("stranger cancel returned %v, want %s", err, bookings.KindNotFound)
	}

	// Staff may cancel bookings they do not own.
	result, err := svc.CancelBooking(context.Background(), Actor{UserID: uuid.New(), Staff: true}, booking.ID, CancellationRequest{})
	if err != nil {
		t.Fatalf("staff cancel failed: %v", err)
	}
	if len(result.Cancelled) != 1 {
		t.Errorf("staff cancelled %d bookings, want 1", len(result.Cancelled))
	}
}

func TestCancelPaidBookingGuard(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	booking := store.addOneWay(userID, true)
	svc := NewService(store)

	_, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, booking.ID, CancellationRequest{})
	if !bookings.IsKind(err, bookings.KindPaidImmutable) {
		t.Errorf("owner cancel of paid booking returned %v, want %s", err, bookings.KindPaidImmutable)
	}

	// Staff without admin hit the same wall.
	_, err = svc.CancelBooking(context.Background(), Actor{UserID: uuid.New(), Staff: true}, booking.ID, CancellationRequest{})
	if !bookings.IsKind(err, bookings.KindPaidImmutable) {
		t.Errorf("staff cancel of paid booking returned %v, want %s", err, bookings.KindPaidImmutable)
	}

	// Admins may override.
	result, err := svc.CancelBooking(context.Background(), Actor{UserID: uuid.New(), Staff: true, Admin: true}, booking.ID, CancellationRequest{})
	if err != nil {
		t.Fatalf("admin cancel of paid booking failed: %v", err)
	}
	if !result.Cancelled[0].IsCancelled() {
		t.Error("admin cancel did not cancel the booking")
	}
}

func TestCancelBlockedWhenLinkedLegPaid(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	outbound, ret := store.addRoundTrip(userID)
	ret.PaymentStatus = bookings.PaymentCompleted
	svc := NewService(store)

	// The unpaid outbound leg is still immutable because its sibling is paid.
	_, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, outbound.ID, CancellationRequest{})
	if !bookings.IsKind(err, bookings.KindPaidImmutable) {
		t.Errorf("cancel with paid sibling returned %v, want %s", err, bookings.KindPaidImmutable)
	}
	if store.store[outbound.ID].IsCancelled() || store.store[ret.ID].IsCancelled() {
		t.Error("a leg was cancelled despite the paid-sibling guard")
	}
}

func TestCancelSkipsAlreadyCancelledSibling(t *testing.T) {
	store := newFakeBookingService()
	userID := uuid.New()
	outbound, ret := store.addRoundTrip(userID)
	ret.Status = bookings.StatusCancelled
	svc := NewService(store)

	result, err := svc.CancelBooking(context.Background(), Actor{UserID: userID}, outbound.ID, CancellationRequest{})
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if len(result.Cancelled) != 1 {
		t.Errorf("cancelled %d bookings, want just the live leg", len(result.Cancelled))
	}
	if result.Cancelled[0].ID != outbound.ID {
		t.Errorf("cancelled wrong booking: %s", result.Cancelled[0].ID)
	}
}
