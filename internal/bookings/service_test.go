package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"busline/internal/trips"

	"github.com/google/uuid"
)

// fakeTripService serves scheduled trips with a flat per-seat fare.
type fakeTripService struct {
	trips      map[uuid.UUID]*trips.Trip
	capacities map[uuid.UUID]int
	perSeat    int64
}

func newFakeTripService(perSeat int64) *fakeTripService {
	return &fakeTripService{
		trips:      make(map[uuid.UUID]*trips.Trip),
		capacities: make(map[uuid.UUID]int),
		perSeat:    perSeat,
	}
}

func (f *fakeTripService) addTrip(capacity int) uuid.UUID {
	id := uuid.New()
	f.trips[id] = &trips.Trip{ID: id, Status: trips.StatusScheduled}
	f.capacities[id] = capacity
	return id
}

func (f *fakeTripService) GetTripWithRelations(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s not found", id)
	}
	return trip, nil
}

func (f *fakeTripService) FarePerSeat(trip *trips.Trip, route *trips.Route) int64 {
	return f.perSeat
}

func (f *fakeTripService) TripCapacity(ctx context.Context, tripID uuid.UUID) (int, error) {
	capacity, ok := f.capacities[tripID]
	if !ok {
		return 0, fmt.Errorf("trip %s not found", tripID)
	}
	return capacity, nil
}

// fakeRepo is an in-memory Repository that honors the same invariants the
// Postgres implementation gets from its partial unique index: one booking
// per (trip, seat) among active claims, with claims deactivated but kept
// on cancellation.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	seats    map[string]uuid.UUID
	payments []Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]*Booking),
		seats:    make(map[string]uuid.UUID),
	}
}

func seatKey(tripID uuid.UUID, seat int) string {
	return fmt.Sprintf("%s/%d", tripID, seat)
}

func (r *fakeRepo) TakenSeats(ctx context.Context, tripID uuid.UUID) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenSeatsLocked(tripID), nil
}

func (r *fakeRepo) takenSeatsLocked(tripID uuid.UUID) []int {
	prefix := tripID.String() + "/"
	var taken []int
	for key := range r.seats {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		seat, err := strconv.Atoi(key[len(prefix):])
		if err != nil {
			continue
		}
		taken = append(taken, seat)
	}
	sort.Ints(taken)
	return taken
}

func (r *fakeRepo) CreatePair(ctx context.Context, pair *BookingPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	legs := []*Booking{pair.Outbound}
	if pair.Return != nil {
		legs = append(legs, pair.Return)
	}

	// Re-check the unique constraint for both legs before claiming anything,
	// outbound first, so a failed create leaves no partial state behind.
	for _, leg := range legs {
		legName := LegOutbound
		if leg.IsReturnLeg {
			legName = LegReturn
		}
		var conflicts []int
		for _, seat := range leg.Seats {
			if _, taken := r.seats[seatKey(seat.TripID, seat.SeatNumber)]; taken {
				conflicts = append(conflicts, seat.SeatNumber)
			}
		}
		if len(conflicts) > 0 {
			return NewSeatUnavailableError(legName, conflicts)
		}
	}

	for _, leg := range legs {
		leg.ID = uuid.New()
		leg.BookedAt = time.Now()
	}
	if pair.Return != nil {
		pair.Return.LinkedBookingID = &pair.Outbound.ID
		pair.Outbound.LinkedBookingID = &pair.Return.ID
	}

	for _, leg := range legs {
		for i := range leg.Seats {
			leg.Seats[i].BookingID = leg.ID
			r.seats[seatKey(leg.Seats[i].TripID, leg.Seats[i].SeatNumber)] = leg.ID
		}
		stored := *leg
		r.bookings[leg.ID] = &stored
	}
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, NewNotFoundError()
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) GetByUserID(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, booking := range r.bookings {
		out = append(out, *booking)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) FindReturnLeg(ctx context.Context, outboundID uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.IsReturnLeg && booking.LinkedBookingID != nil && *booking.LinkedBookingID == outboundID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, NewNotFoundError()
}

func (r *fakeRepo) CancelAtomic(ctx context.Context, orders []CancelOrder) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range orders {
		booking, ok := r.bookings[order.ID]
		if !ok {
			return nil, NewNotFoundError()
		}
		if booking.IsCancelled() {
			return nil, NewValidationError("booking %s is already cancelled", booking.BookingNumber)
		}
	}

	now := time.Now()
	cancelled := make([]Booking, 0, len(orders))
	for _, order := range orders {
		booking := r.bookings[order.ID]
		reason := order.Reason
		booking.Status = StatusCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = &reason
		for i := range booking.Seats {
			delete(r.seats, seatKey(booking.Seats[i].TripID, booking.Seats[i].SeatNumber))
			booking.Seats[i].Active = false
		}
		cancelled = append(cancelled, *booking)
	}
	return cancelled, nil
}

func (r *fakeRepo) MarkPaid(ctx context.Context, bookingID uuid.UUID, amount *int64, method string) (*Payment, *Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil, NewNotFoundError()
	}
	if booking.IsPaid() {
		return nil, nil, NewAlreadyPaidError()
	}

	paid := booking.TotalFare
	if amount != nil {
		paid = *amount
	}

	booking.PaymentStatus = PaymentCompleted
	booking.PaymentMethod = &method
	payment := Payment{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Amount:    paid,
		Method:    method,
		Status:    "completed",
		PaidAt:    time.Now(),
	}
	r.payments = append(r.payments, payment)

	copied := *booking
	return &payment, &copied, nil
}

func (r *fakeRepo) ListPayments(ctx context.Context, limit, offset int) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Payment, len(r.payments))
	copy(out, r.payments)
	return out, nil
}

func newTestService(repo Repository, tripService TripService) Service {
	return NewService(repo, tripService, nil, 5*time.Second)
}

func oneWayRequest(tripID uuid.UUID, seats []int) CreateBookingRequest {
	return CreateBookingRequest{
		TripID:         tripID.String(),
		SeatNumbers:    seats,
		PassengerCount: len(seats),
	}
}

func TestCreateBookingValidation(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	returnTripID := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)
	actor := Actor{UserID: uuid.New()}
	ctx := context.Background()

	cases := []struct {
		name  string
		actor Actor
		req   CreateBookingRequest
	}{
		{
			name:  "anonymous caller",
			actor: Actor{},
			req:   oneWayRequest(tripID, []int{1}),
		},
		{
			name:  "seat count mismatch",
			actor: actor,
			req: CreateBookingRequest{
				TripID:         tripID.String(),
				SeatNumbers:    []int{1, 2},
				PassengerCount: 3,
			},
		},
		{
			name:  "duplicate seat",
			actor: actor,
			req: CreateBookingRequest{
				TripID:         tripID.String(),
				SeatNumbers:    []int{5, 5},
				PassengerCount: 2,
			},
		},
		{
			name:  "non-positive seat",
			actor: actor,
			req:   oneWayRequest(tripID, []int{0}),
		},
		{
			name:  "seat beyond capacity",
			actor: actor,
			req:   oneWayRequest(tripID, []int{41}),
		},
		{
			name:  "unknown trip",
			actor: actor,
			req:   oneWayRequest(uuid.New(), []int{1}),
		},
		{
			name:  "round trip without return trip",
			actor: actor,
			req: CreateBookingRequest{
				TripID:         tripID.String(),
				SeatNumbers:    []int{1},
				PassengerCount: 1,
				BookingType:    string(TypeRoundTrip),
			},
		},
		{
			name:  "round trip back to same trip",
			actor: actor,
			req: CreateBookingRequest{
				TripID:         tripID.String(),
				SeatNumbers:    []int{1},
				PassengerCount: 1,
				BookingType:    string(TypeRoundTrip),
				ReturnTripID:   tripID.String(),
				ReturnSeats:    []int{1},
			},
		},
		{
			name:  "return fields on one-way",
			actor: actor,
			req: CreateBookingRequest{
				TripID:         tripID.String(),
				SeatNumbers:    []int{1},
				PassengerCount: 1,
				ReturnTripID:   returnTripID.String(),
				ReturnSeats:    []int{1},
			},
		},
		{
			name:  "booking for another passenger without privilege",
			actor: actor,
			req: CreateBookingRequest{
				TripID:          tripID.String(),
				SeatNumbers:     []int{1},
				PassengerCount:  1,
				PassengerUserID: uuid.New().String(),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, tc.actor, tc.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("expected validation error, got %v (%s)", err, KindOf(err))
			}
		})
	}
}

func TestCreateBookingComputesFare(t *testing.T) {
	tripSvc := newFakeTripService(45000)
	tripID := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)

	pair, err := svc.CreateBooking(context.Background(), Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{3, 4, 5}))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if pair.Outbound.TotalFare != 135000 {
		t.Errorf("total fare = %d, want 135000", pair.Outbound.TotalFare)
	}
	if pair.Outbound.Status != StatusConfirmed {
		t.Errorf("status = %s, want %s", pair.Outbound.Status, StatusConfirmed)
	}
	if pair.Outbound.PaymentStatus != PaymentPending {
		t.Errorf("payment status = %s, want %s", pair.Outbound.PaymentStatus, PaymentPending)
	}
}

func TestCreateBookingFareOverride(t *testing.T) {
	tripSvc := newFakeTripService(45000)
	tripID := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)

	override := int64(99000)
	req := oneWayRequest(tripID, []int{7})
	req.TotalFare = &override

	pair, err := svc.CreateBooking(context.Background(), Actor{UserID: uuid.New()}, req)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if pair.Outbound.TotalFare != override {
		t.Errorf("total fare = %d, want %d", pair.Outbound.TotalFare, override)
	}
}

// A round trip request without an explicit return seat set reserves the
// same physical seat numbers on both vehicles.
func TestCreateRoundTripSharesSeatSet(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	outboundTrip := tripSvc.addTrip(40)
	returnTrip := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)

	pair, err := svc.CreateBooking(context.Background(), Actor{UserID: uuid.New()}, CreateBookingRequest{
		TripID:         outboundTrip.String(),
		SeatNumbers:    []int{12, 13},
		PassengerCount: 2,
		BookingType:    string(TypeRoundTrip),
		ReturnTripID:   returnTrip.String(),
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if pair.Return == nil {
		t.Fatal("expected a return leg")
	}

	wantSeats := []int{12, 13}
	for _, leg := range []*Booking{pair.Outbound, pair.Return} {
		got := leg.SeatNumbers()
		if len(got) != len(wantSeats) {
			t.Fatalf("leg %s seats = %v, want %v", leg.BookingNumber, got, wantSeats)
		}
		for i := range wantSeats {
			if got[i] != wantSeats[i] {
				t.Errorf("leg %s seats = %v, want %v", leg.BookingNumber, got, wantSeats)
				break
			}
		}
	}

	for _, tripID := range []uuid.UUID{outboundTrip, returnTrip} {
		view, err := svc.SeatLedger(context.Background(), tripID)
		if err != nil {
			t.Fatalf("SeatLedger failed: %v", err)
		}
		for _, seat := range wantSeats {
			if !view.IsTaken(seat) {
				t.Errorf("seat %d not taken on trip %s", seat, tripID)
			}
		}
	}
}

func TestCreateRoundTripLinksLegs(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	outboundTrip := tripSvc.addTrip(40)
	returnTrip := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)

	pair, err := svc.CreateBooking(context.Background(), Actor{UserID: uuid.New()}, CreateBookingRequest{
		TripID:         outboundTrip.String(),
		SeatNumbers:    []int{10, 11},
		PassengerCount: 2,
		BookingType:    string(TypeRoundTrip),
		ReturnTripID:   returnTrip.String(),
		ReturnSeats:    []int{3, 4},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if pair.Return == nil {
		t.Fatal("expected a return leg")
	}

	if !strings.HasSuffix(pair.Outbound.BookingNumber, "-A") {
		t.Errorf("outbound number = %q, want suffix -A", pair.Outbound.BookingNumber)
	}
	if !strings.HasSuffix(pair.Return.BookingNumber, "-B") {
		t.Errorf("return number = %q, want suffix -B", pair.Return.BookingNumber)
	}
	if strings.TrimSuffix(pair.Outbound.BookingNumber, "-A") != strings.TrimSuffix(pair.Return.BookingNumber, "-B") {
		t.Errorf("legs do not share a base number: %q vs %q", pair.Outbound.BookingNumber, pair.Return.BookingNumber)
	}

	if pair.Outbound.LinkedBookingID == nil || *pair.Outbound.LinkedBookingID != pair.Return.ID {
		t.Error("outbound leg not linked to return leg")
	}
	if pair.Return.LinkedBookingID == nil || *pair.Return.LinkedBookingID != pair.Outbound.ID {
		t.Error("return leg not linked to outbound leg")
	}
	if !pair.Return.IsReturnLeg {
		t.Error("return leg not flagged as return")
	}
	if pair.TotalFare() != 200000 {
		t.Errorf("pair total fare = %d, want 200000", pair.TotalFare())
	}
}

func TestSeatConflictReportsOutboundFirst(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	outboundTrip := tripSvc.addTrip(40)
	returnTrip := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()

	// Claim seat 5 on both trips.
	if _, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(outboundTrip, []int{5})); err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}
	if _, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(returnTrip, []int{5})); err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	_, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, CreateBookingRequest{
		TripID:         outboundTrip.String(),
		SeatNumbers:    []int{5},
		PassengerCount: 1,
		BookingType:    string(TypeRoundTrip),
		ReturnTripID:   returnTrip.String(),
		ReturnSeats:    []int{5},
	})
	if err == nil {
		t.Fatal("expected seat conflict, got nil")
	}
	var bookingErr *Error
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if bookingErr.Kind != KindSeatUnavailable {
		t.Errorf("kind = %s, want %s", bookingErr.Kind, KindSeatUnavailable)
	}
	if bookingErr.Leg != LegOutbound {
		t.Errorf("conflict attributed to %s leg, want %s", bookingErr.Leg, LegOutbound)
	}
}

func TestReturnSeatConflictLeavesOutboundFree(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	outboundTrip := tripSvc.addTrip(40)
	returnTrip := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(returnTrip, []int{8})); err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	_, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, CreateBookingRequest{
		TripID:         outboundTrip.String(),
		SeatNumbers:    []int{8},
		PassengerCount: 1,
		BookingType:    string(TypeRoundTrip),
		ReturnTripID:   returnTrip.String(),
		ReturnSeats:    []int{8},
	})
	if err == nil {
		t.Fatal("expected seat conflict, got nil")
	}
	var bookingErr *Error
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if bookingErr.Leg != LegReturn {
		t.Errorf("conflict attributed to %s leg, want %s", bookingErr.Leg, LegReturn)
	}

	// The failed round trip must not have claimed the outbound seat.
	taken, err := repo.TakenSeats(ctx, outboundTrip)
	if err != nil {
		t.Fatalf("TakenSeats failed: %v", err)
	}
	if len(taken) != 0 {
		t.Errorf("outbound trip has claimed seats %v after failed round trip", taken)
	}
}

func TestConcurrentBookingSameSeat(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{12}))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case IsKind(err, KindSeatUnavailable):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
}

func TestConcurrentBookingDisjointSeats(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		seat := i + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{seat}))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Errorf("disjoint-seat booking failed: %v", err)
		}
	}

	taken, err := repo.TakenSeats(ctx, tripID)
	if err != nil {
		t.Fatalf("TakenSeats failed: %v", err)
	}
	if len(taken) != attempts {
		t.Errorf("taken seats = %v, want %d seats", taken, attempts)
	}
}

func TestGetBookingOwnership(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	svc := newTestService(newFakeRepo(), tripSvc)
	ctx := context.Background()

	owner := Actor{UserID: uuid.New()}
	pair, err := svc.CreateBooking(ctx, owner, oneWayRequest(tripID, []int{1}))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := svc.GetBooking(ctx, owner, pair.Outbound.ID); err != nil {
		t.Errorf("owner denied access to own booking: %v", err)
	}

	stranger := Actor{UserID: uuid.New()}
	if _, err := svc.GetBooking(ctx, stranger, pair.Outbound.ID); !IsKind(err, KindNotFound) {
		t.Errorf("stranger access returned %v, want %s", err, KindNotFound)
	}

	staff := Actor{UserID: uuid.New(), Privileged: true}
	if _, err := svc.GetBooking(ctx, staff, pair.Outbound.ID); err != nil {
		t.Errorf("privileged access failed: %v", err)
	}
}

func TestMarkPaidDefaultsToTotalFare(t *testing.T) {
	tripSvc := newFakeTripService(45000)
	tripID := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()

	pair, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{2, 3}))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	booking, payment, err := svc.MarkPaid(ctx, pair.Outbound.ID, MarkPaidRequest{Method: "card"})
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if payment.Amount != 90000 {
		t.Errorf("payment amount = %d, want total fare 90000", payment.Amount)
	}
	if booking.PaymentStatus != PaymentCompleted {
		t.Errorf("payment status = %s, want %s", booking.PaymentStatus, PaymentCompleted)
	}

	// A second payment must be rejected and leave the ledger untouched.
	if _, _, err := svc.MarkPaid(ctx, pair.Outbound.ID, MarkPaidRequest{Method: "card"}); !IsKind(err, KindAlreadyPaid) {
		t.Errorf("second MarkPaid returned %v, want %s", err, KindAlreadyPaid)
	}
	payments, err := svc.ListPayments(ctx, PaymentListQuery{})
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("payment ledger has %d entries, want 1", len(payments))
	}
}

func TestCancelReleasesSeats(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()

	pair, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{20, 21}))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	cancelled, err := svc.CancelBookings(ctx, []CancelOrder{{ID: pair.Outbound.ID, Reason: "change of plans"}})
	if err != nil {
		t.Fatalf("CancelBookings failed: %v", err)
	}
	if len(cancelled) != 1 || !cancelled[0].IsCancelled() {
		t.Fatalf("expected one cancelled booking, got %+v", cancelled)
	}

	// The seats are free again for the next passenger.
	if _, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{20, 21})); err != nil {
		t.Errorf("rebooking released seats failed: %v", err)
	}
}

// Cancellation flips state, it never erases history: the cancelled booking
// still records which seats it held even though the ledger has freed them.
func TestCancelledBookingKeepsSeatRecord(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(40)
	repo := newFakeRepo()
	svc := newTestService(repo, tripSvc)
	ctx := context.Background()
	owner := uuid.New()

	pair, err := svc.CreateBooking(ctx, Actor{UserID: owner}, oneWayRequest(tripID, []int{14, 15}))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	cancelled, err := svc.CancelBookings(ctx, []CancelOrder{{ID: pair.Outbound.ID, Reason: "change of plans"}})
	if err != nil {
		t.Fatalf("CancelBookings failed: %v", err)
	}

	booking := &cancelled[0]
	seats := booking.SeatNumbers()
	if len(seats) != booking.PassengerCount {
		t.Fatalf("cancelled booking has %d seat records, want %d", len(seats), booking.PassengerCount)
	}
	if seats[0] != 14 || seats[1] != 15 {
		t.Errorf("cancelled booking seats = %v, want [14 15]", seats)
	}
	for _, seat := range booking.Seats {
		if seat.Active {
			t.Errorf("seat %d still flagged active after cancellation", seat.SeatNumber)
		}
	}

	// The stored row keeps its seats too, not just the returned copy.
	stored, err := svc.GetBooking(ctx, Actor{UserID: owner}, pair.Outbound.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got := stored.SeatNumbers(); len(got) != 2 {
		t.Errorf("stored cancelled booking seats = %v, want [14 15]", got)
	}

	// But the ledger no longer counts them.
	view, err := svc.SeatLedger(ctx, tripID)
	if err != nil {
		t.Fatalf("SeatLedger failed: %v", err)
	}
	if view.IsTaken(14) || view.IsTaken(15) {
		t.Error("cancelled seats still taken in the ledger")
	}
}

func TestSeatLedgerView(t *testing.T) {
	tripSvc := newFakeTripService(50000)
	tripID := tripSvc.addTrip(5)
	svc := newTestService(newFakeRepo(), tripSvc)
	ctx := context.Background()

	if _, err := svc.CreateBooking(ctx, Actor{UserID: uuid.New()}, oneWayRequest(tripID, []int{2, 4})); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	view, err := svc.SeatLedger(ctx, tripID)
	if err != nil {
		t.Fatalf("SeatLedger failed: %v", err)
	}
	if view.Capacity != 5 {
		t.Errorf("capacity = %d, want 5", view.Capacity)
	}
	if !view.IsTaken(2) || !view.IsTaken(4) || view.IsTaken(3) {
		t.Errorf("taken seats = %v, want [2 4]", view.TakenSeats)
	}
	if free := view.FreeSeats(); len(free) != 3 {
		t.Errorf("free seats = %v, want [1 3 5]", free)
	}
}
