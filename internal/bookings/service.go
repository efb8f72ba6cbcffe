package bookings

import (
	"context"
	"time"

	"busline/internal/trips"
	"busline/pkg/logger"

	"github.com/google/uuid"
)

// TripService is the slice of the trips service the booking core needs:
// trip lookup, fare resolution and seat capacity.
type TripService interface {
	GetTripWithRelations(ctx context.Context, id uuid.UUID) (*trips.Trip, error)
	FarePerSeat(trip *trips.Trip, route *trips.Route) int64
	TripCapacity(ctx context.Context, tripID uuid.UUID) (int, error)
}

// Notifier receives booking lifecycle events. Implementations must not
// block; the service calls these after commit, fire-and-forget.
type Notifier interface {
	BookingConfirmed(booking *Booking)
	BookingCancelled(booking *Booking)
	PaymentReceived(booking *Booking, payment *Payment)
}

// Actor is the authenticated caller on whose behalf an operation runs.
type Actor struct {
	UserID     uuid.UUID
	Privileged bool
}

type Service interface {
	CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingPair, error)
	GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	SeatLedger(ctx context.Context, tripID uuid.UUID) (*SeatLedgerView, error)
	MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*Booking, *Payment, error)
	ListPayments(ctx context.Context, query PaymentListQuery) ([]Payment, error)

	// Cancellation support; policy lives in the cancellation package.
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindLinkedLeg(ctx context.Context, booking *Booking) (*Booking, error)
	CancelBookings(ctx context.Context, orders []CancelOrder) ([]Booking, error)
}

type service struct {
	repo             Repository
	trips            TripService
	numbers          *NumberGenerator
	locker           *tripLocker
	notifier         Notifier
	operationTimeout time.Duration
}

func NewService(repo Repository, tripService TripService, notifier Notifier, operationTimeout time.Duration) Service {
	return &service{
		repo:             repo,
		trips:            tripService,
		numbers:          NewNumberGenerator(),
		locker:           newTripLocker(),
		notifier:         notifier,
		operationTimeout: operationTimeout,
	}
}

// CreateBooking books one or both legs atomically. Seat availability is
// decided per trip under the per-trip lock, outbound first, and the
// storage transaction re-checks before committing.
func (s *service) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	if actor.UserID == uuid.Nil {
		return nil, NewValidationError("a signed-in user is required to book")
	}

	ownerID := actor.UserID
	if req.PassengerUserID != "" {
		if !actor.Privileged {
			return nil, NewValidationError("only staff can book on behalf of another passenger")
		}
		parsed, err := uuid.Parse(req.PassengerUserID)
		if err != nil {
			return nil, NewValidationError("invalid passenger user id")
		}
		ownerID = parsed
	}

	bookingType := TypeOneWay
	if req.BookingType != "" {
		bookingType = BookingType(req.BookingType)
		if !bookingType.IsValid() {
			return nil, NewValidationError("invalid booking type %q", req.BookingType)
		}
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, NewValidationError("invalid trip id")
	}

	if err := validateSeatSelection(req.SeatNumbers, req.PassengerCount, LegOutbound); err != nil {
		return nil, err
	}

	var returnTripID uuid.UUID
	if bookingType == TypeRoundTrip {
		if req.ReturnTripID == "" {
			return nil, NewValidationError("round trip bookings require a return trip")
		}
		returnTripID, err = uuid.Parse(req.ReturnTripID)
		if err != nil {
			return nil, NewValidationError("invalid return trip id")
		}
		if returnTripID == tripID {
			return nil, NewValidationError("return trip must differ from the outbound trip")
		}
		// The outbound selection carries over: the same physical seat
		// numbers are reserved on the return vehicle unless overridden.
		if len(req.ReturnSeats) == 0 {
			req.ReturnSeats = req.SeatNumbers
		}
		if err := validateSeatSelection(req.ReturnSeats, req.PassengerCount, LegReturn); err != nil {
			return nil, err
		}
	} else if req.ReturnTripID != "" || len(req.ReturnSeats) > 0 {
		return nil, NewValidationError("return trip fields are only valid for round trip bookings")
	}

	_, outboundFare, err := s.resolveTrip(ctx, tripID, req.SeatNumbers, req.TotalFare, req.PassengerCount, LegOutbound)
	if err != nil {
		return nil, err
	}

	var returnFare int64
	if bookingType == TypeRoundTrip {
		_, returnFare, err = s.resolveTrip(ctx, returnTripID, req.ReturnSeats, req.ReturnTotalFare, req.PassengerCount, LegReturn)
		if err != nil {
			return nil, err
		}
	}

	// Serialize seat decisions per trip in-process; the store re-checks.
	lockIDs := []uuid.UUID{tripID}
	if bookingType == TypeRoundTrip {
		lockIDs = append(lockIDs, returnTripID)
	}
	unlock := s.locker.LockTrips(lockIDs...)
	defer unlock()

	// Outbound availability is decided before the return leg is looked at,
	// so a return-seat conflict never reports as an outbound failure.
	if err := s.checkAvailability(ctx, tripID, req.SeatNumbers, LegOutbound); err != nil {
		return nil, err
	}
	if bookingType == TypeRoundTrip {
		if err := s.checkAvailability(ctx, returnTripID, req.ReturnSeats, LegReturn); err != nil {
			return nil, err
		}
	}

	base, err := s.numbers.NewBaseNumber()
	if err != nil {
		return nil, NewTransientError("failed to generate booking number", err)
	}

	var method *string
	if req.PaymentMethod != "" {
		m := req.PaymentMethod
		method = &m
	}

	pair := &BookingPair{
		Outbound: &Booking{
			BookingNumber:  OutboundNumber(base, bookingType),
			UserID:         ownerID,
			TripID:         tripID,
			PassengerCount: req.PassengerCount,
			TotalFare:      outboundFare,
			Status:         StatusConfirmed,
			PaymentStatus:  PaymentPending,
			PaymentMethod:  method,
			BookingType:    bookingType,
			Seats:          seatRows(tripID, req.SeatNumbers),
		},
	}
	if bookingType == TypeRoundTrip {
		pair.Return = &Booking{
			BookingNumber:  ReturnNumber(base),
			UserID:         ownerID,
			TripID:         returnTripID,
			PassengerCount: req.PassengerCount,
			TotalFare:      returnFare,
			Status:         StatusConfirmed,
			PaymentStatus:  PaymentPending,
			PaymentMethod:  method,
			BookingType:    bookingType,
			IsReturnLeg:    true,
			Seats:          seatRows(returnTripID, req.ReturnSeats),
		}
	}

	if err := s.repo.CreatePair(ctx, pair); err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, pair.Outbound.BookingNumber, tripID.String(), ownerID.String(), pair.TotalFare())

	if s.notifier != nil {
		s.notifier.BookingConfirmed(pair.Outbound)
		if pair.Return != nil {
			s.notifier.BookingConfirmed(pair.Return)
		}
	}

	return pair, nil
}

func validateSeatSelection(seats []int, passengerCount int, leg Leg) error {
	if passengerCount < 1 {
		return NewValidationError("passenger count must be at least 1")
	}
	if len(seats) != passengerCount {
		return NewValidationError("%s seat count (%d) must match passenger count (%d)", leg, len(seats), passengerCount)
	}
	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if seat < 1 {
			return NewValidationError("%s seat numbers must be positive, got %d", leg, seat)
		}
		if _, ok := seen[seat]; ok {
			return NewValidationError("%s seat %d selected more than once", leg, seat)
		}
		seen[seat] = struct{}{}
	}
	return nil
}

// resolveTrip loads the trip, confirms it is bookable and the seats fit the
// bus, and resolves the leg fare: explicit override first, computed
// per-seat fare otherwise.
func (s *service) resolveTrip(ctx context.Context, tripID uuid.UUID, seats []int, fareOverride *int64, passengerCount int, leg Leg) (*trips.Trip, int64, error) {
	trip, err := s.trips.GetTripWithRelations(ctx, tripID)
	if err != nil {
		return nil, 0, NewValidationError("%s trip not found", leg)
	}
	if !trip.Status.IsBookable() {
		return nil, 0, NewValidationError("%s trip is not open for booking (status %s)", leg, trip.Status)
	}

	capacity, err := s.trips.TripCapacity(ctx, tripID)
	if err != nil {
		return nil, 0, NewTransientError("failed to resolve trip capacity", err)
	}
	for _, seat := range seats {
		if seat > capacity {
			return nil, 0, NewValidationError("%s seat %d exceeds bus capacity %d", leg, seat, capacity)
		}
	}

	if fareOverride != nil {
		return trip, *fareOverride, nil
	}
	perSeat := s.trips.FarePerSeat(trip, trip.Route)
	return trip, perSeat * int64(passengerCount), nil
}

func (s *service) checkAvailability(ctx context.Context, tripID uuid.UUID, seats []int, leg Leg) error {
	taken, err := s.repo.TakenSeats(ctx, tripID)
	if err != nil {
		return err
	}
	takenSet := make(map[int]struct{}, len(taken))
	for _, seat := range taken {
		takenSet[seat] = struct{}{}
	}
	var conflicts []int
	for _, seat := range seats {
		if _, ok := takenSet[seat]; ok {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		logger.GetDefault().LogSeatConflict(ctx, tripID.String(), conflicts)
		return NewSeatUnavailableError(leg, conflicts)
	}
	return nil
}

func seatRows(tripID uuid.UUID, seats []int) []BookingSeat {
	rows := make([]BookingSeat, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, BookingSeat{TripID: tripID, SeatNumber: seat, Active: true})
	}
	return rows
}

// GetBooking enforces ownership: passengers only see their own bookings.
func (s *service) GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Privileged && booking.UserID != actor.UserID {
		return nil, NewNotFoundError()
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetByUserID(ctx, userID, query)
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetAll(ctx, query)
}

// SeatLedger derives the seat occupancy for a trip from its non-cancelled
// bookings.
func (s *service) SeatLedger(ctx context.Context, tripID uuid.UUID) (*SeatLedgerView, error) {
	capacity, err := s.trips.TripCapacity(ctx, tripID)
	if err != nil {
		return nil, NewValidationError("trip not found")
	}
	taken, err := s.repo.TakenSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &SeatLedgerView{TripID: tripID, Capacity: capacity, TakenSeats: taken}, nil
}

// MarkPaid records a completed payment for a booking. The amount defaults
// to the booking's total fare when not supplied.
func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*Booking, *Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	if req.Method == "" {
		return nil, nil, NewValidationError("payment method is required")
	}

	payment, booking, err := s.repo.MarkPaid(ctx, id, req.Amount, req.Method)
	if err != nil {
		return nil, nil, err
	}

	logger.GetDefault().LogPaymentRecorded(ctx, booking.BookingNumber, payment.Method, payment.Amount)

	if s.notifier != nil {
		s.notifier.PaymentReceived(booking, payment)
	}
	return booking, payment, nil
}

func (s *service) ListPayments(ctx context.Context, query PaymentListQuery) ([]Payment, error) {
	return s.repo.ListPayments(ctx, query.Limit, query.Offset)
}

func (s *service) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// FindLinkedLeg resolves the other half of a round trip, via the stored
// link when present and by reverse lookup for legacy rows without one.
func (s *service) FindLinkedLeg(ctx context.Context, booking *Booking) (*Booking, error) {
	if !booking.IsRoundTrip() {
		return nil, nil
	}
	if booking.LinkedBookingID != nil {
		linked, err := s.repo.GetByID(ctx, *booking.LinkedBookingID)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return linked, nil
	}
	linked, err := s.repo.FindReturnLeg(ctx, booking.ID)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return linked, nil
}

func (s *service) CancelBookings(ctx context.Context, orders []CancelOrder) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	cancelled, err := s.repo.CancelAtomic(ctx, orders)
	if err != nil {
		return nil, err
	}

	for i := range cancelled {
		reason := ""
		if cancelled[i].CancellationReason != nil {
			reason = *cancelled[i].CancellationReason
		}
		logger.GetDefault().LogBookingCancelled(ctx, cancelled[i].BookingNumber, reason)
		if s.notifier != nil {
			s.notifier.BookingCancelled(&cancelled[i])
		}
	}
	return cancelled, nil
}
