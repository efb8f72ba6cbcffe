package seats

import (
	"context"
	"fmt"
	"time"

	"busline/internal/bookings"
	"busline/internal/trips"
	"busline/pkg/logger"

	"github.com/google/uuid"
)

// SeatLedger exposes the booked-seat view the hold service validates
// against before touching Redis.
type SeatLedger interface {
	SeatLedger(ctx context.Context, tripID uuid.UUID) (*bookings.SeatLedgerView, error)
}

// Service interface defines the contract for transient seat holds
type Service interface {
	HoldSeats(ctx context.Context, userID uuid.UUID, req HoldSeatsRequest) (*HoldSeatsResponse, error)
	ReleaseHold(ctx context.Context, holdID string) (*ReleaseHoldResponse, error)
	TripHolds(ctx context.Context, tripID uuid.UUID) (*TripHoldsResponse, error)
}

type service struct {
	atomic  *AtomicRedisOperations
	trips   trips.Service
	ledger  SeatLedger
	holdTTL time.Duration
}

func NewService(atomic *AtomicRedisOperations, tripService trips.Service, ledger SeatLedger, holdTTL time.Duration) Service {
	return &service{
		atomic:  atomic,
		trips:   tripService,
		ledger:  ledger,
		holdTTL: holdTTL,
	}
}

// HoldSeats places a TTL-bound hold on seat numbers for a trip. Holds are
// advisory: they keep two browsers from selecting the same seats, but the
// booking transaction remains the only durable claim.
func (s *service) HoldSeats(ctx context.Context, userID uuid.UUID, req HoldSeatsRequest) (*HoldSeatsResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", err)
	}

	trip, err := s.trips.GetTripWithRelations(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("trip not found: %w", err)
	}
	if !trip.Status.IsBookable() {
		return nil, fmt.Errorf("trip is not open for booking (status %s)", trip.Status)
	}

	capacity, err := s.trips.TripCapacity(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trip capacity: %w", err)
	}

	seen := make(map[int]struct{}, len(req.SeatNumbers))
	for _, seat := range req.SeatNumbers {
		if seat < 1 || seat > capacity {
			return nil, fmt.Errorf("seat %d is out of range 1..%d", seat, capacity)
		}
		if _, ok := seen[seat]; ok {
			return nil, fmt.Errorf("seat %d selected more than once", seat)
		}
		seen[seat] = struct{}{}
	}

	// Booked seats can never be held, regardless of Redis state.
	view, err := s.ledger.SeatLedger(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to read seat availability: %w", err)
	}
	for _, seat := range req.SeatNumbers {
		if view.IsTaken(seat) {
			return nil, fmt.Errorf("seat %d is already booked", seat)
		}
	}

	holdID := "hold_" + uuid.New().String()

	logger.GetDefault().Info("Holding seats", "holdID", holdID, "tripID", tripID.String(), "ttl", s.holdTTL)

	if err := s.atomic.AtomicHoldSeats(ctx, tripID, userID, holdID, req.SeatNumbers, s.holdTTL); err != nil {
		return nil, err
	}

	return &HoldSeatsResponse{
		HoldID:      holdID,
		TripID:      tripID.String(),
		SeatNumbers: req.SeatNumbers,
		ExpiresAt:   time.Now().Add(s.holdTTL),
		TTLSeconds:  int(s.holdTTL.Seconds()),
	}, nil
}

// TripHolds reports the seats currently held for a trip so the picker can
// grey them out alongside the booked ones.
func (s *service) TripHolds(ctx context.Context, tripID uuid.UUID) (*TripHoldsResponse, error) {
	if _, err := s.trips.GetTripWithRelations(ctx, tripID); err != nil {
		return nil, fmt.Errorf("trip not found: %w", err)
	}

	held, err := s.atomic.HeldSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return &TripHoldsResponse{TripID: tripID.String(), HeldSeats: held}, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID string) (*ReleaseHoldResponse, error) {
	released, err := s.atomic.AtomicReleaseHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	return &ReleaseHoldResponse{HoldID: holdID, ReleasedSeats: released}, nil
}
