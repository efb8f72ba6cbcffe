package seats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"busline/internal/bookings"
	"busline/internal/trips"

	"github.com/google/uuid"
)

type fakeTripService struct {
	trips    map[uuid.UUID]*trips.Trip
	capacity int
}

func (f *fakeTripService) GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	return f.GetTripWithRelations(ctx, id)
}

func (f *fakeTripService) GetTripWithRelations(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s not found", id)
	}
	return trip, nil
}

func (f *fakeTripService) ListTrips(ctx context.Context, query trips.TripListQuery) ([]trips.TripResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeTripService) FarePerSeat(trip *trips.Trip, route *trips.Route) int64 {
	return 0
}

func (f *fakeTripService) QuoteFare(ctx context.Context, tripID uuid.UUID, passengerCount int) (*trips.FareQuote, error) {
	return nil, nil
}

func (f *fakeTripService) TripCapacity(ctx context.Context, tripID uuid.UUID) (int, error) {
	return f.capacity, nil
}

type fakeLedger struct {
	taken map[uuid.UUID][]int
}

func (f *fakeLedger) SeatLedger(ctx context.Context, tripID uuid.UUID) (*bookings.SeatLedgerView, error) {
	return &bookings.SeatLedgerView{TripID: tripID, Capacity: 40, TakenSeats: f.taken[tripID]}, nil
}

// All rejection paths run before any Redis call, so a nil atomic layer is
// safe here.
func TestHoldSeatsValidation(t *testing.T) {
	tripID := uuid.New()
	cancelledTripID := uuid.New()
	tripSvc := &fakeTripService{
		trips: map[uuid.UUID]*trips.Trip{
			tripID:          {ID: tripID, Status: trips.StatusScheduled},
			cancelledTripID: {ID: cancelledTripID, Status: trips.StatusCancelled},
		},
		capacity: 40,
	}
	ledger := &fakeLedger{taken: map[uuid.UUID][]int{tripID: {7}}}
	svc := NewService(nil, tripSvc, ledger, 10*time.Minute)
	userID := uuid.New()

	cases := []struct {
		name string
		req  HoldSeatsRequest
	}{
		{"malformed trip id", HoldSeatsRequest{TripID: "not-a-uuid", SeatNumbers: []int{1}}},
		{"unknown trip", HoldSeatsRequest{TripID: uuid.New().String(), SeatNumbers: []int{1}}},
		{"cancelled trip", HoldSeatsRequest{TripID: cancelledTripID.String(), SeatNumbers: []int{1}}},
		{"seat out of range", HoldSeatsRequest{TripID: tripID.String(), SeatNumbers: []int{41}}},
		{"non-positive seat", HoldSeatsRequest{TripID: tripID.String(), SeatNumbers: []int{0}}},
		{"duplicate seat", HoldSeatsRequest{TripID: tripID.String(), SeatNumbers: []int{3, 3}}},
		{"already booked seat", HoldSeatsRequest{TripID: tripID.String(), SeatNumbers: []int{7}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.HoldSeats(context.Background(), userID, tc.req); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTripHoldsUnknownTrip(t *testing.T) {
	tripSvc := &fakeTripService{trips: map[uuid.UUID]*trips.Trip{}, capacity: 40}
	svc := NewService(nil, tripSvc, &fakeLedger{}, 10*time.Minute)

	if _, err := svc.TripHolds(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown trip, got nil")
	}
}
