package trips

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	trips map[uuid.UUID]*Trip
	buses map[uuid.UUID]*Bus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		trips: make(map[uuid.UUID]*Trip),
		buses: make(map[uuid.UUID]*Bus),
	}
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	trip, ok := r.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s not found", id)
	}
	return trip, nil
}

func (r *fakeRepo) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) GetRouteByID(ctx context.Context, id uuid.UUID) (*Route, error) {
	return nil, fmt.Errorf("route %s not found", id)
}

func (r *fakeRepo) GetBusByID(ctx context.Context, id uuid.UUID) (*Bus, error) {
	bus, ok := r.buses[id]
	if !ok {
		return nil, fmt.Errorf("bus %s not found", id)
	}
	return bus, nil
}

func (r *fakeRepo) GetAll(ctx context.Context, query TripListQuery) ([]Trip, int64, error) {
	return nil, 0, nil
}

func TestFarePerSeat(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, 0, 0)

	override := int64(80000)
	route := &Route{BaseFare: 45000}

	if got := svc.FarePerSeat(&Trip{Fare: &override}, route); got != override {
		t.Errorf("fare with trip override = %d, want %d", got, override)
	}
	if got := svc.FarePerSeat(&Trip{}, route); got != route.BaseFare {
		t.Errorf("fare from route = %d, want %d", got, route.BaseFare)
	}
	if got := svc.FarePerSeat(&Trip{}, nil); got != 0 {
		t.Errorf("fare with no route = %d, want 0", got)
	}
}

func TestQuoteFare(t *testing.T) {
	repo := newFakeRepo()
	tripID := uuid.New()
	repo.trips[tripID] = &Trip{
		ID:     tripID,
		Status: StatusScheduled,
		Route:  &Route{BaseFare: 52000},
	}
	svc := NewService(repo, nil, 0, 0)

	quote, err := svc.QuoteFare(context.Background(), tripID, 3)
	if err != nil {
		t.Fatalf("QuoteFare failed: %v", err)
	}
	if quote.FarePerSeat != 52000 {
		t.Errorf("fare per seat = %d, want 52000", quote.FarePerSeat)
	}
	if quote.TotalFare != 156000 {
		t.Errorf("total fare = %d, want 156000", quote.TotalFare)
	}

	if _, err := svc.QuoteFare(context.Background(), tripID, 0); err == nil {
		t.Error("expected error for zero passengers")
	}
}

func TestTripCapacity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0, 0)
	ctx := context.Background()

	// No bus assigned: fall back to the default.
	noBus := uuid.New()
	repo.trips[noBus] = &Trip{ID: noBus, Status: StatusScheduled}
	if got, err := svc.TripCapacity(ctx, noBus); err != nil || got != DefaultSeatCapacity {
		t.Errorf("capacity without bus = %d (%v), want %d", got, err, DefaultSeatCapacity)
	}

	// Preloaded bus wins.
	withBus := uuid.New()
	busID := uuid.New()
	repo.trips[withBus] = &Trip{ID: withBus, Status: StatusScheduled, BusID: &busID, Bus: &Bus{ID: busID, Capacity: 36}}
	if got, err := svc.TripCapacity(ctx, withBus); err != nil || got != 36 {
		t.Errorf("capacity with preloaded bus = %d (%v), want 36", got, err)
	}

	// Bus id set but record missing: default, not failure.
	danglingBus := uuid.New()
	missingBusID := uuid.New()
	repo.trips[danglingBus] = &Trip{ID: danglingBus, Status: StatusScheduled, BusID: &missingBusID}
	if got, err := svc.TripCapacity(ctx, danglingBus); err != nil || got != DefaultSeatCapacity {
		t.Errorf("capacity with missing bus record = %d (%v), want %d", got, err, DefaultSeatCapacity)
	}

	// A configured default overrides the built-in one.
	tuned := NewService(repo, nil, 0, 52)
	if got, err := tuned.TripCapacity(ctx, noBus); err != nil || got != 52 {
		t.Errorf("capacity with configured default = %d (%v), want 52", got, err)
	}
}

func TestTripStatusBookable(t *testing.T) {
	if !StatusScheduled.IsBookable() {
		t.Error("scheduled trips must be bookable")
	}
	for _, status := range []Status{StatusInProgress, StatusCompleted, StatusCancelled} {
		if status.IsBookable() {
			t.Errorf("status %s must not be bookable", status)
		}
	}
}
