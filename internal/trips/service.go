package trips

import (
	"context"
	"fmt"
	"time"

	"busline/internal/shared/constants"
	"busline/pkg/cache"

	"github.com/google/uuid"
)

// DefaultSeatCapacity applies when a trip has no bus assigned or the bus
// record is missing.
const DefaultSeatCapacity = 40

// Service interface defines the contract for trip read access and fares
type Service interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetTripWithRelations(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListTrips(ctx context.Context, query TripListQuery) ([]TripResponse, int64, error)

	// Fare operations
	FarePerSeat(trip *Trip, route *Route) int64
	QuoteFare(ctx context.Context, tripID uuid.UUID, passengerCount int) (*FareQuote, error)

	// Capacity of the assigned bus, the configured default when none
	TripCapacity(ctx context.Context, tripID uuid.UUID) (int, error)
}

// FareQuote is a price preview for a trip and passenger count.
type FareQuote struct {
	TripID         string `json:"trip_id"`
	FarePerSeat    int64  `json:"fare_per_seat"`
	PassengerCount int    `json:"passenger_count"`
	TotalFare      int64  `json:"total_fare"`
}

type service struct {
	repo            Repository
	cache           cache.Service
	cacheTTL        time.Duration
	defaultCapacity int
}

// NewService creates a new trip service instance. The cache is optional; a
// nil cache disables the read-through layer. A non-positive
// defaultCapacity falls back to DefaultSeatCapacity.
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration, defaultCapacity int) Service {
	if defaultCapacity <= 0 {
		defaultCapacity = DefaultSeatCapacity
	}
	return &service{
		repo:            repo,
		cache:           cacheService,
		cacheTTL:        cacheTTL,
		defaultCapacity: defaultCapacity,
	}
}

func (s *service) GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetTripWithRelations(ctx context.Context, id uuid.UUID) (*Trip, error) {
	if s.cache == nil {
		return s.repo.GetByIDWithRelations(ctx, id)
	}

	var trip Trip
	key := constants.BuildTripDetailKey(id.String())
	err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetByIDWithRelations(ctx, id)
	}, &trip)
	if err != nil {
		// Cache trouble must never hide the trip; fall back to the store.
		return s.repo.GetByIDWithRelations(ctx, id)
	}
	return &trip, nil
}

func (s *service) ListTrips(ctx context.Context, query TripListQuery) ([]TripResponse, int64, error) {
	trips, total, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}

	responses := make([]TripResponse, 0, len(trips))
	for i := range trips {
		responses = append(responses, s.toResponse(&trips[i]))
	}
	return responses, total, nil
}

// FarePerSeat resolves the per-seat fare: trip override first, then the
// route base fare, then zero.
func (s *service) FarePerSeat(trip *Trip, route *Route) int64 {
	if trip != nil && trip.Fare != nil {
		return *trip.Fare
	}
	if route != nil {
		return route.BaseFare
	}
	return 0
}

func (s *service) QuoteFare(ctx context.Context, tripID uuid.UUID, passengerCount int) (*FareQuote, error) {
	if passengerCount < 1 {
		return nil, fmt.Errorf("passenger count must be at least 1")
	}

	trip, err := s.GetTripWithRelations(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	perSeat := s.FarePerSeat(trip, trip.Route)
	return &FareQuote{
		TripID:         trip.ID.String(),
		FarePerSeat:    perSeat,
		PassengerCount: passengerCount,
		TotalFare:      perSeat * int64(passengerCount),
	}, nil
}

func (s *service) TripCapacity(ctx context.Context, tripID uuid.UUID) (int, error) {
	trip, err := s.GetTripWithRelations(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.BusID == nil {
		return s.defaultCapacity, nil
	}
	if trip.Bus != nil && trip.Bus.Capacity > 0 {
		return trip.Bus.Capacity, nil
	}

	bus, err := s.repo.GetBusByID(ctx, *trip.BusID)
	if err != nil {
		// Missing bus record falls back to the default rather than failing
		// the whole booking flow.
		return s.defaultCapacity, nil
	}
	return bus.Capacity, nil
}

func (s *service) toResponse(trip *Trip) TripResponse {
	resp := TripResponse{
		ID:            trip.ID.String(),
		RouteID:       trip.RouteID.String(),
		TravelDate:    trip.TravelDate,
		DepartureTime: trip.DepartureTime,
		ArrivalTime:   trip.ArrivalTime,
		Status:        trip.Status,
		FarePerSeat:   s.FarePerSeat(trip, trip.Route),
		Capacity:      s.defaultCapacity,
	}
	if trip.Route != nil {
		resp.Origin = trip.Route.Origin
		resp.Destination = trip.Route.Destination
	}
	if trip.Bus != nil {
		resp.Capacity = trip.Bus.Capacity
		resp.BusPlate = trip.Bus.PlateNumber
	}
	return resp
}
