package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Busline application
// Pattern: busline:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_MEDIUM = 12 * time.Hour // 12 hours - for route networks
	TTL_STATIC_SHORT  = 6 * time.Hour  // 6 hours - for bus fleets
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for trip details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for trip listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for departure boards
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute  // 5 minutes - for fare lookups
	TTL_DYNAMIC_QUICK = 2 * time.Minute  // 2 minutes - for booking availability
	TTL_REALTIME      = 30 * time.Second // 30 seconds - for live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "busline"
)

// ================== TRIPS MODULE ==================

// Trip Cache Keys
const (
	CACHE_KEY_TRIPS_LIST   = CACHE_PREFIX + ":trips:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_TRIP_DETAIL  = CACHE_PREFIX + ":trips:detail:uuid:" // + trip-id (with route and bus)
	CACHE_KEY_ROUTES_LIST  = CACHE_PREFIX + ":routes:list"
	CACHE_KEY_ROUTE_DETAIL = CACHE_PREFIX + ":routes:detail:uuid:" // + route-id
)

// Trip Cache TTLs
const (
	TTL_TRIP_LIST    = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_TRIP_DETAIL  = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_ROUTE_DETAIL = TTL_STATIC_MEDIUM      // 12 hours
)

// ================== SEATS MODULE ==================

// Seat Cache Keys
const (
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":seats:map:trip:" // + trip-id
)

// Seat Cache TTLs
const (
	TTL_SEAT_MAP = TTL_REALTIME // 30 seconds
)

// ================== RATE LIMITING ==================

const (
	RATELIMIT_PREFIX = CACHE_PREFIX + ":ratelimit" // + :type:identifier
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	INVALIDATE_TRIPS_ALL  = CACHE_PREFIX + ":trips:*"
	INVALIDATE_ROUTES_ALL = CACHE_PREFIX + ":routes:*"
	INVALIDATE_SEAT_MAPS  = CACHE_PREFIX + ":seats:map:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildTripListKey constructs a cache key for paginated trip listings
func BuildTripListKey(page, limit int, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s:page:%d:limit:%d:status:%s", CACHE_KEY_TRIPS_LIST, page, limit, status)
}

// BuildTripDetailKey constructs a cache key for a trip with its relations
func BuildTripDetailKey(tripID string) string {
	return CACHE_KEY_TRIP_DETAIL + tripID
}

// BuildSeatMapKey constructs a cache key for a trip seat map
func BuildSeatMapKey(tripID string) string {
	return CACHE_KEY_SEAT_MAP + tripID
}
