package seats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AtomicRedisOperations handles atomic Redis operations for seat holding
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// Lua script for atomic seat holding - prevents race conditions
const luaAtomicSeatHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = trip_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat numbers

local hold_id = KEYS[1]
local user_id = ARGV[1]
local trip_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- Check that no requested seat is already held on this trip
for i = 4, #ARGV do
    local seat = ARGV[i]
    local seat_hold_key = "trip_seat_hold:" .. trip_id .. ":" .. seat

    if redis.call("EXISTS", seat_hold_key) == 1 then
        return {0, seat}
    end
end

-- All seats are free to hold; claim them atomically
local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id
local user_holds_key = "user_holds:" .. user_id
local created_at = redis.call("TIME")[1]

redis.call("HMSET", hold_key,
    "user_id", user_id,
    "trip_id", trip_id,
    "seat_count", #ARGV - 3,
    "created_at", created_at
)
redis.call("EXPIRE", hold_key, ttl)

for i = 4, #ARGV do
    local seat = ARGV[i]
    local seat_hold_key = "trip_seat_hold:" .. trip_id .. ":" .. seat
    local hold_value = user_id .. ":" .. hold_id

    redis.call("SETEX", seat_hold_key, ttl, hold_value)
    redis.call("SADD", hold_seats_key, seat)
end

redis.call("EXPIRE", hold_seats_key, ttl)

redis.call("SADD", user_holds_key, hold_id)
redis.call("EXPIRE", user_holds_key, ttl)

return {1, "success"}
`

// Lua script for atomic seat release
const luaAtomicSeatRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id

local hold_data = redis.call("HGETALL", hold_key)
if #hold_data == 0 then
    return {0, "hold_not_found"}
end

local user_id = nil
local trip_id = nil
for i = 1, #hold_data, 2 do
    if hold_data[i] == "user_id" then
        user_id = hold_data[i + 1]
    elseif hold_data[i] == "trip_id" then
        trip_id = hold_data[i + 1]
    end
end

if not user_id or not trip_id then
    return {0, "invalid_hold_data"}
end

local seat_numbers = redis.call("SMEMBERS", hold_seats_key)

for i = 1, #seat_numbers do
    local seat_hold_key = "trip_seat_hold:" .. trip_id .. ":" .. seat_numbers[i]
    redis.call("DEL", seat_hold_key)
end

local user_holds_key = "user_holds:" .. user_id
redis.call("SREM", user_holds_key, hold_id)

redis.call("DEL", hold_key)
redis.call("DEL", hold_seats_key)

return {1, #seat_numbers}
`

// ErrSeatHeld reports the first seat that blocked an atomic hold.
type ErrSeatHeld struct {
	SeatNumber int
}

func (e *ErrSeatHeld) Error() string {
	return fmt.Sprintf("seat %d is already held", e.SeatNumber)
}

// AtomicHoldSeats atomically holds seat numbers on a trip using a Lua script
func (a *AtomicRedisOperations) AtomicHoldSeats(ctx context.Context, tripID, userID uuid.UUID, holdID string, seatNumbers []int, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{holdID}
	args := []interface{}{
		userID.String(),
		tripID.String(),
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, seat := range seatNumbers {
		args = append(args, strconv.Itoa(seat))
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicSeatHold, keys, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = a.redis.Eval(ctx, luaAtomicSeatHold, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic seat hold: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if conflictSeat, ok := resultArray[1].(string); ok {
			if seat, convErr := strconv.Atoi(conflictSeat); convErr == nil {
				return &ErrSeatHeld{SeatNumber: seat}
			}
		}
		return fmt.Errorf("failed to hold seats")
	}

	return nil
}

// AtomicReleaseHold atomically releases a hold using a Lua script
func (a *AtomicRedisOperations) AtomicReleaseHold(ctx context.Context, holdID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicSeatRelease, []string{holdID}).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = a.redis.Eval(ctx, luaAtomicSeatRelease, []string{holdID}).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if reason, ok := resultArray[1].(string); ok {
			return 0, fmt.Errorf("failed to release hold: %s", reason)
		}
		return 0, fmt.Errorf("failed to release hold")
	}

	releasedCount, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(releasedCount), nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicSeatHold).Result(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if _, err := a.redis.ScriptLoad(ctx, luaAtomicSeatRelease).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}

// HeldSeats lists the seat numbers currently under an active hold for a
// trip. Expired holds drop out automatically with their key TTLs.
func (a *AtomicRedisOperations) HeldSeats(ctx context.Context, tripID uuid.UUID) ([]int, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	pattern := fmt.Sprintf("trip_seat_hold:%s:*", tripID)
	prefixLen := len(pattern) - 1

	var held []int
	iter := a.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		seat, err := strconv.Atoi(iter.Val()[prefixLen:])
		if err != nil {
			continue
		}
		held = append(held, seat)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan seat holds: %w", err)
	}

	sort.Ints(held)
	return held, nil
}
