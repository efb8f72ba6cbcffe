package bookings

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// tripLocker serializes seat-claim decisions per trip inside this process.
// The storage layer's row locks and the (trip_id, seat_number) unique index
// remain the cross-process backstop; this keeps the common case cheap and
// conflict-free. Locks are scoped per trip id so bookings on different
// trips never contend.
type tripLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newTripLocker() *tripLocker {
	return &tripLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *tripLocker) lockFor(tripID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[tripID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tripID] = m
	}
	return m
}

// LockTrips acquires the per-trip mutexes for the given trips in a
// deterministic (sorted) order so two round-trip requests touching the same
// pair of trips cannot deadlock. The returned function releases them in
// reverse order.
func (l *tripLocker) LockTrips(tripIDs ...uuid.UUID) func() {
	// Deduplicate then sort by string form for a stable global order.
	seen := make(map[uuid.UUID]struct{}, len(tripIDs))
	unique := make([]uuid.UUID, 0, len(tripIDs))
	for _, id := range tripIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := l.lockFor(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
