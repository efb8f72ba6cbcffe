package bookings

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLockTripsDeduplicates(t *testing.T) {
	locker := newTripLocker()
	tripID := uuid.New()

	// Passing the same trip twice must not self-deadlock.
	done := make(chan struct{})
	go func() {
		unlock := locker.LockTrips(tripID, tripID)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("LockTrips deadlocked on duplicate trip ids")
	}
}

func TestLockTripsOrderIndependent(t *testing.T) {
	locker := newTripLocker()
	a, b := uuid.New(), uuid.New()

	// Two goroutines locking the same pair in opposite argument order must
	// both complete; sorted acquisition prevents the lock-order inversion.
	done := make(chan struct{}, 2)
	for i := 0; i < 50; i++ {
		go func() {
			unlock := locker.LockTrips(a, b)
			unlock()
			done <- struct{}{}
		}()
		go func() {
			unlock := locker.LockTrips(b, a)
			unlock()
			done <- struct{}{}
		}()
	}

	for i := 0; i < 100; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("LockTrips deadlocked under opposite-order contention")
		}
	}
}

func TestLockTripsExcludes(t *testing.T) {
	locker := newTripLocker()
	tripID := uuid.New()

	unlock := locker.LockTrips(tripID)

	acquired := make(chan struct{})
	go func() {
		second := locker.LockTrips(tripID)
		second()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second LockTrips acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second LockTrips never acquired after release")
	}
}
