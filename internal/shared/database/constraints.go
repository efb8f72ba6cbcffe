package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints concurrency control
// depends on. AutoMigrate creates them too via struct tags; the raw
// statements make the invariants explicit and cover pre-existing schemas.
func MigrateConstraints(db *gorm.DB) error {
	// One physical seat per trip among active claims, no matter how the
	// booking row got in. Cancelled bookings keep their seat rows with
	// active cleared, so the index must be partial. The full index from
	// earlier schemas would block cancelled rows from freeing seats.
	err := db.Exec(`DROP INDEX IF EXISTS uniq_trip_seat;`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_trip_seat_active
		ON booking_seats (trip_id, seat_number) WHERE active;
	`).Error
	if err != nil {
		return err
	}

	// Booking numbers are globally unique; a generator collision must fail.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_booking_number
		ON bookings (booking_number);
	`).Error
	if err != nil {
		return err
	}

	// Seat availability queries scan by trip.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_seats_trip_id
		ON booking_seats (trip_id);
	`).Error
	if err != nil {
		return err
	}

	// Linked-leg lookups for round-trip cascades.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_linked_booking_id
		ON bookings (linked_booking_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
