package database

import (
	"busline/internal/bookings"
	"busline/internal/trips"
	"busline/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&trips.Route{},
		&trips.Bus{},
		&trips.Trip{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Payment{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
