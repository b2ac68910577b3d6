package database

import (
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/seats"
	"skybook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// Enable UUID generation
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&users.User{},
		&flights.Airport{},
		&flights.Aircraft{},
		&flights.Flight{},
		&flights.PricingRule{},
		&seats.Seat{},
		&bookings.Booking{},
		&bookings.Ticket{},
		&bookings.Payment{},
	); err != nil {
		return err
	}

	return MigrateConstraints(db)
}
