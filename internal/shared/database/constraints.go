package database

import (
	"strings"

	"gorm.io/gorm"
)

// MigrateConstraints adds the concurrency-control constraints AutoMigrate
// cannot express.
func MigrateConstraints(db *gorm.DB) error {
	// One assigned seat per flight. Partial so unseated tickets
	// (seat_assigned = false) do not collide on the empty seat number.
	// Submissions that lose a seat race fail here with SQLSTATE 23505.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_flight_seat
		ON tickets (flight_id, seat_number)
		WHERE seat_assigned;
	`).Error
	if err != nil {
		return err
	}

	// Occupancy lookups scan a flight's assigned tickets constantly.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_flight_assigned
		ON tickets (flight_id)
		WHERE seat_assigned;
	`).Error
	if err != nil {
		return err
	}

	// Available seats can never go negative.
	err = db.Exec(`
		ALTER TABLE flights
		ADD CONSTRAINT chk_available_seats_non_negative
		CHECK (available_seats >= 0);
	`).Error
	if err != nil {
		// Re-running migrations hits the already-exists error; ignore it.
		if !isDuplicateConstraint(err) {
			return err
		}
	}

	return nil
}

func isDuplicateConstraint(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "42710"))
}
