package seats

import (
	"fmt"

	"github.com/google/uuid"
)

// Cabin layouts: business is a 2-2 configuration, economy 3-3.
var (
	businessLetters = []string{"A", "B", "C", "D"}
	economyLetters  = []string{"A", "B", "C", "D", "E", "F"}
)

func businessPosition(letter string) string {
	switch letter {
	case "A", "D":
		return PositionWindow
	default: // B, C flank the single aisle
		return PositionAisle
	}
}

func economyPosition(letter string) string {
	switch letter {
	case "A", "F":
		return PositionWindow
	case "C", "D":
		return PositionAisle
	default: // B, E
		return PositionMiddle
	}
}

// GenerateLayout produces the full seat layout for an aircraft.
// Business rows come first starting at row 1; economy rows continue
// from the row after the last business row. Seat numbers are
// row+letter, e.g. "3C".
func GenerateLayout(aircraftID uuid.UUID, businessSeats, economySeats int) []Seat {
	layout := make([]Seat, 0, businessSeats+economySeats)

	row := 1
	remaining := businessSeats
	for remaining > 0 {
		for _, letter := range businessLetters {
			if remaining == 0 {
				break
			}
			layout = append(layout, Seat{
				AircraftID: aircraftID,
				SeatNumber: fmt.Sprintf("%d%s", row, letter),
				Row:        row,
				Letter:     letter,
				CabinClass: ClassBusiness,
				Position:   businessPosition(letter),
			})
			remaining--
		}
		row++
	}

	remaining = economySeats
	for remaining > 0 {
		for _, letter := range economyLetters {
			if remaining == 0 {
				break
			}
			layout = append(layout, Seat{
				AircraftID: aircraftID,
				SeatNumber: fmt.Sprintf("%d%s", row, letter),
				Row:        row,
				Letter:     letter,
				CabinClass: ClassEconomy,
				Position:   economyPosition(letter),
			})
			remaining--
		}
		row++
	}

	return layout
}
