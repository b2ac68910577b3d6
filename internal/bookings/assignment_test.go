package bookings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/internal/seats"
)

func TestAssignSeats_KeepsExplicitSelections(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 4, 6)
	passengers := []PassengerDraft{
		{CabinClass: seats.ClassEconomy, SeatNumber: "2C", SeatSelected: true},
		{CabinClass: seats.ClassEconomy},
	}

	assigned, err := assignSeats(layout, nil, passengers)
	require.NoError(t, err)

	assert.Equal(t, "2C", assigned[0].SeatNumber)
	// First free economy seat after the held one
	assert.Equal(t, "2A", assigned[1].SeatNumber)
	assert.False(t, assigned[1].SeatSelected)
}

func TestAssignSeats_SkipsSeatsHeldInSession(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 4, 6)
	passengers := []PassengerDraft{
		{CabinClass: seats.ClassEconomy, SeatNumber: "2A", SeatSelected: true},
		{CabinClass: seats.ClassEconomy},
		{CabinClass: seats.ClassEconomy},
	}

	assigned, err := assignSeats(layout, nil, passengers)
	require.NoError(t, err)

	assert.Equal(t, "2A", assigned[0].SeatNumber)
	assert.Equal(t, "2B", assigned[1].SeatNumber)
	assert.Equal(t, "2C", assigned[2].SeatNumber)
}

func TestAssignSeats_RespectsExistingOccupancy(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 0, 6)
	occupied := []seats.TicketOccupancy{
		{SeatNumber: "1A", CabinClass: seats.ClassEconomy},
		{SeatNumber: "1B", CabinClass: seats.ClassEconomy},
	}
	passengers := []PassengerDraft{{CabinClass: seats.ClassEconomy}}

	assigned, err := assignSeats(layout, occupied, passengers)
	require.NoError(t, err)

	assert.Equal(t, "1C", assigned[0].SeatNumber)
}

func TestAssignSeats_PerCabinClass(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 4, 6)
	passengers := []PassengerDraft{
		{CabinClass: seats.ClassBusiness},
		{CabinClass: seats.ClassEconomy},
	}

	assigned, err := assignSeats(layout, nil, passengers)
	require.NoError(t, err)

	assert.Equal(t, "1A", assigned[0].SeatNumber)
	assert.Equal(t, "2A", assigned[1].SeatNumber)
}

func TestAssignSeats_CabinFull(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 0, 2)
	occupied := []seats.TicketOccupancy{
		{SeatNumber: "1A", CabinClass: seats.ClassEconomy},
		{SeatNumber: "1B", CabinClass: seats.ClassEconomy},
	}
	passengers := []PassengerDraft{{CabinClass: seats.ClassEconomy}}

	_, err := assignSeats(layout, occupied, passengers)

	var noSeat *NoSeatAvailableError
	require.ErrorAs(t, err, &noSeat)
	assert.Equal(t, seats.ClassEconomy, noSeat.CabinClass)
}

func TestAssignSeats_DoesNotMutateInput(t *testing.T) {
	layout := seats.GenerateLayout(uuid.New(), 0, 6)
	passengers := []PassengerDraft{{CabinClass: seats.ClassEconomy}}

	_, err := assignSeats(layout, nil, passengers)
	require.NoError(t, err)

	assert.Empty(t, passengers[0].SeatNumber)
}
