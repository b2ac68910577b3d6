package seats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrices() SeatPrices {
	return SeatPrices{Business: 1500, Economy: 500}
}

func TestBuildSeatMap_BusinessCabinFirst(t *testing.T) {
	flightID := uuid.New()
	layout := GenerateLayout(uuid.New(), 4, 6)

	seatMap := BuildSeatMap(flightID, layout, nil, nil, testPrices())

	require.Len(t, seatMap.Cabins, 2)
	assert.Equal(t, ClassBusiness, seatMap.Cabins[0].CabinClass)
	assert.Equal(t, ClassEconomy, seatMap.Cabins[1].CabinClass)
	assert.Equal(t, 1500.0, seatMap.Cabins[0].SeatPrice)
	assert.Equal(t, 500.0, seatMap.Cabins[1].SeatPrice)
	assert.Equal(t, flightID, seatMap.FlightID)
}

func TestBuildSeatMap_RowAndLetterOrdering(t *testing.T) {
	// Feed the layout in scrambled order; the map must still come out
	// rows ascending, letters ascending.
	layout := GenerateLayout(uuid.New(), 0, 12)
	scrambled := []Seat{layout[7], layout[2], layout[11], layout[0], layout[5], layout[9],
		layout[1], layout[10], layout[4], layout[8], layout[3], layout[6]}

	seatMap := BuildSeatMap(uuid.New(), scrambled, nil, nil, testPrices())

	require.Len(t, seatMap.Cabins, 1)
	cabin := seatMap.Cabins[0]
	require.Len(t, cabin.Rows, 2)
	assert.Equal(t, 1, cabin.Rows[0].Row)
	assert.Equal(t, 2, cabin.Rows[1].Row)

	letters := make([]string, 0, 6)
	for _, seat := range cabin.Rows[0].Seats {
		letters = append(letters, seat.Letter)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, letters)
}

func TestBuildSeatMap_Statuses(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 6)
	layout[5].Blocked = true // 1F

	occupied := []TicketOccupancy{{SeatNumber: "1B", CabinClass: ClassEconomy}}
	selected := []string{"1C"}

	seatMap := BuildSeatMap(uuid.New(), layout, occupied, selected, testPrices())

	statuses := map[string]string{}
	for _, row := range seatMap.Cabins[0].Rows {
		for _, seat := range row.Seats {
			statuses[seat.SeatNumber] = seat.Status
		}
	}

	assert.Equal(t, StatusAvailable, statuses["1A"])
	assert.Equal(t, StatusOccupied, statuses["1B"])
	assert.Equal(t, StatusSelected, statuses["1C"])
	assert.Equal(t, StatusBlocked, statuses["1F"])
}

func TestBuildSeatMap_NeverExposesOccupants(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 6)
	occupied := []TicketOccupancy{
		{SeatNumber: "1B", CabinClass: ClassEconomy, Passenger: "Asha Patel", SeatSelectionPaid: true},
	}

	seatMap := BuildSeatMap(uuid.New(), layout, occupied, nil, testPrices())

	for _, row := range seatMap.Cabins[0].Rows {
		for _, seat := range row.Seats {
			assert.Nil(t, seat.Occupant)
		}
	}
}

func TestBuildAdminSeatMap_ShowsOccupants(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 6)
	occupied := []TicketOccupancy{
		{SeatNumber: "1B", CabinClass: ClassEconomy, Passenger: "Asha Patel", SeatSelectionPaid: true},
		{SeatNumber: "1D", CabinClass: ClassEconomy, Passenger: "Daniel Kim", SeatSelectionPaid: false},
	}

	seatMap := BuildAdminSeatMap(uuid.New(), layout, occupied, testPrices())

	occupants := map[string]*OccupantView{}
	for _, row := range seatMap.Cabins[0].Rows {
		for _, seat := range row.Seats {
			occupants[seat.SeatNumber] = seat.Occupant
		}
	}

	require.NotNil(t, occupants["1B"])
	assert.Equal(t, "Asha Patel", occupants["1B"].Passenger)
	assert.True(t, occupants["1B"].SeatSelectionPaid)

	require.NotNil(t, occupants["1D"])
	assert.Equal(t, "Daniel Kim", occupants["1D"].Passenger)
	assert.False(t, occupants["1D"].SeatSelectionPaid)

	// Free seats carry no occupant
	assert.Nil(t, occupants["1A"])
}

func TestBuildSeatMap_AvailableCountsSelectedSeats(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 6)
	layout[0].Blocked = true

	occupied := []TicketOccupancy{{SeatNumber: "1B", CabinClass: ClassEconomy}}
	selected := []string{"1C"}

	seatMap := BuildSeatMap(uuid.New(), layout, occupied, selected, testPrices())

	cabin := seatMap.Cabins[0]
	assert.Equal(t, 6, cabin.Total)
	// Blocked and occupied are out; the caller's own selection still
	// counts as available to them.
	assert.Equal(t, 4, cabin.Available)
}

func TestBuildSeatMap_BlockedWinsOverOccupied(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 2)
	layout[0].Blocked = true

	occupied := []TicketOccupancy{{SeatNumber: "1A", CabinClass: ClassEconomy}}

	seatMap := BuildSeatMap(uuid.New(), layout, occupied, nil, testPrices())
	assert.Equal(t, StatusBlocked, seatMap.Cabins[0].Rows[0].Seats[0].Status)
}

func TestFirstAvailable_DeterministicOrder(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 4, 6)

	seat := FirstAvailable(layout, nil, ClassEconomy)
	require.NotNil(t, seat)
	assert.Equal(t, "2A", seat.SeatNumber)

	// Same input, same answer.
	again := FirstAvailable(layout, nil, ClassEconomy)
	require.NotNil(t, again)
	assert.Equal(t, seat.SeatNumber, again.SeatNumber)
}

func TestFirstAvailable_SkipsOccupiedAndBlocked(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 6)
	layout[1].Blocked = true // 1B

	occupied := []TicketOccupancy{{SeatNumber: "1A", CabinClass: ClassEconomy}}

	seat := FirstAvailable(layout, occupied, ClassEconomy)
	require.NotNil(t, seat)
	assert.Equal(t, "1C", seat.SeatNumber)
}

func TestFirstAvailable_FullCabin(t *testing.T) {
	layout := GenerateLayout(uuid.New(), 0, 2)
	occupied := []TicketOccupancy{
		{SeatNumber: "1A", CabinClass: ClassEconomy},
		{SeatNumber: "1B", CabinClass: ClassEconomy},
	}

	assert.Nil(t, FirstAvailable(layout, occupied, ClassEconomy))
	assert.Nil(t, FirstAvailable(layout, nil, ClassBusiness))
}
