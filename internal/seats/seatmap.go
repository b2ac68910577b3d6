package seats

import (
	"sort"

	"github.com/google/uuid"
)

// SeatPrices carries the per-class base fares used to annotate a seat
// map. The seat-selection fee is not part of the map; it applies per
// selected seat at checkout.
type SeatPrices struct {
	Business float64
	Economy  float64
}

// BuildSeatMap renders the seat map for one flight from the aircraft's
// physical layout plus that flight's assigned tickets. Seats the
// caller has currently selected are marked SELECTED rather than
// AVAILABLE. Ordering is deterministic: business cabin before economy,
// rows ascending, letters ascending within a row.
func BuildSeatMap(flightID uuid.UUID, layout []Seat, occupied []TicketOccupancy, selected []string, prices SeatPrices) SeatMap {
	return buildSeatMap(flightID, layout, occupied, selected, prices, false)
}

// BuildAdminSeatMap is the operator variant: occupied seats carry the
// occupant's name and whether the seat was paid-selected. It must only
// be served behind the admin surface.
func BuildAdminSeatMap(flightID uuid.UUID, layout []Seat, occupied []TicketOccupancy, prices SeatPrices) SeatMap {
	return buildSeatMap(flightID, layout, occupied, nil, prices, true)
}

func buildSeatMap(flightID uuid.UUID, layout []Seat, occupied []TicketOccupancy, selected []string, prices SeatPrices, withOccupants bool) SeatMap {
	occupiedBy := make(map[string]TicketOccupancy, len(occupied))
	for _, t := range occupied {
		occupiedBy[t.SeatNumber] = t
	}
	selectedSet := make(map[string]bool, len(selected))
	for _, sn := range selected {
		selectedSet[sn] = true
	}

	byClass := map[string][]Seat{}
	for _, seat := range layout {
		byClass[seat.CabinClass] = append(byClass[seat.CabinClass], seat)
	}

	seatMap := SeatMap{FlightID: flightID}
	for _, class := range []string{ClassBusiness, ClassEconomy} {
		cabinSeats := byClass[class]
		if len(cabinSeats) == 0 {
			continue
		}
		seatMap.Cabins = append(seatMap.Cabins, buildCabin(class, cabinSeats, occupiedBy, selectedSet, prices, withOccupants))
	}

	return seatMap
}

func buildCabin(class string, cabinSeats []Seat, occupied map[string]TicketOccupancy, selected map[string]bool, prices SeatPrices, withOccupants bool) CabinView {
	price := prices.Economy
	if class == ClassBusiness {
		price = prices.Business
	}

	byRow := map[int][]Seat{}
	for _, seat := range cabinSeats {
		byRow[seat.Row] = append(byRow[seat.Row], seat)
	}

	rowNumbers := make([]int, 0, len(byRow))
	for row := range byRow {
		rowNumbers = append(rowNumbers, row)
	}
	sort.Ints(rowNumbers)

	cabin := CabinView{CabinClass: class, SeatPrice: price}
	for _, row := range rowNumbers {
		rowSeats := byRow[row]
		sort.Slice(rowSeats, func(i, j int) bool {
			return rowSeats[i].Letter < rowSeats[j].Letter
		})

		rowView := RowView{Row: row, Seats: make([]SeatView, 0, len(rowSeats))}
		for _, seat := range rowSeats {
			view := SeatView{
				SeatNumber: seat.SeatNumber,
				Row:        seat.Row,
				Letter:     seat.Letter,
				CabinClass: seat.CabinClass,
				Position:   seat.Position,
				Status:     seatStatus(seat, occupied, selected),
				Price:      price,
			}
			if withOccupants && view.Status == StatusOccupied {
				occ := occupied[seat.SeatNumber]
				view.Occupant = &OccupantView{
					Passenger:         occ.Passenger,
					SeatSelectionPaid: occ.SeatSelectionPaid,
				}
			}
			cabin.Total++
			if view.Status == StatusAvailable || view.Status == StatusSelected {
				cabin.Available++
			}
			rowView.Seats = append(rowView.Seats, view)
		}
		cabin.Rows = append(cabin.Rows, rowView)
	}

	return cabin
}

func seatStatus(seat Seat, occupied map[string]TicketOccupancy, selected map[string]bool) string {
	_, taken := occupied[seat.SeatNumber]
	switch {
	case seat.Blocked:
		return StatusBlocked
	case taken:
		return StatusOccupied
	case selected[seat.SeatNumber]:
		return StatusSelected
	default:
		return StatusAvailable
	}
}

// FirstAvailable returns the first free seat of the given cabin class
// in seat-map order, or nil when the cabin is full. Auto-assignment
// uses this after the deterministic ordering above, so two calls over
// the same state pick the same seat.
func FirstAvailable(layout []Seat, occupied []TicketOccupancy, class string) *Seat {
	occupiedSet := make(map[string]bool, len(occupied))
	for _, t := range occupied {
		occupiedSet[t.SeatNumber] = true
	}

	candidates := make([]Seat, 0, len(layout))
	for _, seat := range layout {
		if seat.CabinClass == class && !seat.Blocked && !occupiedSet[seat.SeatNumber] {
			candidates = append(candidates, seat)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Row != candidates[j].Row {
			return candidates[i].Row < candidates[j].Row
		}
		return candidates[i].Letter < candidates[j].Letter
	})

	seat := candidates[0]
	return &seat
}
