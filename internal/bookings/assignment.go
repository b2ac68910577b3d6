package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skybook/internal/seats"
)

// assignSeats fills in seat numbers for passengers who did not pick
// one. Explicitly selected seats are kept as-is; the rest get the
// first free seat of their cabin class in seat-map order, skipping
// seats other passengers in the same session hold.
func assignSeats(layout []seats.Seat, occupied []seats.TicketOccupancy, passengers []PassengerDraft) ([]PassengerDraft, error) {
	taken := make([]seats.TicketOccupancy, 0, len(occupied)+len(passengers))
	taken = append(taken, occupied...)
	for _, p := range passengers {
		if p.SeatSelected {
			taken = append(taken, seats.TicketOccupancy{SeatNumber: p.SeatNumber, CabinClass: p.CabinClass})
		}
	}

	assigned := make([]PassengerDraft, len(passengers))
	copy(assigned, passengers)

	for i := range assigned {
		if assigned[i].SeatSelected {
			continue
		}
		seat := seats.FirstAvailable(layout, taken, assigned[i].CabinClass)
		if seat == nil {
			return nil, &NoSeatAvailableError{CabinClass: assigned[i].CabinClass}
		}
		assigned[i].SeatNumber = seat.SeatNumber
		taken = append(taken, seats.TicketOccupancy{SeatNumber: seat.SeatNumber, CabinClass: seat.CabinClass})
	}

	return assigned, nil
}

// FlightTicketAssignments partitions a flight's live tickets into
// seated and pending for the seat-assignment console. Pending tickets
// come from count-mode bookings on aircraft that had no seat layout
// at submit time.
func (s *service) FlightTicketAssignments(ctx context.Context, flightID uuid.UUID) (*TicketAssignments, error) {
	if _, err := s.flightsSvc.GetFlight(ctx, flightID.String()); err != nil {
		return nil, err
	}

	tickets, err := s.repo.GetTicketsByFlight(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flight tickets: %w", err)
	}

	assignments := &TicketAssignments{
		FlightID: flightID,
		Assigned: []Ticket{},
		Pending:  []Ticket{},
	}
	for _, t := range tickets {
		if t.SeatAssigned && t.SeatNumber != "" {
			assignments.Assigned = append(assignments.Assigned, t)
		} else {
			assignments.Pending = append(assignments.Pending, t)
		}
	}
	return assignments, nil
}

// AssignSeatToTicket is the admin path: give an unseated ticket the
// first free seat of its class. Used when a counter agent finalizes
// seating for bookings that skipped selection.
func (s *service) AssignSeatToTicket(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	ticket, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.SeatAssigned {
		return ticket, nil
	}

	flight, err := s.flightsSvc.GetFlight(ctx, ticket.FlightID.String())
	if err != nil {
		return nil, err
	}

	layout, err := s.seatsSvc.GetLayout(ctx, flight.AircraftID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.repo.OccupiedSeats(ctx, ticket.FlightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat occupancy: %w", err)
	}

	seat := seats.FirstAvailable(layout, occupied, ticket.CabinClass)
	if seat == nil {
		return nil, &NoSeatAvailableError{CabinClass: ticket.CabinClass}
	}

	if err := s.repo.AssignTicketSeat(ctx, ticketID, seat.SeatNumber); err != nil {
		return nil, err
	}

	ticket.SeatNumber = seat.SeatNumber
	ticket.SeatAssigned = true
	s.logger.LogSeatAssigned(ctx, ticketID.String(), seat.SeatNumber, ticket.CabinClass)
	return ticket, nil
}
