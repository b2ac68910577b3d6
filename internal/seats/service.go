package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skybook/internal/flights"
	"skybook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLayoutExists  = errors.New("seat layout already generated for aircraft")
	ErrLayoutMissing = errors.New("no seat layout generated for aircraft")
	ErrSeatNotFound  = errors.New("seat not found")
	ErrUnknownCabin  = errors.New("unknown cabin class")
)

// OccupancyProvider reports which seats are already assigned on a
// flight. The booking side implements this; keeping it an interface
// here avoids a dependency from the seat layout onto bookings.
type OccupancyProvider interface {
	OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]TicketOccupancy, error)
}

type Service interface {
	GenerateSeatsForAircraft(ctx context.Context, aircraftID string) ([]Seat, error)
	GetSeatMap(ctx context.Context, flightID string) (*SeatMap, error)
	GetSeatMapWithSelection(ctx context.Context, flightID uuid.UUID, selected []string) (*SeatMap, error)
	GetAdminSeatMap(ctx context.Context, flightID string) (*SeatMap, error)
	GetLayout(ctx context.Context, aircraftID uuid.UUID) ([]Seat, error)
	SetSeatBlocked(ctx context.Context, aircraftID, seatNumber string, blocked bool) error
}

type service struct {
	repo       Repository
	flightsSvc flights.Service
	occupancy  OccupancyProvider
}

func NewService(repo Repository, flightsSvc flights.Service, occupancy OccupancyProvider) *service {
	return &service{
		repo:       repo,
		flightsSvc: flightsSvc,
		occupancy:  occupancy,
	}
}

func (s *service) GenerateSeatsForAircraft(ctx context.Context, aircraftID string) ([]Seat, error) {
	aircraft, err := s.flightsSvc.GetAircraft(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountByAircraft(ctx, aircraft.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing seats: %w", err)
	}
	if count > 0 {
		return nil, ErrLayoutExists
	}

	layout := GenerateLayout(aircraft.ID, aircraft.BusinessSeats, aircraft.EconomySeats)
	if err := s.repo.CreateSeats(ctx, layout); err != nil {
		return nil, fmt.Errorf("failed to persist seat layout: %w", err)
	}

	logger.GetDefault().Info("seat layout generated",
		"aircraft_id", aircraft.ID.String(),
		"business_seats", aircraft.BusinessSeats,
		"economy_seats", aircraft.EconomySeats)

	return layout, nil
}

func (s *service) GetSeatMap(ctx context.Context, flightID string) (*SeatMap, error) {
	id, err := uuid.Parse(flightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}
	return s.GetSeatMapWithSelection(ctx, id, nil)
}

// GetSeatMapWithSelection builds the flight's seat map, marking the
// caller's currently selected seats. Booking sessions pass their
// selection here on every refresh so the client sees its own picks
// distinct from other passengers' assignments.
func (s *service) GetSeatMapWithSelection(ctx context.Context, flightID uuid.UUID, selected []string) (*SeatMap, error) {
	flight, err := s.flightsSvc.GetFlight(ctx, flightID.String())
	if err != nil {
		return nil, err
	}

	layout, err := s.GetLayout(ctx, flight.AircraftID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupancy.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat occupancy: %w", err)
	}

	pricing := s.flightsSvc.ResolvePricing(ctx, flightID, time.Now())
	seatMap := BuildSeatMap(flightID, layout, occupied, selected, SeatPrices{
		Business: pricing.BusinessPrice,
		Economy:  pricing.EconomyPrice,
	})

	return &seatMap, nil
}

// GetAdminSeatMap renders the occupant-annotated seat map for the
// operator console: taken seats show the passenger's name and whether
// the seat was paid-selected.
func (s *service) GetAdminSeatMap(ctx context.Context, flightID string) (*SeatMap, error) {
	id, err := uuid.Parse(flightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	flight, err := s.flightsSvc.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	layout, err := s.GetLayout(ctx, flight.AircraftID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupancy.OccupiedSeats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat occupancy: %w", err)
	}

	pricing := s.flightsSvc.ResolvePricing(ctx, id, time.Now())
	seatMap := BuildAdminSeatMap(id, layout, occupied, SeatPrices{
		Business: pricing.BusinessPrice,
		Economy:  pricing.EconomyPrice,
	})

	return &seatMap, nil
}

func (s *service) GetLayout(ctx context.Context, aircraftID uuid.UUID) ([]Seat, error) {
	layout, err := s.repo.GetSeatsByAircraft(ctx, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat layout: %w", err)
	}
	if len(layout) == 0 {
		return nil, ErrLayoutMissing
	}
	return layout, nil
}

func (s *service) SetSeatBlocked(ctx context.Context, aircraftID, seatNumber string, blocked bool) error {
	id, err := uuid.Parse(aircraftID)
	if err != nil {
		return fmt.Errorf("invalid aircraft ID: %w", err)
	}

	if err := s.repo.SetBlocked(ctx, id, seatNumber, blocked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeatNotFound
		}
		return fmt.Errorf("failed to update seat: %w", err)
	}

	return nil
}
