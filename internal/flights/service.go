package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrAirportNotFound  = errors.New("airport not found")
	ErrAircraftNotFound = errors.New("aircraft not found")
	ErrSeatSplitInvalid = errors.New("economy and business seats must sum to total seats")
)

type Service interface {
	// Flights
	CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error)
	GetFlight(ctx context.Context, id string) (*Flight, error)
	GetFlightWithPricing(ctx context.Context, id string) (*Flight, PricingSnapshot, error)
	ListFlights(ctx context.Context, page, limit int) ([]Flight, error)
	ListUpcomingFlights(ctx context.Context) ([]Flight, error)
	UpdateFlight(ctx context.Context, id string, req UpdateFlightRequest) (*Flight, error)
	DeleteFlight(ctx context.Context, id string) error

	// Airports
	CreateAirport(ctx context.Context, req CreateAirportRequest) (*Airport, error)
	ListAirports(ctx context.Context) ([]Airport, error)
	UpdateAirport(ctx context.Context, id string, req UpdateAirportRequest) (*Airport, error)
	DeleteAirport(ctx context.Context, id string) error

	// Aircraft
	CreateAircraft(ctx context.Context, req CreateAircraftRequest) (*Aircraft, error)
	GetAircraft(ctx context.Context, id string) (*Aircraft, error)
	ListAircraft(ctx context.Context) ([]Aircraft, error)
	DeleteAircraft(ctx context.Context, id string) error

	// Pricing
	CreatePricingRule(ctx context.Context, req CreatePricingRuleRequest) (*PricingRule, error)
	ListPricingRules(ctx context.Context, flightID string) ([]PricingRule, error)
	UpdatePricingRule(ctx context.Context, id string, req UpdatePricingRuleRequest) error
	DeletePricingRule(ctx context.Context, id string) error

	// ResolvePricing resolves the effective fare configuration for the
	// flight, falling back to defaults when no rule is active.
	ResolvePricing(ctx context.Context, flightID uuid.UUID, at time.Time) PricingSnapshot
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// FLIGHTS

func (s *service) CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error) {
	depID, err := uuid.Parse(req.DepartureAirportID)
	if err != nil {
		return nil, fmt.Errorf("invalid departure airport ID: %w", err)
	}
	arrID, err := uuid.Parse(req.ArrivalAirportID)
	if err != nil {
		return nil, fmt.Errorf("invalid arrival airport ID: %w", err)
	}
	aircraftID, err := uuid.Parse(req.AircraftID)
	if err != nil {
		return nil, fmt.Errorf("invalid aircraft ID: %w", err)
	}

	aircraft, err := s.repo.GetAircraftByID(ctx, aircraftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAircraftNotFound
		}
		return nil, fmt.Errorf("failed to get aircraft: %w", err)
	}

	flight := &Flight{
		FlightNumber:       req.FlightNumber,
		DepartureAirportID: depID,
		ArrivalAirportID:   arrID,
		AircraftID:         aircraftID,
		DepartureTime:      req.DepartureTime,
		ArrivalTime:        req.ArrivalTime,
		Status:             StatusScheduled,
		AvailableSeats:     aircraft.TotalSeats,
	}

	if err := s.repo.CreateFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	s.invalidateFlightCaches(ctx)
	return flight, nil
}

func (s *service) GetFlight(ctx context.Context, id string) (*Flight, error) {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	flight, err := s.repo.GetFlightByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return flight, nil
}

// GetFlightWithPricing returns the flight together with the fare
// configuration effective right now. The booking core calls this at
// session start so every session carries a fresh pricing snapshot.
func (s *service) GetFlightWithPricing(ctx context.Context, id string) (*Flight, PricingSnapshot, error) {
	flight, err := s.GetFlight(ctx, id)
	if err != nil {
		return nil, PricingSnapshot{}, err
	}

	pricing := s.ResolvePricing(ctx, flight.ID, time.Now())
	return flight, pricing, nil
}

func (s *service) ListFlights(ctx context.Context, page, limit int) ([]Flight, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := constants.BuildFlightListKey(page, limit)
	if s.cacheService != nil {
		var cached []Flight
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	flights, err := s.repo.ListFlights(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, flights, constants.TTL_FLIGHTS_LIST); err != nil {
			logger.GetDefault().Debug("failed to cache flight list", "error", err)
		}
	}

	return flights, nil
}

func (s *service) ListUpcomingFlights(ctx context.Context) ([]Flight, error) {
	if s.cacheService != nil {
		var cached []Flight
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_FLIGHTS_UPCOMING, &cached); err == nil {
			return cached, nil
		}
	}

	flights, err := s.repo.ListUpcomingFlights(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming flights: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.CACHE_KEY_FLIGHTS_UPCOMING, flights, constants.TTL_FLIGHTS_UPCOMING); err != nil {
			logger.GetDefault().Debug("failed to cache upcoming flights", "error", err)
		}
	}

	return flights, nil
}

func (s *service) UpdateFlight(ctx context.Context, id string, req UpdateFlightRequest) (*Flight, error) {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.FlightNumber != nil {
		updates["flight_number"] = *req.FlightNumber
	}
	if req.DepartureTime != nil {
		updates["departure_time"] = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		updates["arrival_time"] = *req.ArrivalTime
	}
	if req.Status != nil {
		if !IsValidFlightStatus(*req.Status) {
			return nil, fmt.Errorf("invalid flight status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateFlight(ctx, flightID, updates); err != nil {
			return nil, fmt.Errorf("failed to update flight: %w", err)
		}
		s.invalidateFlightCaches(ctx)
	}

	return s.repo.GetFlightByID(ctx, flightID)
}

func (s *service) DeleteFlight(ctx context.Context, id string) error {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid flight ID: %w", err)
	}

	if err := s.repo.DeleteFlight(ctx, flightID); err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}

	s.invalidateFlightCaches(ctx)
	return nil
}

// AIRPORTS

func (s *service) CreateAirport(ctx context.Context, req CreateAirportRequest) (*Airport, error) {
	airport := &Airport{
		Code:    req.Code,
		Name:    req.Name,
		City:    req.City,
		Country: req.Country,
	}
	if err := s.repo.CreateAirport(ctx, airport); err != nil {
		return nil, fmt.Errorf("failed to create airport: %w", err)
	}
	return airport, nil
}

func (s *service) ListAirports(ctx context.Context) ([]Airport, error) {
	return s.repo.ListAirports(ctx)
}

func (s *service) UpdateAirport(ctx context.Context, id string, req UpdateAirportRequest) (*Airport, error) {
	airportID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid airport ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateAirport(ctx, airportID, updates); err != nil {
			return nil, fmt.Errorf("failed to update airport: %w", err)
		}
	}

	return s.repo.GetAirportByID(ctx, airportID)
}

func (s *service) DeleteAirport(ctx context.Context, id string) error {
	airportID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid airport ID: %w", err)
	}
	return s.repo.DeleteAirport(ctx, airportID)
}

// AIRCRAFT

func (s *service) CreateAircraft(ctx context.Context, req CreateAircraftRequest) (*Aircraft, error) {
	if req.EconomySeats+req.BusinessSeats != req.TotalSeats {
		return nil, ErrSeatSplitInvalid
	}

	aircraft := &Aircraft{
		Model:              req.Model,
		RegistrationNumber: req.RegistrationNumber,
		TotalSeats:         req.TotalSeats,
		EconomySeats:       req.EconomySeats,
		BusinessSeats:      req.BusinessSeats,
	}
	if err := s.repo.CreateAircraft(ctx, aircraft); err != nil {
		return nil, fmt.Errorf("failed to create aircraft: %w", err)
	}
	return aircraft, nil
}

func (s *service) GetAircraft(ctx context.Context, id string) (*Aircraft, error) {
	aircraftID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid aircraft ID: %w", err)
	}

	aircraft, err := s.repo.GetAircraftByID(ctx, aircraftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAircraftNotFound
		}
		return nil, fmt.Errorf("failed to get aircraft: %w", err)
	}
	return aircraft, nil
}

func (s *service) ListAircraft(ctx context.Context) ([]Aircraft, error) {
	return s.repo.ListAircraft(ctx)
}

func (s *service) DeleteAircraft(ctx context.Context, id string) error {
	aircraftID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid aircraft ID: %w", err)
	}
	return s.repo.DeleteAircraft(ctx, aircraftID)
}

// PRICING

func (s *service) CreatePricingRule(ctx context.Context, req CreatePricingRuleRequest) (*PricingRule, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	rule := &PricingRule{
		FlightID:          flightID,
		EconomyPrice:      req.EconomyPrice,
		BusinessPrice:     req.BusinessPrice,
		BaggagePricePerKg: req.BaggagePricePerKg,
		FreeBaggageKg:     req.FreeBaggageKg,
		EffectiveFrom:     req.EffectiveFrom,
		EffectiveTo:       req.EffectiveTo,
		Active:            true,
	}
	if err := s.repo.CreatePricingRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create pricing rule: %w", err)
	}
	return rule, nil
}

func (s *service) ListPricingRules(ctx context.Context, flightID string) ([]PricingRule, error) {
	id, err := uuid.Parse(flightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}
	return s.repo.ListPricingRules(ctx, id)
}

func (s *service) UpdatePricingRule(ctx context.Context, id string, req UpdatePricingRuleRequest) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid pricing rule ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.EconomyPrice != nil {
		updates["economy_price"] = *req.EconomyPrice
	}
	if req.BusinessPrice != nil {
		updates["business_price"] = *req.BusinessPrice
	}
	if req.BaggagePricePerKg != nil {
		updates["baggage_price_per_kg"] = *req.BaggagePricePerKg
	}
	if req.FreeBaggageKg != nil {
		updates["free_baggage_kg"] = *req.FreeBaggageKg
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		return nil
	}
	return s.repo.UpdatePricingRule(ctx, ruleID, updates)
}

func (s *service) DeletePricingRule(ctx context.Context, id string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid pricing rule ID: %w", err)
	}
	return s.repo.DeletePricingRule(ctx, ruleID)
}

func (s *service) ResolvePricing(ctx context.Context, flightID uuid.UUID, at time.Time) PricingSnapshot {
	rule, err := s.repo.GetActivePricingRule(ctx, flightID, at)
	if err != nil {
		// Absence of a rule falls back to defaults; anything else is
		// logged but still falls back so a booking can proceed.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetDefault().Warn("pricing rule lookup failed, using defaults",
				"flight_id", flightID.String(), "error", err)
		}
		return DefaultPricingSnapshot()
	}
	return SnapshotFromRule(rule)
}

func (s *service) invalidateFlightCaches(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_FLIGHTS_LIST+"*"); err != nil {
		logger.GetDefault().Debug("failed to invalidate flight list cache", "error", err)
	}
	if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_FLIGHTS_UPCOMING); err != nil {
		logger.GetDefault().Debug("failed to invalidate upcoming flights cache", "error", err)
	}
}
