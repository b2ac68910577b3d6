package flights

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Flight CRUD
	CreateFlight(ctx context.Context, flight *Flight) error
	GetFlightByID(ctx context.Context, id uuid.UUID) (*Flight, error)
	ListFlights(ctx context.Context, limit, offset int) ([]Flight, error)
	ListUpcomingFlights(ctx context.Context, after time.Time) ([]Flight, error)
	UpdateFlight(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteFlight(ctx context.Context, id uuid.UUID) error
	AdjustAvailableSeats(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error

	// Airport CRUD
	CreateAirport(ctx context.Context, airport *Airport) error
	GetAirportByID(ctx context.Context, id uuid.UUID) (*Airport, error)
	ListAirports(ctx context.Context) ([]Airport, error)
	UpdateAirport(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteAirport(ctx context.Context, id uuid.UUID) error

	// Aircraft CRUD
	CreateAircraft(ctx context.Context, aircraft *Aircraft) error
	GetAircraftByID(ctx context.Context, id uuid.UUID) (*Aircraft, error)
	ListAircraft(ctx context.Context) ([]Aircraft, error)
	UpdateAircraft(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteAircraft(ctx context.Context, id uuid.UUID) error

	// Pricing rules
	CreatePricingRule(ctx context.Context, rule *PricingRule) error
	GetActivePricingRule(ctx context.Context, flightID uuid.UUID, at time.Time) (*PricingRule, error)
	ListPricingRules(ctx context.Context, flightID uuid.UUID) ([]PricingRule, error)
	UpdatePricingRule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeletePricingRule(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FLIGHT CRUD

func (r *repository) CreateFlight(ctx context.Context, flight *Flight) error {
	return r.db.WithContext(ctx).Create(flight).Error
}

func (r *repository) GetFlightByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := r.db.WithContext(ctx).
		Preload("DepartureAirport").
		Preload("ArrivalAirport").
		Preload("Aircraft").
		First(&flight, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *repository) ListFlights(ctx context.Context, limit, offset int) ([]Flight, error) {
	var flights []Flight
	err := r.db.WithContext(ctx).
		Preload("DepartureAirport").
		Preload("ArrivalAirport").
		Preload("Aircraft").
		Order("departure_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&flights).Error
	return flights, err
}

func (r *repository) ListUpcomingFlights(ctx context.Context, after time.Time) ([]Flight, error) {
	var flights []Flight
	err := r.db.WithContext(ctx).
		Preload("DepartureAirport").
		Preload("ArrivalAirport").
		Preload("Aircraft").
		Where("departure_time > ? AND status != ?", after, StatusCancelled).
		Order("departure_time ASC").
		Find(&flights).Error
	return flights, err
}

func (r *repository) UpdateFlight(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Flight{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Flight{}, "id = ?", id).Error
}

// AdjustAvailableSeats changes the seat counter inside an existing
// transaction. A negative delta reserves seats, a positive one releases them.
func (r *repository) AdjustAvailableSeats(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Model(&Flight{}).
		Where("id = ?", id).
		UpdateColumn("available_seats", gorm.Expr("available_seats + ?", delta)).Error
}

// AIRPORT CRUD

func (r *repository) CreateAirport(ctx context.Context, airport *Airport) error {
	return r.db.WithContext(ctx).Create(airport).Error
}

func (r *repository) GetAirportByID(ctx context.Context, id uuid.UUID) (*Airport, error) {
	var airport Airport
	err := r.db.WithContext(ctx).First(&airport, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &airport, nil
}

func (r *repository) ListAirports(ctx context.Context) ([]Airport, error) {
	var airports []Airport
	err := r.db.WithContext(ctx).Order("code ASC").Find(&airports).Error
	return airports, err
}

func (r *repository) UpdateAirport(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Airport{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteAirport(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Airport{}, "id = ?", id).Error
}

// AIRCRAFT CRUD

func (r *repository) CreateAircraft(ctx context.Context, aircraft *Aircraft) error {
	return r.db.WithContext(ctx).Create(aircraft).Error
}

func (r *repository) GetAircraftByID(ctx context.Context, id uuid.UUID) (*Aircraft, error) {
	var aircraft Aircraft
	err := r.db.WithContext(ctx).First(&aircraft, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &aircraft, nil
}

func (r *repository) ListAircraft(ctx context.Context) ([]Aircraft, error) {
	var result []Aircraft
	err := r.db.WithContext(ctx).Order("registration_number ASC").Find(&result).Error
	return result, err
}

func (r *repository) UpdateAircraft(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Aircraft{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteAircraft(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Aircraft{}, "id = ?", id).Error
}

// PRICING RULES

func (r *repository) CreatePricingRule(ctx context.Context, rule *PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) GetActivePricingRule(ctx context.Context, flightID uuid.UUID, at time.Time) (*PricingRule, error) {
	var rule PricingRule
	err := r.db.WithContext(ctx).
		Where("flight_id = ? AND active = true AND effective_from <= ?", flightID, at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("effective_from DESC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListPricingRules(ctx context.Context, flightID uuid.UUID) ([]PricingRule, error) {
	var rules []PricingRule
	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("effective_from DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) UpdatePricingRule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&PricingRule{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeletePricingRule(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&PricingRule{}, "id = ?", id).Error
}
