package flights

import (
	"time"

	"github.com/google/uuid"
)

// FlightStatus enumerates the lifecycle states of a flight
type FlightStatus string

const (
	StatusScheduled FlightStatus = "SCHEDULED"
	StatusBoarding  FlightStatus = "BOARDING"
	StatusDeparted  FlightStatus = "DEPARTED"
	StatusArrived   FlightStatus = "ARRIVED"
	StatusCancelled FlightStatus = "CANCELLED"
	StatusDelayed   FlightStatus = "DELAYED"
)

func IsValidFlightStatus(status string) bool {
	switch FlightStatus(status) {
	case StatusScheduled, StatusBoarding, StatusDeparted, StatusArrived, StatusCancelled, StatusDelayed:
		return true
	default:
		return false
	}
}

// Airport defines an airport reference record
type Airport struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(3);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	City      string    `gorm:"not null" json:"city"`
	Country   string    `gorm:"not null" json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Airport) TableName() string {
	return "airports"
}

// Aircraft defines an aircraft and its cabin capacity split
type Aircraft struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Model              string    `gorm:"not null" json:"model"`
	RegistrationNumber string    `gorm:"uniqueIndex;not null" json:"registration_number"`
	TotalSeats         int       `gorm:"not null" json:"total_seats"`
	EconomySeats       int       `gorm:"not null" json:"economy_seats"`
	BusinessSeats      int       `gorm:"not null" json:"business_seats"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Aircraft) TableName() string {
	return "aircraft"
}

// Flight defines a scheduled flight between two airports
type Flight struct {
	ID                 uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FlightNumber       string       `gorm:"uniqueIndex;not null" json:"flight_number"`
	DepartureAirportID uuid.UUID    `gorm:"type:uuid;index;not null" json:"departure_airport_id"`
	ArrivalAirportID   uuid.UUID    `gorm:"type:uuid;index;not null" json:"arrival_airport_id"`
	AircraftID         uuid.UUID    `gorm:"type:uuid;index;not null" json:"aircraft_id"`
	DepartureTime      time.Time    `gorm:"index;not null" json:"departure_time"`
	ArrivalTime        time.Time    `gorm:"not null" json:"arrival_time"`
	Status             FlightStatus `gorm:"type:varchar(20);default:'SCHEDULED'" json:"status"`
	AvailableSeats     int          `gorm:"not null" json:"available_seats"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	// Relationships
	DepartureAirport *Airport      `json:"departure_airport,omitempty" gorm:"foreignKey:DepartureAirportID"`
	ArrivalAirport   *Airport      `json:"arrival_airport,omitempty" gorm:"foreignKey:ArrivalAirportID"`
	Aircraft         *Aircraft     `json:"aircraft,omitempty" gorm:"foreignKey:AircraftID"`
	PricingRules     []PricingRule `json:"pricing_rules,omitempty" gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE;"`
}

func (Flight) TableName() string {
	return "flights"
}

// IsUpcoming reports whether the flight departs in the future and is bookable
func (f *Flight) IsUpcoming(now time.Time) bool {
	return f.DepartureTime.After(now) && f.Status != StatusCancelled
}

// PricingRule defines the fare and baggage configuration for a flight,
// bounded to a validity window. Exactly one rule should be active at
// booking time; the booking core falls back to defaults when none is.
type PricingRule struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FlightID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"flight_id"`
	EconomyPrice      float64    `gorm:"not null" json:"economy_price"`
	BusinessPrice     float64    `gorm:"not null" json:"business_price"`
	BaggagePricePerKg float64    `gorm:"not null" json:"baggage_price_per_kg"`
	FreeBaggageKg     float64    `gorm:"not null;default:20" json:"free_baggage_kg"`
	EffectiveFrom     time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo       *time.Time `json:"effective_to,omitempty"`
	Active            bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// IsEffectiveAt reports whether the rule applies at the given time
func (p *PricingRule) IsEffectiveAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if t.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && t.After(*p.EffectiveTo) {
		return false
	}
	return true
}

// Fallback fare configuration used when a flight has no effective rule
const (
	DefaultEconomyPrice      = 500.0
	DefaultBusinessPrice     = 1500.0
	DefaultBaggagePricePerKg = 10.0
	DefaultFreeBaggageKg     = 20.0
)

// PricingSnapshot is the resolved fare configuration handed to the booking
// core. It is a plain value so a booking session can carry it without
// holding database state.
type PricingSnapshot struct {
	EconomyPrice      float64 `json:"economy_price"`
	BusinessPrice     float64 `json:"business_price"`
	BaggagePricePerKg float64 `json:"baggage_price_per_kg"`
	FreeBaggageKg     float64 `json:"free_baggage_kg"`
	FromRule          bool    `json:"from_rule"` // false when fallback defaults were applied
}

// DefaultPricingSnapshot returns the fallback fare configuration
func DefaultPricingSnapshot() PricingSnapshot {
	return PricingSnapshot{
		EconomyPrice:      DefaultEconomyPrice,
		BusinessPrice:     DefaultBusinessPrice,
		BaggagePricePerKg: DefaultBaggagePricePerKg,
		FreeBaggageKg:     DefaultFreeBaggageKg,
	}
}

// SnapshotFromRule converts an effective rule into a pricing snapshot
func SnapshotFromRule(rule *PricingRule) PricingSnapshot {
	return PricingSnapshot{
		EconomyPrice:      rule.EconomyPrice,
		BusinessPrice:     rule.BusinessPrice,
		BaggagePricePerKg: rule.BaggagePricePerKg,
		FreeBaggageKg:     rule.FreeBaggageKg,
		FromRule:          true,
	}
}
