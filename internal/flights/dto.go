package flights

import "time"

type CreateFlightRequest struct {
	FlightNumber       string    `json:"flight_number" binding:"required"`
	DepartureAirportID string    `json:"departure_airport_id" binding:"required,uuid"`
	ArrivalAirportID   string    `json:"arrival_airport_id" binding:"required,uuid"`
	AircraftID         string    `json:"aircraft_id" binding:"required,uuid"`
	DepartureTime      time.Time `json:"departure_time" binding:"required"`
	ArrivalTime        time.Time `json:"arrival_time" binding:"required,gtfield=DepartureTime"`
}

type UpdateFlightRequest struct {
	FlightNumber  *string    `json:"flight_number,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	Status        *string    `json:"status,omitempty"`
}

type CreateAirportRequest struct {
	Code    string `json:"code" binding:"required,len=3,uppercase"`
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type UpdateAirportRequest struct {
	Name    *string `json:"name,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

type CreateAircraftRequest struct {
	Model              string `json:"model" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	TotalSeats         int    `json:"total_seats" binding:"required,min=1"`
	EconomySeats       int    `json:"economy_seats" binding:"required,min=0"`
	BusinessSeats      int    `json:"business_seats" binding:"min=0"`
}

type CreatePricingRuleRequest struct {
	FlightID          string     `json:"flight_id" binding:"required,uuid"`
	EconomyPrice      float64    `json:"economy_price" binding:"required,gt=0"`
	BusinessPrice     float64    `json:"business_price" binding:"required,gt=0"`
	BaggagePricePerKg float64    `json:"baggage_price_per_kg" binding:"min=0"`
	FreeBaggageKg     float64    `json:"free_baggage_kg" binding:"min=0"`
	EffectiveFrom     time.Time  `json:"effective_from" binding:"required"`
	EffectiveTo       *time.Time `json:"effective_to,omitempty"`
}

type UpdatePricingRuleRequest struct {
	EconomyPrice      *float64 `json:"economy_price,omitempty"`
	BusinessPrice     *float64 `json:"business_price,omitempty"`
	BaggagePricePerKg *float64 `json:"baggage_price_per_kg,omitempty"`
	FreeBaggageKg     *float64 `json:"free_baggage_kg,omitempty"`
	Active            *bool    `json:"active,omitempty"`
}
