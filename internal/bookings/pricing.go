package bookings

import (
	"skybook/internal/flights"
	"skybook/internal/seats"
)

// SeatSelectionFee is charged per seat the passenger picked on the
// seat map. Auto-assigned seats are free.
const SeatSelectionFee = 200.0

// TicketQuote is the price breakdown for one passenger.
type TicketQuote struct {
	FarePrice  float64 `json:"fare_price"`
	BaggageFee float64 `json:"baggage_fee"`
	SeatFee    float64 `json:"seat_fee"`
	Total      float64 `json:"total"`
}

// PriceQuote is the full breakdown for a session: one entry per
// passenger in order, plus the grand total.
type PriceQuote struct {
	Tickets []TicketQuote `json:"tickets"`
	Total   float64       `json:"total"`
}

// FareFor returns the base fare for a cabin class under the given
// pricing. Unknown classes price as economy; validation upstream keeps
// them out of sessions.
func FareFor(pricing flights.PricingSnapshot, cabinClass string) float64 {
	if cabinClass == seats.ClassBusiness {
		return pricing.BusinessPrice
	}
	return pricing.EconomyPrice
}

// BaggageFee charges the excess over the free allowance at the per-kg
// rate. Weight at or under the allowance is free.
func BaggageFee(pricing flights.PricingSnapshot, baggageKg float64) float64 {
	excess := baggageKg - pricing.FreeBaggageKg
	if excess <= 0 {
		return 0
	}
	return excess * pricing.BaggagePricePerKg
}

// QuoteTicket prices one passenger. seatSelected is true only when the
// passenger explicitly picked the seat; auto-assignment never incurs
// the seat fee.
func QuoteTicket(pricing flights.PricingSnapshot, cabinClass string, baggageKg float64, seatSelected bool) TicketQuote {
	quote := TicketQuote{
		FarePrice:  FareFor(pricing, cabinClass),
		BaggageFee: BaggageFee(pricing, baggageKg),
	}
	if seatSelected {
		quote.SeatFee = SeatSelectionFee
	}
	quote.Total = quote.FarePrice + quote.BaggageFee + quote.SeatFee
	return quote
}

// Quote prices the session against its pricing snapshot. The quote is
// recomputed on every read rather than stored, so edits to seats or
// baggage are always reflected. On the seat-selection step it follows
// the current selection (or passenger count) directly, since drafts
// are only materialized on confirm.
func (s *Session) Quote() PriceQuote {
	if s.Step == StepSeatSelection {
		return s.quoteSelection()
	}

	quote := PriceQuote{Tickets: make([]TicketQuote, 0, len(s.Passengers))}
	for _, p := range s.Passengers {
		tq := QuoteTicket(s.Pricing, p.CabinClass, p.BaggageKg, p.SeatSelected)
		quote.Tickets = append(quote.Tickets, tq)
		quote.Total += tq.Total
	}
	return quote
}

// quoteSelection prices the in-progress seat selection. Baggage comes
// from any draft already typed at the same position, defaulting to the
// free allowance for passengers not filled in yet.
func (s *Session) quoteSelection() PriceQuote {
	draftBaggage := func(i int) float64 {
		if i < len(s.Passengers) {
			return s.Passengers[i].BaggageKg
		}
		return s.Pricing.FreeBaggageKg
	}

	var quote PriceQuote
	if s.AutoAssign {
		quote.Tickets = make([]TicketQuote, 0, s.PassengerCount)
		for i := 0; i < s.PassengerCount; i++ {
			tq := QuoteTicket(s.Pricing, s.AutoAssignClass, draftBaggage(i), false)
			quote.Tickets = append(quote.Tickets, tq)
			quote.Total += tq.Total
		}
		return quote
	}

	quote.Tickets = make([]TicketQuote, 0, len(s.SelectedSeats))
	for i, sel := range s.SelectedSeats {
		tq := QuoteTicket(s.Pricing, sel.CabinClass, draftBaggage(i), true)
		quote.Tickets = append(quote.Tickets, tq)
		quote.Total += tq.Total
	}
	return quote
}
