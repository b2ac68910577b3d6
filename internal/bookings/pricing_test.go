package bookings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/internal/flights"
	"skybook/internal/seats"
)

func testPricing() flights.PricingSnapshot {
	return flights.PricingSnapshot{
		EconomyPrice:      500,
		BusinessPrice:     1500,
		BaggagePricePerKg: 10,
		FreeBaggageKg:     20,
		FromRule:          true,
	}
}

func TestFareFor(t *testing.T) {
	assert.Equal(t, 1500.0, FareFor(testPricing(), seats.ClassBusiness))
	assert.Equal(t, 500.0, FareFor(testPricing(), seats.ClassEconomy))
}

func TestBaggageFee(t *testing.T) {
	pricing := testPricing()

	assert.Equal(t, 0.0, BaggageFee(pricing, 0))
	assert.Equal(t, 0.0, BaggageFee(pricing, 15))
	// At the allowance exactly, no charge
	assert.Equal(t, 0.0, BaggageFee(pricing, 20))
	// Only the excess is charged
	assert.Equal(t, 50.0, BaggageFee(pricing, 25))
	assert.Equal(t, 300.0, BaggageFee(pricing, 50))
}

func TestQuoteTicket_SeatFeeOnlyWhenSelected(t *testing.T) {
	pricing := testPricing()

	picked := QuoteTicket(pricing, seats.ClassEconomy, 0, true)
	assert.Equal(t, SeatSelectionFee, picked.SeatFee)
	assert.Equal(t, 500.0+SeatSelectionFee, picked.Total)

	auto := QuoteTicket(pricing, seats.ClassEconomy, 0, false)
	assert.Equal(t, 0.0, auto.SeatFee)
	assert.Equal(t, 500.0, auto.Total)
}

func TestQuoteTicket_FullBreakdown(t *testing.T) {
	quote := QuoteTicket(testPricing(), seats.ClassBusiness, 30, true)

	assert.Equal(t, 1500.0, quote.FarePrice)
	assert.Equal(t, 100.0, quote.BaggageFee)
	assert.Equal(t, 200.0, quote.SeatFee)
	assert.Equal(t, 1800.0, quote.Total)
}

func TestSessionQuote_SumsPassengers(t *testing.T) {
	session := &Session{
		Step:    StepPassengerDetails,
		Pricing: testPricing(),
		Passengers: []PassengerDraft{
			{CabinClass: seats.ClassBusiness, BaggageKg: 25, SeatSelected: true},
			{CabinClass: seats.ClassEconomy, BaggageKg: 10},
		},
	}

	quote := session.Quote()

	assert.Len(t, quote.Tickets, 2)
	assert.Equal(t, 1500.0+50.0+200.0, quote.Tickets[0].Total)
	assert.Equal(t, 500.0, quote.Tickets[1].Total)
	assert.Equal(t, quote.Tickets[0].Total+quote.Tickets[1].Total, quote.Total)
}

func TestSessionQuote_Empty(t *testing.T) {
	session := &Session{Step: StepSeatSelection, Pricing: testPricing()}

	quote := session.Quote()

	assert.Empty(t, quote.Tickets)
	assert.Equal(t, 0.0, quote.Total)
}

func TestSessionQuote_FollowsSeatSelection(t *testing.T) {
	// On the seat-selection step no drafts exist yet; the quote
	// follows the picked seats directly.
	session := NewSession(uuid.New(), uuid.New(), testPricing())
	require.NoError(t, session.ToggleSeat("1A", seats.ClassBusiness, 9))
	require.NoError(t, session.ToggleSeat("3C", seats.ClassEconomy, 9))

	quote := session.Quote()

	require.Len(t, quote.Tickets, 2)
	assert.Equal(t, 1500.0+SeatSelectionFee, quote.Tickets[0].Total)
	assert.Equal(t, 500.0+SeatSelectionFee, quote.Tickets[1].Total)
	assert.Equal(t, 2400.0, quote.Total)

	// Unpicking a seat is reflected immediately.
	require.NoError(t, session.ToggleSeat("1A", seats.ClassBusiness, 9))
	assert.Equal(t, 500.0+SeatSelectionFee, session.Quote().Total)
}

func TestSessionQuote_FollowsPassengerCount(t *testing.T) {
	session := NewSession(uuid.New(), uuid.New(), testPricing())
	require.NoError(t, session.SetPassengerCount(3, 9, seats.ClassEconomy))

	quote := session.Quote()

	require.Len(t, quote.Tickets, 3)
	for _, tq := range quote.Tickets {
		assert.Equal(t, 0.0, tq.SeatFee)
	}
	assert.Equal(t, 1500.0, quote.Total)
}

func TestSessionQuote_KeepsDraftBaggageAfterBack(t *testing.T) {
	session := NewSession(uuid.New(), uuid.New(), testPricing())
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, 9))
	require.NoError(t, session.ConfirmSeatSelection())
	require.NoError(t, session.UpdatePassenger(0, "Asha", "Patel", "ID123", 30, 50))
	require.NoError(t, session.Back())

	// Back on seat selection, the typed excess baggage still prices.
	quote := session.Quote()

	require.Len(t, quote.Tickets, 1)
	assert.Equal(t, 100.0, quote.Tickets[0].BaggageFee)
	assert.Equal(t, 500.0+100.0+SeatSelectionFee, quote.Total)
}
