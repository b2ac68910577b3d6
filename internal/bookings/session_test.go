package bookings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/internal/seats"
)

const testMaxPassengers = 9

func newTestSession() *Session {
	return NewSession(uuid.New(), uuid.New(), testPricing())
}

// advance walks a fresh session to the payment step with one selected
// seat and a completed passenger.
func sessionAtPayment(t *testing.T) *Session {
	t.Helper()
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())
	require.NoError(t, session.UpdatePassenger(0, "Asha", "Patel", "ID123", 10, 50))
	require.NoError(t, session.ConfirmPassengers())
	return session
}

func TestNewSession_StartsOnSeatSelection(t *testing.T) {
	session := newTestSession()

	assert.Equal(t, StepSeatSelection, session.Step)
	assert.Empty(t, session.SelectedSeats)
	assert.False(t, session.AutoAssign)
	assert.Equal(t, testPricing(), session.Pricing)
}

func TestToggleSeat_AddAndRemove(t *testing.T) {
	session := newTestSession()

	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ToggleSeat("1B", seats.ClassEconomy, testMaxPassengers))
	assert.Equal(t, []string{"1A", "1B"}, session.SelectedSeatNumbers())

	// Toggling again removes
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	assert.Equal(t, []string{"1B"}, session.SelectedSeatNumbers())
}

func TestToggleSeat_CapsAtMaxPassengers(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, 2))
	require.NoError(t, session.ToggleSeat("1B", seats.ClassEconomy, 2))

	err := session.ToggleSeat("1C", seats.ClassEconomy, 2)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "seat_number", vErr.Field)
	assert.Len(t, session.SelectedSeats, 2)
}

func TestToggleSeat_ClearsAutoAssignMode(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.SetPassengerCount(3, testMaxPassengers, seats.ClassEconomy))

	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))

	assert.False(t, session.AutoAssign)
	assert.Zero(t, session.PassengerCount)
	assert.Empty(t, session.AutoAssignClass)
}

func TestSetPassengerCount_ClearsSeatSelection(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))

	require.NoError(t, session.SetPassengerCount(2, testMaxPassengers, seats.ClassBusiness))

	assert.True(t, session.AutoAssign)
	assert.Equal(t, 2, session.PassengerCount)
	assert.Equal(t, seats.ClassBusiness, session.AutoAssignClass)
	assert.Empty(t, session.SelectedSeats)
}

func TestSetPassengerCount_Validation(t *testing.T) {
	session := newTestSession()

	var vErr *ValidationError
	require.ErrorAs(t, session.SetPassengerCount(0, testMaxPassengers, seats.ClassEconomy), &vErr)
	require.ErrorAs(t, session.SetPassengerCount(10, 9, seats.ClassEconomy), &vErr)
	require.ErrorAs(t, session.SetPassengerCount(2, testMaxPassengers, "FIRST"), &vErr)
	assert.Equal(t, "cabin_class", vErr.Field)
}

func TestConfirmSeatSelection_RequiresSeatsOrCount(t *testing.T) {
	session := newTestSession()

	var vErr *ValidationError
	require.ErrorAs(t, session.ConfirmSeatSelection(), &vErr)
	assert.Equal(t, StepSeatSelection, session.Step)
}

func TestConfirmSeatSelection_MaterializesDraftsFromSeats(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassBusiness, testMaxPassengers))
	require.NoError(t, session.ToggleSeat("3C", seats.ClassEconomy, testMaxPassengers))

	require.NoError(t, session.ConfirmSeatSelection())

	assert.Equal(t, StepPassengerDetails, session.Step)
	require.Len(t, session.Passengers, 2)
	assert.Equal(t, "1A", session.Passengers[0].SeatNumber)
	assert.True(t, session.Passengers[0].SeatSelected)
	assert.Equal(t, seats.ClassBusiness, session.Passengers[0].CabinClass)
	assert.Equal(t, "3C", session.Passengers[1].SeatNumber)
}

func TestConfirmSeatSelection_AutoAssignDraftsHaveNoSeat(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.SetPassengerCount(2, testMaxPassengers, seats.ClassEconomy))

	require.NoError(t, session.ConfirmSeatSelection())

	require.Len(t, session.Passengers, 2)
	for _, p := range session.Passengers {
		assert.Empty(t, p.SeatNumber)
		assert.False(t, p.SeatSelected)
		assert.Equal(t, seats.ClassEconomy, p.CabinClass)
	}
}

func TestBack_PreservesTypedDetails(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())
	require.NoError(t, session.UpdatePassenger(0, "Asha", "Patel", "ID123", 10, 50))

	// Go back, add a second seat, come forward again
	require.NoError(t, session.Back())
	assert.Equal(t, StepSeatSelection, session.Step)
	require.NoError(t, session.ToggleSeat("1B", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())

	require.Len(t, session.Passengers, 2)
	assert.Equal(t, "Asha", session.Passengers[0].FirstName)
	assert.Equal(t, "Patel", session.Passengers[0].LastName)
	assert.True(t, session.Passengers[0].Complete)
	assert.Equal(t, "1A", session.Passengers[0].SeatNumber)
	assert.False(t, session.Passengers[1].Complete)
}

func TestBack_FromPaymentToPassengerDetails(t *testing.T) {
	session := sessionAtPayment(t)

	require.NoError(t, session.Back())

	assert.Equal(t, StepPassengerDetails, session.Step)
	// Drafts survive
	assert.Equal(t, "Asha", session.Passengers[0].FirstName)
}

func TestBack_NotAllowedOnFirstStep(t *testing.T) {
	session := newTestSession()

	var stepErr *StepError
	require.ErrorAs(t, session.Back(), &stepErr)
}

func TestUpdatePassenger_Validation(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())

	var vErr *ValidationError
	require.ErrorAs(t, session.UpdatePassenger(5, "A", "B", "ID1", 0, 50), &vErr)
	require.ErrorAs(t, session.UpdatePassenger(0, "  ", "B", "ID1", 0, 50), &vErr)
	require.ErrorAs(t, session.UpdatePassenger(0, "A", "B", "ID1", 60, 50), &vErr)
	assert.Equal(t, "baggage_kg", vErr.Field)

	require.NoError(t, session.UpdatePassenger(0, "  Asha ", " Patel ", " ID1 ", 10, 50))
	assert.Equal(t, "Asha", session.Passengers[0].FirstName)
	assert.Equal(t, "Patel", session.Passengers[0].LastName)
	assert.Equal(t, "ID1", session.Passengers[0].NationalID)
}

func TestUpdatePassenger_RequiresNationalID(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())

	var vErr *ValidationError
	require.ErrorAs(t, session.UpdatePassenger(0, "Asha", "Patel", "", 10, 50), &vErr)
	assert.Equal(t, "national_id", vErr.Field)
	require.ErrorAs(t, session.UpdatePassenger(0, "Asha", "Patel", "   ", 10, 50), &vErr)
	assert.Equal(t, "national_id", vErr.Field)

	// The passenger stays incomplete, so payment is unreachable.
	assert.False(t, session.Passengers[0].Complete)
	require.ErrorAs(t, session.ConfirmPassengers(), &vErr)
	assert.Equal(t, StepPassengerDetails, session.Step)
}

func TestConfirmSeatSelection_DraftBaggageDefaultsToFreeAllowance(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())

	require.Len(t, session.Passengers, 1)
	assert.Equal(t, testPricing().FreeBaggageKg, session.Passengers[0].BaggageKg)

	// Auto-assign drafts get the same default.
	counted := newTestSession()
	require.NoError(t, counted.SetPassengerCount(2, testMaxPassengers, seats.ClassEconomy))
	require.NoError(t, counted.ConfirmSeatSelection())
	for _, p := range counted.Passengers {
		assert.Equal(t, testPricing().FreeBaggageKg, p.BaggageKg)
	}
}

func TestConfirmPassengers_RequiresAllComplete(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ToggleSeat("1B", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())
	require.NoError(t, session.UpdatePassenger(0, "Asha", "Patel", "ID123", 0, 50))

	var vErr *ValidationError
	require.ErrorAs(t, session.ConfirmPassengers(), &vErr)
	assert.Equal(t, StepPassengerDetails, session.Step)

	require.NoError(t, session.UpdatePassenger(1, "Daniel", "Kim", "ID456", 0, 50))
	require.NoError(t, session.ConfirmPassengers())
	assert.Equal(t, StepPayment, session.Step)
}

func TestSelectPaymentMethod(t *testing.T) {
	session := sessionAtPayment(t)

	var vErr *ValidationError
	require.ErrorAs(t, session.SelectPaymentMethod("CASH"), &vErr)

	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	assert.Equal(t, PaymentCreditCard, session.PaymentMethod)
}

func TestStepGuard_RejectsOutOfOrderOperations(t *testing.T) {
	session := newTestSession()

	var stepErr *StepError
	require.ErrorAs(t, session.SelectPaymentMethod(PaymentCreditCard), &stepErr)
	require.ErrorAs(t, session.ConfirmPassengers(), &stepErr)
	require.ErrorAs(t, session.UpdatePassenger(0, "A", "B", "", 0, 50), &stepErr)
	require.ErrorAs(t, session.BeginSubmit(), &stepErr)
}

func TestBeginSubmit_RequiresPaymentMethod(t *testing.T) {
	session := sessionAtPayment(t)

	var vErr *ValidationError
	require.ErrorAs(t, session.BeginSubmit(), &vErr)
	assert.Equal(t, "payment_method", vErr.Field)

	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	require.NoError(t, session.BeginSubmit())
	assert.True(t, session.Submitting)
}

func TestSubmittingGuard_BlocksEverything(t *testing.T) {
	session := sessionAtPayment(t)
	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	require.NoError(t, session.BeginSubmit())

	assert.ErrorIs(t, session.BeginSubmit(), ErrSubmitInProgress)
	assert.ErrorIs(t, session.Back(), ErrSubmitInProgress)
	assert.ErrorIs(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers), ErrSubmitInProgress)
	assert.ErrorIs(t, session.SelectPaymentMethod(PaymentPaypal), ErrSubmitInProgress)
}

func TestFailSubmit_WithoutConflictStaysOnPayment(t *testing.T) {
	session := sessionAtPayment(t)
	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	require.NoError(t, session.BeginSubmit())

	session.FailSubmit(nil)

	assert.False(t, session.Submitting)
	assert.Equal(t, StepPayment, session.Step)
	assert.Equal(t, []string{"1A"}, session.SelectedSeatNumbers())
}

func TestFailSubmit_ConflictClearsLostSeatsAndRewinds(t *testing.T) {
	session := newTestSession()
	require.NoError(t, session.ToggleSeat("1A", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ToggleSeat("1B", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())
	require.NoError(t, session.UpdatePassenger(0, "Asha", "Patel", "ID123", 0, 50))
	require.NoError(t, session.UpdatePassenger(1, "Daniel", "Kim", "ID456", 0, 50))
	require.NoError(t, session.ConfirmPassengers())
	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	require.NoError(t, session.BeginSubmit())

	session.FailSubmit(&SeatConflictError{SeatNumbers: []string{"1A"}})

	assert.False(t, session.Submitting)
	assert.Equal(t, StepSeatSelection, session.Step)
	assert.Equal(t, []string{"1B"}, session.SelectedSeatNumbers())
	// Typed details survive for the reselect round trip
	require.NoError(t, session.ToggleSeat("1C", seats.ClassEconomy, testMaxPassengers))
	require.NoError(t, session.ConfirmSeatSelection())
	assert.Equal(t, "Asha", session.Passengers[0].FirstName)
}

func TestCompleteSubmit(t *testing.T) {
	session := sessionAtPayment(t)
	require.NoError(t, session.SelectPaymentMethod(PaymentCreditCard))
	require.NoError(t, session.BeginSubmit())

	session.CompleteSubmit("SKY-20260901-ABCDEF")

	assert.False(t, session.Submitting)
	assert.Equal(t, StepSubmitted, session.Step)
	assert.Equal(t, "SKY-20260901-ABCDEF", session.BookingRef)
}
