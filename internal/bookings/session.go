package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skybook/internal/flights"
	"skybook/internal/seats"
)

// Session steps, in wizard order.
const (
	StepSeatSelection    = "SEAT_SELECTION"
	StepPassengerDetails = "PASSENGER_DETAILS"
	StepPayment          = "PAYMENT"
	StepSubmitted        = "SUBMITTED"
)

// SelectedSeat is one seat picked on the seat map.
type SelectedSeat struct {
	SeatNumber string `json:"seat_number"`
	CabinClass string `json:"cabin_class"`
}

// PassengerDraft holds one passenger's details while the session is in
// progress. SeatNumber is set either from the seat-map selection or
// left empty for auto-assignment at submit.
type PassengerDraft struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	NationalID   string  `json:"national_id,omitempty"`
	CabinClass   string  `json:"cabin_class"`
	SeatNumber   string  `json:"seat_number,omitempty"`
	SeatSelected bool    `json:"seat_selected"`
	BaggageKg    float64 `json:"baggage_kg"`
	Complete     bool    `json:"complete"`
}

// Session is a multi-step booking in progress. It lives in Redis under
// a TTL; every mutation goes through a step-checked method so the
// stored state is always a legal wizard position.
//
// Seat selection runs in one of two mutually exclusive modes: either
// the caller picks seats on the map (passenger count follows the
// selection), or the caller states a passenger count and seats are
// auto-assigned at submit. Toggling a seat clears count mode and vice
// versa.
type Session struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	FlightID uuid.UUID `json:"flight_id"`

	Step            string                  `json:"step"`
	SelectedSeats   []SelectedSeat          `json:"selected_seats"`
	PassengerCount  int                     `json:"passenger_count"`
	AutoAssign      bool                    `json:"auto_assign"`
	AutoAssignClass string                  `json:"auto_assign_class,omitempty"`
	Passengers      []PassengerDraft        `json:"passengers"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	Pricing         flights.PricingSnapshot `json:"pricing"`
	Submitting      bool                    `json:"submitting"`
	BookingRef      string                  `json:"booking_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession opens a session on the seat-selection step with a pricing
// snapshot taken at open time. The snapshot holds for the session's
// life so the quoted price cannot shift mid-wizard.
func NewSession(userID, flightID uuid.UUID, pricing flights.PricingSnapshot) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		FlightID:  flightID,
		Step:      StepSeatSelection,
		Pricing:   pricing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

func (s *Session) guardStep(op string, allowed ...string) error {
	if s.Submitting {
		return ErrSubmitInProgress
	}
	for _, step := range allowed {
		if s.Step == step {
			return nil
		}
	}
	return &StepError{Step: s.Step, Op: op}
}

// SelectedSeatNumbers returns the picked seat numbers in selection
// order.
func (s *Session) SelectedSeatNumbers() []string {
	numbers := make([]string, 0, len(s.SelectedSeats))
	for _, sel := range s.SelectedSeats {
		numbers = append(numbers, sel.SeatNumber)
	}
	return numbers
}

// ToggleSeat adds the seat to the selection, or removes it when
// already selected. Entering seat mode clears any auto-assign count.
func (s *Session) ToggleSeat(seatNumber, cabinClass string, maxPassengers int) error {
	if err := s.guardStep("toggle_seat", StepSeatSelection); err != nil {
		return err
	}

	for i, sel := range s.SelectedSeats {
		if sel.SeatNumber == seatNumber {
			s.SelectedSeats = append(s.SelectedSeats[:i], s.SelectedSeats[i+1:]...)
			s.touch()
			return nil
		}
	}

	if len(s.SelectedSeats) >= maxPassengers {
		return &ValidationError{Field: "seat_number", Message: fmt.Sprintf("at most %d seats per booking", maxPassengers)}
	}

	s.SelectedSeats = append(s.SelectedSeats, SelectedSeat{SeatNumber: seatNumber, CabinClass: cabinClass})
	s.AutoAssign = false
	s.PassengerCount = 0
	s.AutoAssignClass = ""
	s.touch()
	return nil
}

// SetPassengerCount switches to auto-assign mode: no seats picked,
// count passengers seated automatically at submit. Any existing seat
// selection is dropped.
func (s *Session) SetPassengerCount(count, maxPassengers int, cabinClass string) error {
	if err := s.guardStep("set_passenger_count", StepSeatSelection); err != nil {
		return err
	}
	if count < 1 || count > maxPassengers {
		return &ValidationError{Field: "passenger_count", Message: fmt.Sprintf("must be between 1 and %d", maxPassengers)}
	}
	if cabinClass != seats.ClassEconomy && cabinClass != seats.ClassBusiness {
		return &ValidationError{Field: "cabin_class", Message: "must be ECONOMY or BUSINESS"}
	}

	s.SelectedSeats = nil
	s.AutoAssign = true
	s.PassengerCount = count
	s.AutoAssignClass = cabinClass
	s.touch()
	return nil
}

// ConfirmSeatSelection advances to passenger details, materializing
// one passenger draft per seat (or per counted passenger). Fresh
// drafts start with baggage at the free allowance. Existing
// drafts survive a round trip through the seat-selection step: drafts
// are reconciled by position, so going back to adjust a seat does not
// wipe names already typed.
func (s *Session) ConfirmSeatSelection() error {
	if err := s.guardStep("confirm_seat_selection", StepSeatSelection); err != nil {
		return err
	}

	var wanted []PassengerDraft
	if s.AutoAssign {
		if s.PassengerCount == 0 {
			return &ValidationError{Field: "passenger_count", Message: "select seats or set a passenger count"}
		}
		for i := 0; i < s.PassengerCount; i++ {
			wanted = append(wanted, PassengerDraft{
				CabinClass: s.AutoAssignClass,
				BaggageKg:  s.Pricing.FreeBaggageKg,
			})
		}
	} else {
		if len(s.SelectedSeats) == 0 {
			return &ValidationError{Field: "selected_seats", Message: "select seats or set a passenger count"}
		}
		for _, sel := range s.SelectedSeats {
			wanted = append(wanted, PassengerDraft{
				CabinClass:   sel.CabinClass,
				SeatNumber:   sel.SeatNumber,
				SeatSelected: true,
				BaggageKg:    s.Pricing.FreeBaggageKg,
			})
		}
	}

	// Reconcile by position: carry over typed details, refresh the
	// seat binding from the current selection.
	for i := range wanted {
		if i < len(s.Passengers) {
			prev := s.Passengers[i]
			wanted[i].FirstName = prev.FirstName
			wanted[i].LastName = prev.LastName
			wanted[i].NationalID = prev.NationalID
			wanted[i].BaggageKg = prev.BaggageKg
			wanted[i].Complete = prev.Complete
		}
	}

	s.Passengers = wanted
	s.Step = StepPassengerDetails
	s.touch()
	return nil
}

// UpdatePassenger fills in one passenger's details.
func (s *Session) UpdatePassenger(index int, firstName, lastName, nationalID string, baggageKg, maxBaggageKg float64) error {
	if err := s.guardStep("update_passenger", StepPassengerDetails); err != nil {
		return err
	}
	if index < 0 || index >= len(s.Passengers) {
		return &ValidationError{Field: "passenger_index", Message: "out of range"}
	}
	if strings.TrimSpace(firstName) == "" {
		return &ValidationError{Field: "first_name", Message: "required"}
	}
	if strings.TrimSpace(lastName) == "" {
		return &ValidationError{Field: "last_name", Message: "required"}
	}
	if strings.TrimSpace(nationalID) == "" {
		return &ValidationError{Field: "national_id", Message: "required"}
	}
	if baggageKg < 0 || baggageKg > maxBaggageKg {
		return &ValidationError{Field: "baggage_kg", Message: fmt.Sprintf("must be between 0 and %.0f", maxBaggageKg)}
	}

	p := &s.Passengers[index]
	p.FirstName = strings.TrimSpace(firstName)
	p.LastName = strings.TrimSpace(lastName)
	p.NationalID = strings.TrimSpace(nationalID)
	p.BaggageKg = baggageKg
	p.Complete = true
	s.touch()
	return nil
}

// ConfirmPassengers advances to payment once every passenger is
// complete.
func (s *Session) ConfirmPassengers() error {
	if err := s.guardStep("confirm_passengers", StepPassengerDetails); err != nil {
		return err
	}
	for i, p := range s.Passengers {
		if !p.Complete {
			return &ValidationError{Field: "passengers", Message: fmt.Sprintf("passenger %d is incomplete", i+1)}
		}
	}

	s.Step = StepPayment
	s.touch()
	return nil
}

// SelectPaymentMethod records the payment method on the payment step.
func (s *Session) SelectPaymentMethod(method string) error {
	if err := s.guardStep("select_payment_method", StepPayment); err != nil {
		return err
	}
	if !IsValidPaymentMethod(method) {
		return &ValidationError{Field: "payment_method", Message: "unsupported payment method"}
	}

	s.PaymentMethod = method
	s.touch()
	return nil
}

// Back moves one step backwards. Passenger drafts and the payment
// method are preserved so forward navigation restores prior input.
func (s *Session) Back() error {
	if s.Submitting {
		return ErrSubmitInProgress
	}
	switch s.Step {
	case StepPassengerDetails:
		s.Step = StepSeatSelection
	case StepPayment:
		s.Step = StepPassengerDetails
	default:
		return &StepError{Step: s.Step, Op: "back"}
	}
	s.touch()
	return nil
}

// BeginSubmit flips the submitting guard so concurrent submits of the
// same session are rejected. The caller persists the session before
// performing the actual booking write.
func (s *Session) BeginSubmit() error {
	if err := s.guardStep("submit", StepPayment); err != nil {
		return err
	}
	if s.PaymentMethod == "" {
		return &ValidationError{Field: "payment_method", Message: "select a payment method before submitting"}
	}

	s.Submitting = true
	s.touch()
	return nil
}

// FailSubmit releases the submitting guard after a failed booking
// write. On a seat conflict the lost seats are cleared and the session
// returns to seat selection for a reselect.
func (s *Session) FailSubmit(conflict *SeatConflictError) {
	s.Submitting = false
	if conflict != nil {
		lost := make(map[string]bool, len(conflict.SeatNumbers))
		for _, sn := range conflict.SeatNumbers {
			lost[sn] = true
		}
		kept := s.SelectedSeats[:0]
		for _, sel := range s.SelectedSeats {
			if !lost[sel.SeatNumber] {
				kept = append(kept, sel)
			}
		}
		s.SelectedSeats = kept
		s.Step = StepSeatSelection
	}
	s.touch()
}

// CompleteSubmit marks the session submitted.
func (s *Session) CompleteSubmit(bookingRef string) {
	s.Submitting = false
	s.Step = StepSubmitted
	s.BookingRef = bookingRef
	s.touch()
}
