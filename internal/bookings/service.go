package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"skybook/internal/flights"
	"skybook/internal/seats"
	"skybook/pkg/logger"
)

// Limits carries the per-booking caps from configuration.
type Limits struct {
	MaxPassengers int
	MaxBaggageKg  float64
}

// Service runs the booking wizard: session lifecycle, seat selection,
// passenger details, payment, submission, and post-booking operations.
type Service interface {
	// Session lifecycle
	StartSession(ctx context.Context, userID uuid.UUID, flightID string) (*SessionView, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// Step operations
	ToggleSeat(ctx context.Context, userID, sessionID uuid.UUID, seatNumber string) (*SessionView, error)
	SetPassengerCount(ctx context.Context, userID, sessionID uuid.UUID, count int, cabinClass string) (*SessionView, error)
	ConfirmSeatSelection(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	UpdatePassenger(ctx context.Context, userID, sessionID uuid.UUID, index int, req PassengerRequest) (*SessionView, error)
	ConfirmPassengers(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	SelectPaymentMethod(ctx context.Context, userID, sessionID uuid.UUID, method string) (*SessionView, error)
	Back(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	Submit(ctx context.Context, userID, sessionID uuid.UUID) (*BookingResponse, error)

	// Bookings
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, userID uuid.UUID, bookingRef string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) error
	TicketQR(ctx context.Context, userID, ticketID uuid.UUID) ([]byte, error)

	// Admin
	AssignSeatToTicket(ctx context.Context, ticketID uuid.UUID) (*Ticket, error)
	FlightTicketAssignments(ctx context.Context, flightID uuid.UUID) (*TicketAssignments, error)
}

type service struct {
	repo       Repository
	store      SessionStore
	flightsSvc flights.Service
	seatsSvc   seats.Service
	publisher  EventPublisher
	qr         *QRGenerator
	limits     Limits
	logger     *logger.Logger
}

func NewService(repo Repository, store SessionStore, flightsSvc flights.Service, seatsSvc seats.Service, publisher EventPublisher, qr *QRGenerator, limits Limits) *service {
	return &service{
		repo:       repo,
		store:      store,
		flightsSvc: flightsSvc,
		seatsSvc:   seatsSvc,
		publisher:  publisher,
		qr:         qr,
		limits:     limits,
		logger:     logger.GetDefault(),
	}
}

// StartSession opens a booking session for a flight. Departed and
// cancelled flights cannot be booked.
func (s *service) StartSession(ctx context.Context, userID uuid.UUID, flightID string) (*SessionView, error) {
	flight, pricing, err := s.flightsSvc.GetFlightWithPricing(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if !flight.IsUpcoming(time.Now()) {
		return nil, ErrFlightDeparted
	}

	session := NewSession(userID, flight.ID, pricing)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.LogSessionStep(ctx, session.ID.String(), "", StepSeatSelection)
	return s.view(ctx, session)
}

func (s *service) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *service) AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, sessionID)
}

func (s *service) ToggleSeat(ctx context.Context, userID, sessionID uuid.UUID, seatNumber string) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(session *Session) error {
		flight, err := s.flightsSvc.GetFlight(ctx, session.FlightID.String())
		if err != nil {
			return err
		}
		layout, err := s.seatsSvc.GetLayout(ctx, flight.AircraftID)
		if err != nil {
			return err
		}

		seat := findSeat(layout, seatNumber)
		if seat == nil {
			return &ValidationError{Field: "seat_number", Message: "no such seat on this aircraft"}
		}
		if seat.Blocked {
			return &ValidationError{Field: "seat_number", Message: "seat is blocked"}
		}

		occupied, err := s.repo.OccupiedSeats(ctx, session.FlightID)
		if err != nil {
			return err
		}
		for _, t := range occupied {
			if t.SeatNumber == seatNumber {
				return &ValidationError{Field: "seat_number", Message: "seat is already taken"}
			}
		}

		return session.ToggleSeat(seat.SeatNumber, seat.CabinClass, s.limits.MaxPassengers)
	})
}

func (s *service) SetPassengerCount(ctx context.Context, userID, sessionID uuid.UUID, count int, cabinClass string) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(session *Session) error {
		return session.SetPassengerCount(count, s.limits.MaxPassengers, cabinClass)
	})
}

func (s *service) ConfirmSeatSelection(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutateStep(ctx, userID, sessionID, func(session *Session) error {
		return session.ConfirmSeatSelection()
	})
}

func (s *service) UpdatePassenger(ctx context.Context, userID, sessionID uuid.UUID, index int, req PassengerRequest) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(session *Session) error {
		return session.UpdatePassenger(index, req.FirstName, req.LastName, req.NationalID, req.BaggageKg, s.limits.MaxBaggageKg)
	})
}

func (s *service) ConfirmPassengers(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutateStep(ctx, userID, sessionID, func(session *Session) error {
		return session.ConfirmPassengers()
	})
}

func (s *service) SelectPaymentMethod(ctx context.Context, userID, sessionID uuid.UUID, method string) (*SessionView, error) {
	return s.mutate(ctx, userID, sessionID, func(session *Session) error {
		return session.SelectPaymentMethod(method)
	})
}

func (s *service) Back(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutateStep(ctx, userID, sessionID, func(session *Session) error {
		return session.Back()
	})
}

// Submit turns the session into a persisted booking. The seat
// uniqueness constraint is the final arbiter: a conflict rolls the
// session back to seat selection with the lost seats cleared, and the
// session survives for reselection.
func (s *service) Submit(ctx context.Context, userID, sessionID uuid.UUID) (*BookingResponse, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.BeginSubmit(); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	booking, err := s.buildBooking(ctx, session)
	if err == nil {
		err = s.repo.Create(ctx, booking)
	}
	if err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			session.FailSubmit(conflict)
		} else {
			session.FailSubmit(nil)
		}
		if saveErr := s.store.Save(ctx, session); saveErr != nil {
			s.logger.ErrorWithContext(ctx, "failed to persist session after submit failure", saveErr, nil)
		}
		return nil, err
	}

	session.CompleteSubmit(booking.BookingRef)
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to persist submitted session", err, nil)
	}

	s.logger.LogBookingCreated(ctx, booking.BookingRef, booking.FlightID.String(), userID.String())
	s.publish(ctx, EventBookingConfirmed, booking)

	created, err := s.repo.GetByID(ctx, booking.ID)
	if err != nil {
		// The booking exists; fall back to what we already have.
		created = booking
	}
	return NewBookingResponse(created), nil
}

// buildBooking resolves seats and prices the session into a booking
// aggregate ready for the transactional write.
func (s *service) buildBooking(ctx context.Context, session *Session) (*Booking, error) {
	flight, err := s.flightsSvc.GetFlight(ctx, session.FlightID.String())
	if err != nil {
		return nil, err
	}
	if !flight.IsUpcoming(time.Now()) {
		return nil, ErrFlightDeparted
	}

	passengers := session.Passengers
	layout, err := s.seatsSvc.GetLayout(ctx, flight.AircraftID)
	switch {
	case err == nil:
		occupied, err := s.repo.OccupiedSeats(ctx, session.FlightID)
		if err != nil {
			return nil, err
		}

		// Pre-validate explicitly selected seats against current
		// occupancy. The unique index still guards the race window.
		occupiedSet := make(map[string]bool, len(occupied))
		for _, t := range occupied {
			occupiedSet[t.SeatNumber] = true
		}
		var lost []string
		for _, p := range session.Passengers {
			if p.SeatSelected && occupiedSet[p.SeatNumber] {
				lost = append(lost, p.SeatNumber)
			}
		}
		if len(lost) > 0 {
			return nil, &SeatConflictError{SeatNumbers: lost}
		}

		passengers, err = assignSeats(layout, occupied, session.Passengers)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, seats.ErrLayoutMissing):
		// Aircraft without a generated layout book by passenger count
		// only; tickets stay unseated until an agent assigns them.
	default:
		return nil, err
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		UserID:     session.UserID,
		FlightID:   session.FlightID,
		Status:     BookingConfirmed,
		BookingRef: bookingRef,
	}

	for _, p := range passengers {
		quote := QuoteTicket(session.Pricing, p.CabinClass, p.BaggageKg, p.SeatSelected)
		ticketNumber, err := generateTicketNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket number: %w", err)
		}
		booking.Tickets = append(booking.Tickets, Ticket{
			FlightID:          session.FlightID,
			TicketNumber:      ticketNumber,
			FirstName:         p.FirstName,
			LastName:          p.LastName,
			NationalID:        p.NationalID,
			CabinClass:        p.CabinClass,
			SeatNumber:        p.SeatNumber,
			SeatAssigned:      p.SeatNumber != "",
			SeatSelectionPaid: p.SeatSelected,
			BaggageKg:         p.BaggageKg,
			FarePrice:         quote.FarePrice,
			BaggageFee:        quote.BaggageFee,
			SeatFee:           quote.SeatFee,
		})
		booking.TotalPrice += quote.Total
	}

	payment := Payment{
		Amount:        booking.TotalPrice,
		Currency:      "USD",
		Status:        PaymentStatusPending,
		PaymentMethod: session.PaymentMethod,
		TransactionID: generateTransactionID(),
	}
	payment.MarkCompleted()
	booking.Payments = []Payment{payment}

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

// GetBookingByRef resolves a booking by its reference, the identifier
// printed on confirmations. A ref guessed by another user behaves as
// not found.
func (s *service) GetBookingByRef(ctx context.Context, userID uuid.UUID, bookingRef string) (*Booking, error) {
	booking, err := s.repo.GetByRef(ctx, strings.ToUpper(strings.TrimSpace(bookingRef)))
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrNotBookingOwner
	}
	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if booking.Flight != nil && !booking.Flight.IsUpcoming(time.Now()) {
		return ErrFlightDeparted
	}

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return err
	}

	// Refund completed payments. The cancellation itself is already
	// committed, so a refund write failure is logged, not returned.
	for i := range booking.Payments {
		payment := &booking.Payments[i]
		if !payment.IsCompleted() {
			continue
		}
		payment.MarkRefunded()
		if err := s.repo.UpdatePayment(ctx, payment); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to mark payment refunded", err, map[string]interface{}{
				"booking_id": bookingID.String(),
				"payment_id": payment.ID.String(),
			})
		}
	}

	s.logger.LogBookingCancelled(ctx, bookingID.String(), booking.FlightID.String(), userID.String())
	booking.Cancel()
	s.publish(ctx, EventBookingCancelled, booking)
	return nil
}

func (s *service) TicketQR(ctx context.Context, userID, ticketID uuid.UUID) ([]byte, error) {
	ticket, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Booking == nil || ticket.Booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if ticket.Booking.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	booking, err := s.repo.GetByID(ctx, ticket.BookingID)
	if err != nil {
		return nil, err
	}
	return s.qr.TicketQR(booking, ticket)
}

// loadOwned fetches the session and enforces ownership. A session ID
// guessed by another user behaves as not found.
func (s *service) loadOwned(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// mutate applies fn to the session and saves it when fn succeeds.
func (s *service) mutate(ctx context.Context, userID, sessionID uuid.UUID, fn func(*Session) error) (*SessionView, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

// mutateStep is mutate plus step-transition logging.
func (s *service) mutateStep(ctx context.Context, userID, sessionID uuid.UUID, fn func(*Session) error) (*SessionView, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	from := session.Step
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	if session.Step != from {
		s.logger.LogSessionStep(ctx, session.ID.String(), from, session.Step)
	}
	return s.view(ctx, session)
}

// view renders the session for the client, attaching the current seat
// map while the session is on the seat-selection step.
func (s *service) view(ctx context.Context, session *Session) (*SessionView, error) {
	view := NewSessionView(session)
	if session.Step == StepSeatSelection {
		seatMap, err := s.seatsSvc.GetSeatMapWithSelection(ctx, session.FlightID, session.SelectedSeatNumbers())
		if err != nil {
			if errors.Is(err, seats.ErrLayoutMissing) {
				return view, nil
			}
			return nil, err
		}
		view.SeatMap = seatMap
	}
	return view, nil
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking) {
	event := BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		UserID:     booking.UserID,
		FlightID:   booking.FlightID,
		Passengers: len(booking.Tickets),
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish booking event",
			"type", eventType, "booking_ref", booking.BookingRef, "error", err)
	}
}

func findSeat(layout []seats.Seat, seatNumber string) *seats.Seat {
	for i := range layout {
		if layout[i].SeatNumber == seatNumber {
			return &layout[i]
		}
	}
	return nil
}

// generateBookingReference produces refs like SKY-20260901-QWJHTZ.
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("SKY-%s-%s", timestamp, string(randomPart)), nil
}

// generateTicketNumber produces globally unique ticket numbers like
// TKT-3F7A2C9E1B.
func generateTicketNumber() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("TKT-%X", buf), nil
}

// generateTransactionID produces a mock gateway transaction ID.
func generateTransactionID() string {
	timestamp := time.Now().Unix()
	id := uuid.New().String()
	shortID := strings.ReplaceAll(id, "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(shortID))
}
