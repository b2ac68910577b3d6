package bookings

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skybook/internal/flights"
	"skybook/internal/seats"
)

// Mock repository

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil && booking.ID == uuid.Nil {
		booking.ID = uuid.New() // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByRef(ctx context.Context, bookingRef string) (*Booking, error) {
	args := m.Called(ctx, bookingRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockRepository) GetTicketByID(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func (m *MockRepository) GetTicketsByFlight(ctx context.Context, flightID uuid.UUID) ([]Ticket, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *MockRepository) AssignTicketSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) error {
	args := m.Called(ctx, ticketID, seatNumber)
	return args.Error(0)
}

func (m *MockRepository) UpdatePayment(ctx context.Context, payment *Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockRepository) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]seats.TicketOccupancy, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seats.TicketOccupancy), args.Error(1)
}

// In-memory session store

type memoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[uuid.UUID]Session)}
}

func (s *memoryStore) Save(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *memoryStore) Get(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memoryStore) stored(t *testing.T, sessionID uuid.UUID) *Session {
	t.Helper()
	session, err := s.Get(context.Background(), sessionID)
	require.NoError(t, err)
	return session
}

// Mock flight service

type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) CreateFlight(ctx context.Context, req flights.CreateFlightRequest) (*flights.Flight, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.Flight), args.Error(1)
}

func (m *MockFlightService) GetFlight(ctx context.Context, id string) (*flights.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.Flight), args.Error(1)
}

func (m *MockFlightService) GetFlightWithPricing(ctx context.Context, id string) (*flights.Flight, flights.PricingSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, flights.PricingSnapshot{}, args.Error(2)
	}
	return args.Get(0).(*flights.Flight), args.Get(1).(flights.PricingSnapshot), args.Error(2)
}

func (m *MockFlightService) ListFlights(ctx context.Context, page, limit int) ([]flights.Flight, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]flights.Flight), args.Error(1)
}

func (m *MockFlightService) ListUpcomingFlights(ctx context.Context) ([]flights.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]flights.Flight), args.Error(1)
}

func (m *MockFlightService) UpdateFlight(ctx context.Context, id string, req flights.UpdateFlightRequest) (*flights.Flight, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(*flights.Flight), args.Error(1)
}

func (m *MockFlightService) DeleteFlight(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightService) CreateAirport(ctx context.Context, req flights.CreateAirportRequest) (*flights.Airport, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*flights.Airport), args.Error(1)
}

func (m *MockFlightService) ListAirports(ctx context.Context) ([]flights.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]flights.Airport), args.Error(1)
}

func (m *MockFlightService) UpdateAirport(ctx context.Context, id string, req flights.UpdateAirportRequest) (*flights.Airport, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(*flights.Airport), args.Error(1)
}

func (m *MockFlightService) DeleteAirport(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightService) CreateAircraft(ctx context.Context, req flights.CreateAircraftRequest) (*flights.Aircraft, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*flights.Aircraft), args.Error(1)
}

func (m *MockFlightService) GetAircraft(ctx context.Context, id string) (*flights.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.Aircraft), args.Error(1)
}

func (m *MockFlightService) ListAircraft(ctx context.Context) ([]flights.Aircraft, error) {
	args := m.Called(ctx)
	return args.Get(0).([]flights.Aircraft), args.Error(1)
}

func (m *MockFlightService) DeleteAircraft(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightService) CreatePricingRule(ctx context.Context, req flights.CreatePricingRuleRequest) (*flights.PricingRule, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*flights.PricingRule), args.Error(1)
}

func (m *MockFlightService) ListPricingRules(ctx context.Context, flightID string) ([]flights.PricingRule, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]flights.PricingRule), args.Error(1)
}

func (m *MockFlightService) UpdatePricingRule(ctx context.Context, id string, req flights.UpdatePricingRuleRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockFlightService) DeletePricingRule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightService) ResolvePricing(ctx context.Context, flightID uuid.UUID, at time.Time) flights.PricingSnapshot {
	args := m.Called(ctx, flightID, at)
	return args.Get(0).(flights.PricingSnapshot)
}

// Mock seat service

type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) GenerateSeatsForAircraft(ctx context.Context, aircraftID string) ([]seats.Seat, error) {
	args := m.Called(ctx, aircraftID)
	return args.Get(0).([]seats.Seat), args.Error(1)
}

func (m *MockSeatService) GetSeatMap(ctx context.Context, flightID string) (*seats.SeatMap, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.SeatMap), args.Error(1)
}

func (m *MockSeatService) GetSeatMapWithSelection(ctx context.Context, flightID uuid.UUID, selected []string) (*seats.SeatMap, error) {
	args := m.Called(ctx, flightID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.SeatMap), args.Error(1)
}

func (m *MockSeatService) GetAdminSeatMap(ctx context.Context, flightID string) (*seats.SeatMap, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.SeatMap), args.Error(1)
}

func (m *MockSeatService) GetLayout(ctx context.Context, aircraftID uuid.UUID) ([]seats.Seat, error) {
	args := m.Called(ctx, aircraftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seats.Seat), args.Error(1)
}

func (m *MockSeatService) SetSeatBlocked(ctx context.Context, aircraftID, seatNumber string, blocked bool) error {
	args := m.Called(ctx, aircraftID, seatNumber, blocked)
	return args.Error(0)
}

// Mock event publisher

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Fixtures

type serviceFixture struct {
	svc        Service
	repo       *MockRepository
	store      *memoryStore
	flightsSvc *MockFlightService
	seatsSvc   *MockSeatService
	publisher  *MockPublisher
	flight     *flights.Flight
	layout     []seats.Seat
	userID     uuid.UUID
}

func newServiceFixture() *serviceFixture {
	repo := new(MockRepository)
	store := newMemoryStore()
	flightsSvc := new(MockFlightService)
	seatsSvc := new(MockSeatService)
	publisher := new(MockPublisher)

	aircraftID := uuid.New()
	flight := &flights.Flight{
		ID:             uuid.New(),
		FlightNumber:   "SK101",
		AircraftID:     aircraftID,
		DepartureTime:  time.Now().Add(48 * time.Hour),
		ArrivalTime:    time.Now().Add(50 * time.Hour),
		Status:         flights.StatusScheduled,
		AvailableSeats: 10,
	}

	return &serviceFixture{
		svc: NewService(repo, store, flightsSvc, seatsSvc, publisher,
			NewQRGenerator("test-secret"), Limits{MaxPassengers: 9, MaxBaggageKg: 50}),
		repo:       repo,
		store:      store,
		flightsSvc: flightsSvc,
		seatsSvc:   seatsSvc,
		publisher:  publisher,
		flight:     flight,
		layout:     seats.GenerateLayout(aircraftID, 4, 6),
		userID:     uuid.New(),
	}
}

// seedSession drops a session straight into the store, bypassing the
// wizard, so each test sets up exactly the state it needs.
func (f *serviceFixture) seedSession(t *testing.T, mutate func(*Session)) *Session {
	t.Helper()
	session := NewSession(f.userID, f.flight.ID, testPricing())
	if mutate != nil {
		mutate(session)
	}
	require.NoError(t, f.store.Save(context.Background(), session))
	return session
}

func sessionReadyToSubmit(selected ...string) func(*Session) {
	return func(s *Session) {
		s.Step = StepPayment
		s.PaymentMethod = PaymentCreditCard
		for _, sn := range selected {
			s.SelectedSeats = append(s.SelectedSeats, SelectedSeat{SeatNumber: sn, CabinClass: seats.ClassEconomy})
			s.Passengers = append(s.Passengers, PassengerDraft{
				FirstName:    "Asha",
				LastName:     "Patel",
				CabinClass:   seats.ClassEconomy,
				SeatNumber:   sn,
				SeatSelected: true,
				Complete:     true,
			})
		}
	}
}

// Tests

func TestStartSession(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.flightsSvc.On("GetFlightWithPricing", ctx, f.flight.ID.String()).
		Return(f.flight, testPricing(), nil)
	f.seatsSvc.On("GetSeatMapWithSelection", ctx, f.flight.ID, mock.Anything).
		Return(&seats.SeatMap{FlightID: f.flight.ID}, nil)

	view, err := f.svc.StartSession(ctx, f.userID, f.flight.ID.String())

	require.NoError(t, err)
	assert.Equal(t, StepSeatSelection, view.Step)
	assert.Equal(t, f.flight.ID, view.FlightID)
	assert.NotNil(t, view.SeatMap)

	stored := f.store.stored(t, view.ID)
	assert.Equal(t, f.userID, stored.UserID)
	assert.Equal(t, testPricing(), stored.Pricing)
}

func TestStartSession_DepartedFlight(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.flight.DepartureTime = time.Now().Add(-time.Hour)
	f.flightsSvc.On("GetFlightWithPricing", ctx, f.flight.ID.String()).
		Return(f.flight, testPricing(), nil)

	_, err := f.svc.StartSession(ctx, f.userID, f.flight.ID.String())

	assert.ErrorIs(t, err, ErrFlightDeparted)
}

func TestStartSession_CancelledFlight(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.flight.Status = flights.StatusCancelled
	f.flightsSvc.On("GetFlightWithPricing", ctx, f.flight.ID.String()).
		Return(f.flight, testPricing(), nil)

	_, err := f.svc.StartSession(ctx, f.userID, f.flight.ID.String())

	assert.ErrorIs(t, err, ErrFlightDeparted)
}

func TestGetSession_WrongUserBehavesAsNotFound(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, nil)

	_, err := f.svc.GetSession(ctx, uuid.New(), session.ID)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestToggleSeat_RejectsTakenSeat(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, nil)

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).
		Return([]seats.TicketOccupancy{{SeatNumber: "2A", CabinClass: seats.ClassEconomy}}, nil)

	_, err := f.svc.ToggleSeat(ctx, f.userID, session.ID, "2A")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "seat_number", vErr.Field)
}

func TestToggleSeat_RejectsUnknownSeat(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, nil)

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)

	_, err := f.svc.ToggleSeat(ctx, f.userID, session.ID, "99Z")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestSubmit_CreatesBooking(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, sessionReadyToSubmit("2A", "2B"))

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).Return([]seats.TicketOccupancy{}, nil)

	var created *Booking
	f.repo.On("Create", ctx, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Booking) }).
		Return(nil)
	f.repo.On("GetByID", ctx, mock.Anything).Return((*Booking)(nil), ErrBookingNotFound)
	f.publisher.On("Publish", ctx, mock.AnythingOfType("bookings.BookingEvent")).Return(nil)

	resp, err := f.svc.Submit(ctx, f.userID, session.ID)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, strings.HasPrefix(resp.BookingRef, "SKY-"))
	assert.Equal(t, BookingConfirmed, resp.Status)
	require.Len(t, resp.Tickets, 2)
	assert.Equal(t, "2A", resp.Tickets[0].SeatNumber)
	assert.Equal(t, "2B", resp.Tickets[1].SeatNumber)

	// Each selected seat pays the selection fee on top of the fare
	assert.Equal(t, 2*(500.0+SeatSelectionFee), resp.TotalPrice)
	assert.Equal(t, created.TotalFor(), created.TotalPrice)

	require.Len(t, created.Payments, 1)
	assert.Equal(t, PaymentStatusCompleted, created.Payments[0].Status)
	assert.Equal(t, PaymentCreditCard, created.Payments[0].PaymentMethod)

	stored := f.store.stored(t, session.ID)
	assert.Equal(t, StepSubmitted, stored.Step)
	assert.Equal(t, resp.BookingRef, stored.BookingRef)
	assert.False(t, stored.Submitting)

	f.publisher.AssertCalled(t, "Publish", ctx, mock.AnythingOfType("bookings.BookingEvent"))
}

func TestSubmit_AutoAssignsSeats(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, func(s *Session) {
		s.Step = StepPayment
		s.PaymentMethod = PaymentDebitCard
		s.AutoAssign = true
		s.PassengerCount = 2
		s.AutoAssignClass = seats.ClassEconomy
		s.Passengers = []PassengerDraft{
			{FirstName: "Asha", LastName: "Patel", CabinClass: seats.ClassEconomy, Complete: true},
			{FirstName: "Daniel", LastName: "Kim", CabinClass: seats.ClassEconomy, Complete: true},
		}
	})

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).Return([]seats.TicketOccupancy{}, nil)

	var created *Booking
	f.repo.On("Create", ctx, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Booking) }).
		Return(nil)
	f.repo.On("GetByID", ctx, mock.Anything).Return((*Booking)(nil), ErrBookingNotFound)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.Submit(ctx, f.userID, session.ID)

	require.NoError(t, err)
	require.NotNil(t, created)
	// Economy rows start after the business cabin; deterministic order
	assert.Equal(t, "2A", resp.Tickets[0].SeatNumber)
	assert.Equal(t, "2B", resp.Tickets[1].SeatNumber)
	// Auto-assigned seats never pay the selection fee
	assert.Equal(t, 0.0, resp.Tickets[0].SeatFee)
	assert.Equal(t, 2*500.0, resp.TotalPrice)
}

func TestSubmit_NoSeatLayoutCreatesUnseatedTickets(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, func(s *Session) {
		s.Step = StepPayment
		s.PaymentMethod = PaymentCreditCard
		s.AutoAssign = true
		s.PassengerCount = 2
		s.AutoAssignClass = seats.ClassEconomy
		s.Passengers = []PassengerDraft{
			{FirstName: "Asha", LastName: "Patel", NationalID: "ID123", CabinClass: seats.ClassEconomy, BaggageKg: 20, Complete: true},
			{FirstName: "Daniel", LastName: "Kim", NationalID: "ID456", CabinClass: seats.ClassEconomy, BaggageKg: 20, Complete: true},
		}
	})

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	// Aircraft without a generated layout: count-mode bookings still
	// submit, tickets stay unseated for the assignment console.
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(nil, seats.ErrLayoutMissing)

	var created *Booking
	f.repo.On("Create", ctx, mock.AnythingOfType("*bookings.Booking")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Booking) }).
		Return(nil)
	f.repo.On("GetByID", ctx, mock.Anything).Return((*Booking)(nil), ErrBookingNotFound)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.Submit(ctx, f.userID, session.ID)

	require.NoError(t, err)
	require.NotNil(t, created)
	require.Len(t, resp.Tickets, 2)
	for _, ticket := range created.Tickets {
		assert.False(t, ticket.SeatAssigned)
		assert.Empty(t, ticket.SeatNumber)
		assert.Equal(t, 0.0, ticket.SeatFee)
	}
	assert.Equal(t, 2*500.0, resp.TotalPrice)

	f.repo.AssertNotCalled(t, "OccupiedSeats", mock.Anything, mock.Anything)

	stored := f.store.stored(t, session.ID)
	assert.Equal(t, StepSubmitted, stored.Step)
}

func TestSubmit_SeatConflictRewindsSession(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, sessionReadyToSubmit("2A", "2B"))

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).Return([]seats.TicketOccupancy{}, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*bookings.Booking")).
		Return(&SeatConflictError{SeatNumbers: []string{"2A"}})

	_, err := f.svc.Submit(ctx, f.userID, session.ID)

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"2A"}, conflict.SeatNumbers)

	// The session survives: back on seat selection with the lost seat
	// cleared, ready for a reselect.
	stored := f.store.stored(t, session.ID)
	assert.Equal(t, StepSeatSelection, stored.Step)
	assert.False(t, stored.Submitting)
	assert.Equal(t, []string{"2B"}, stored.SelectedSeatNumbers())

	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSubmit_PreValidationCatchesLostSeat(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, sessionReadyToSubmit("2A"))

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	// Someone else grabbed 2A between selection and submit
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).
		Return([]seats.TicketOccupancy{{SeatNumber: "2A", CabinClass: seats.ClassEconomy}}, nil)

	_, err := f.svc.Submit(ctx, f.userID, session.ID)

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	stored := f.store.stored(t, session.ID)
	assert.Equal(t, StepSeatSelection, stored.Step)
	assert.Empty(t, stored.SelectedSeatNumbers())
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	session := f.seedSession(t, func(s *Session) {
		sessionReadyToSubmit("2A")(s)
		s.Submitting = true
	})

	_, err := f.svc.Submit(ctx, f.userID, session.ID)

	assert.ErrorIs(t, err, ErrSubmitInProgress)
}

func TestCancelBooking(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	bookingID := uuid.New()

	booking := &Booking{
		ID:       bookingID,
		UserID:   f.userID,
		FlightID: f.flight.ID,
		Status:   BookingConfirmed,
		Flight:   f.flight,
		Tickets:  []Ticket{{SeatNumber: "2A"}},
	}

	f.repo.On("GetByID", ctx, bookingID).Return(booking, nil)
	f.repo.On("Cancel", ctx, bookingID).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.svc.CancelBooking(ctx, f.userID, bookingID))

	f.repo.AssertCalled(t, "Cancel", ctx, bookingID)
}

func TestCancelBooking_RefundsCompletedPayment(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	bookingID := uuid.New()

	payment := Payment{ID: uuid.New(), BookingID: bookingID, Amount: 700, Status: PaymentStatusCompleted}
	booking := &Booking{
		ID:       bookingID,
		UserID:   f.userID,
		FlightID: f.flight.ID,
		Status:   BookingConfirmed,
		Flight:   f.flight,
		Tickets:  []Ticket{{SeatNumber: "2A"}},
		Payments: []Payment{payment},
	}

	f.repo.On("GetByID", ctx, bookingID).Return(booking, nil)
	f.repo.On("Cancel", ctx, bookingID).Return(nil)
	f.repo.On("UpdatePayment", ctx, mock.AnythingOfType("*bookings.Payment")).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.svc.CancelBooking(ctx, f.userID, bookingID))

	f.repo.AssertCalled(t, "UpdatePayment", ctx, mock.MatchedBy(func(p *Payment) bool {
		return p.ID == payment.ID && p.Status == PaymentStatusRefunded
	}))
}

func TestCancelBooking_NotOwner(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	bookingID := uuid.New()

	f.repo.On("GetByID", ctx, bookingID).
		Return(&Booking{ID: bookingID, UserID: uuid.New(), Status: BookingConfirmed}, nil)

	err := f.svc.CancelBooking(ctx, f.userID, bookingID)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	bookingID := uuid.New()

	f.repo.On("GetByID", ctx, bookingID).
		Return(&Booking{ID: bookingID, UserID: f.userID, Status: BookingCancelled}, nil)

	err := f.svc.CancelBooking(ctx, f.userID, bookingID)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestGetUserBookings_NormalizesPagination(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.repo.On("GetByUserID", ctx, f.userID, 20, 0).Return([]Booking{}, nil)

	_, err := f.svc.GetUserBookings(ctx, f.userID, 0, -5)

	require.NoError(t, err)
	f.repo.AssertCalled(t, "GetByUserID", ctx, f.userID, 20, 0)
}

func TestGetBookingByRef(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	booking := &Booking{ID: uuid.New(), UserID: f.userID, BookingRef: "SKY-20260901-ABCDEF"}
	f.repo.On("GetByRef", ctx, "SKY-20260901-ABCDEF").Return(booking, nil)

	// Lookup is case-insensitive on the reference.
	found, err := f.svc.GetBookingByRef(ctx, f.userID, "  sky-20260901-abcdef ")

	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)
}

func TestGetBookingByRef_WrongUserBehavesAsNotFound(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.repo.On("GetByRef", ctx, "SKY-20260901-ABCDEF").
		Return(&Booking{ID: uuid.New(), UserID: uuid.New(), BookingRef: "SKY-20260901-ABCDEF"}, nil)

	_, err := f.svc.GetBookingByRef(ctx, f.userID, "SKY-20260901-ABCDEF")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestFlightTicketAssignments_PartitionsBySeatState(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	seated := Ticket{ID: uuid.New(), FlightID: f.flight.ID, SeatNumber: "2A", SeatAssigned: true}
	pending := Ticket{ID: uuid.New(), FlightID: f.flight.ID}

	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.repo.On("GetTicketsByFlight", ctx, f.flight.ID).Return([]Ticket{seated, pending}, nil)

	assignments, err := f.svc.FlightTicketAssignments(ctx, f.flight.ID)

	require.NoError(t, err)
	assert.Equal(t, f.flight.ID, assignments.FlightID)
	require.Len(t, assignments.Assigned, 1)
	assert.Equal(t, seated.ID, assignments.Assigned[0].ID)
	require.Len(t, assignments.Pending, 1)
	assert.Equal(t, pending.ID, assignments.Pending[0].ID)
}

func TestFlightTicketAssignments_UnknownFlight(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	flightID := uuid.New()

	f.flightsSvc.On("GetFlight", ctx, flightID.String()).
		Return(nil, flights.ErrFlightNotFound)

	_, err := f.svc.FlightTicketAssignments(ctx, flightID)

	assert.ErrorIs(t, err, flights.ErrFlightNotFound)
	f.repo.AssertNotCalled(t, "GetTicketsByFlight", mock.Anything, mock.Anything)
}

func TestAssignSeatToTicket(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	ticketID := uuid.New()

	ticket := &Ticket{
		ID:         ticketID,
		FlightID:   f.flight.ID,
		CabinClass: seats.ClassBusiness,
	}

	f.repo.On("GetTicketByID", ctx, ticketID).Return(ticket, nil)
	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).
		Return([]seats.TicketOccupancy{{SeatNumber: "1A", CabinClass: seats.ClassBusiness}}, nil)
	f.repo.On("AssignTicketSeat", ctx, ticketID, "1B").Return(nil)

	updated, err := f.svc.AssignSeatToTicket(ctx, ticketID)

	require.NoError(t, err)
	assert.Equal(t, "1B", updated.SeatNumber)
	assert.True(t, updated.SeatAssigned)
}

func TestAssignSeatToTicket_ConflictIsRecoverable(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	ticketID := uuid.New()

	ticket := &Ticket{ID: ticketID, FlightID: f.flight.ID, CabinClass: seats.ClassEconomy}

	f.repo.On("GetTicketByID", ctx, ticketID).Return(ticket, nil)
	f.flightsSvc.On("GetFlight", ctx, f.flight.ID.String()).Return(f.flight, nil)
	f.seatsSvc.On("GetLayout", ctx, f.flight.AircraftID).Return(f.layout, nil)
	f.repo.On("OccupiedSeats", ctx, f.flight.ID).Return([]seats.TicketOccupancy{}, nil)
	// Another agent grabbed the seat between the read and the write.
	f.repo.On("AssignTicketSeat", ctx, ticketID, "2A").
		Return(&SeatConflictError{SeatNumbers: []string{"2A"}})

	_, err := f.svc.AssignSeatToTicket(ctx, ticketID)

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"2A"}, conflict.SeatNumbers)
	assert.False(t, ticket.SeatAssigned)
}

func TestAssignSeatToTicket_AlreadySeated(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	ticketID := uuid.New()

	ticket := &Ticket{ID: ticketID, SeatNumber: "3C", SeatAssigned: true}
	f.repo.On("GetTicketByID", ctx, ticketID).Return(ticket, nil)

	updated, err := f.svc.AssignSeatToTicket(ctx, ticketID)

	require.NoError(t, err)
	assert.Equal(t, "3C", updated.SeatNumber)
	f.repo.AssertNotCalled(t, "AssignTicketSeat", mock.Anything, mock.Anything, mock.Anything)
}
