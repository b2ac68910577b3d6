package flights

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateFlight(ctx context.Context, flight *Flight) error {
	args := m.Called(ctx, flight)
	if args.Error(0) == nil && flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) GetFlightByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Flight), args.Error(1)
}

func (m *MockRepository) ListFlights(ctx context.Context, limit, offset int) ([]Flight, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *MockRepository) ListUpcomingFlights(ctx context.Context, after time.Time) ([]Flight, error) {
	args := m.Called(ctx, after)
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *MockRepository) UpdateFlight(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AdjustAvailableSeats(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	args := m.Called(ctx, tx, id, delta)
	return args.Error(0)
}

func (m *MockRepository) CreateAirport(ctx context.Context, airport *Airport) error {
	args := m.Called(ctx, airport)
	return args.Error(0)
}

func (m *MockRepository) GetAirportByID(ctx context.Context, id uuid.UUID) (*Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Airport), args.Error(1)
}

func (m *MockRepository) ListAirports(ctx context.Context) ([]Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Airport), args.Error(1)
}

func (m *MockRepository) UpdateAirport(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteAirport(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateAircraft(ctx context.Context, aircraft *Aircraft) error {
	args := m.Called(ctx, aircraft)
	return args.Error(0)
}

func (m *MockRepository) GetAircraftByID(ctx context.Context, id uuid.UUID) (*Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Aircraft), args.Error(1)
}

func (m *MockRepository) ListAircraft(ctx context.Context) ([]Aircraft, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Aircraft), args.Error(1)
}

func (m *MockRepository) UpdateAircraft(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteAircraft(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreatePricingRule(ctx context.Context, rule *PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRepository) GetActivePricingRule(ctx context.Context, flightID uuid.UUID, at time.Time) (*PricingRule, error) {
	args := m.Called(ctx, flightID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PricingRule), args.Error(1)
}

func (m *MockRepository) ListPricingRules(ctx context.Context, flightID uuid.UUID) ([]PricingRule, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]PricingRule), args.Error(1)
}

func (m *MockRepository) UpdatePricingRule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeletePricingRule(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestResolvePricing_UsesActiveRule(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	flightID := uuid.New()
	now := time.Now()

	rule := &PricingRule{
		FlightID:          flightID,
		EconomyPrice:      4500,
		BusinessPrice:     12000,
		BaggagePricePerKg: 350,
		FreeBaggageKg:     15,
		Active:            true,
		EffectiveFrom:     now.Add(-time.Hour),
	}
	repo.On("GetActivePricingRule", mock.Anything, flightID, now).Return(rule, nil)

	pricing := svc.ResolvePricing(context.Background(), flightID, now)

	assert.True(t, pricing.FromRule)
	assert.Equal(t, 4500.0, pricing.EconomyPrice)
	assert.Equal(t, 12000.0, pricing.BusinessPrice)
	assert.Equal(t, 15.0, pricing.FreeBaggageKg)
}

func TestResolvePricing_FallsBackToDefaults(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	flightID := uuid.New()
	now := time.Now()

	repo.On("GetActivePricingRule", mock.Anything, flightID, now).
		Return(nil, gorm.ErrRecordNotFound)

	pricing := svc.ResolvePricing(context.Background(), flightID, now)

	assert.False(t, pricing.FromRule)
	assert.Equal(t, DefaultEconomyPrice, pricing.EconomyPrice)
	assert.Equal(t, DefaultBusinessPrice, pricing.BusinessPrice)
	assert.Equal(t, DefaultFreeBaggageKg, pricing.FreeBaggageKg)
}

func TestCreateAircraft_RejectsBadSeatSplit(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.CreateAircraft(context.Background(), CreateAircraftRequest{
		Model:              "Airbus A320neo",
		RegistrationNumber: "VT-SKA",
		TotalSeats:         180,
		EconomySeats:       150,
		BusinessSeats:      8,
	})

	assert.ErrorIs(t, err, ErrSeatSplitInvalid)
	repo.AssertNotCalled(t, "CreateAircraft", mock.Anything, mock.Anything)
}

func TestCreateFlight_SeedsAvailableSeatsFromAircraft(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	depID, arrID, aircraftID := uuid.New(), uuid.New(), uuid.New()
	repo.On("GetAircraftByID", mock.Anything, aircraftID).
		Return(&Aircraft{ID: aircraftID, TotalSeats: 158}, nil)

	var created *Flight
	repo.On("CreateFlight", mock.Anything, mock.AnythingOfType("*flights.Flight")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Flight) }).
		Return(nil)

	flight, err := svc.CreateFlight(context.Background(), CreateFlightRequest{
		FlightNumber:       "SK101",
		DepartureAirportID: depID.String(),
		ArrivalAirportID:   arrID.String(),
		AircraftID:         aircraftID.String(),
		DepartureTime:      time.Now().Add(24 * time.Hour),
		ArrivalTime:        time.Now().Add(26 * time.Hour),
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 158, flight.AvailableSeats)
	assert.Equal(t, StatusScheduled, flight.Status)
}

func TestGetFlight_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	flightID := uuid.New()

	repo.On("GetFlightByID", mock.Anything, flightID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetFlight(context.Background(), flightID.String())

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestPricingRule_IsEffectiveAt(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)

	rule := PricingRule{Active: true, EffectiveFrom: now.Add(-time.Hour), EffectiveTo: &until}

	assert.True(t, rule.IsEffectiveAt(now))
	assert.False(t, rule.IsEffectiveAt(now.Add(-2*time.Hour)))
	assert.False(t, rule.IsEffectiveAt(now.Add(2*time.Hour)))

	rule.Active = false
	assert.False(t, rule.IsEffectiveAt(now))
}

func TestFlight_IsUpcoming(t *testing.T) {
	now := time.Now()

	upcoming := Flight{DepartureTime: now.Add(time.Hour), Status: StatusScheduled}
	departed := Flight{DepartureTime: now.Add(-time.Hour), Status: StatusDeparted}
	cancelled := Flight{DepartureTime: now.Add(time.Hour), Status: StatusCancelled}

	assert.True(t, upcoming.IsUpcoming(now))
	assert.False(t, departed.IsUpcoming(now))
	assert.False(t, cancelled.IsUpcoming(now))
}
