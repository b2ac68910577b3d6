package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"skybook/internal/flights"
	"skybook/internal/seats"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SkyBook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"payments",
		"tickets",
		"bookings",
		"pricing_rules",
		"seats",
		"flights",
		"aircraft",
		"airports",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed airports (no dependencies)
	airportIDs, err := s.SeedAirports()
	if err != nil {
		return fmt.Errorf("failed to seed airports: %w", err)
	}

	// Seed aircraft with their seat layouts
	aircraftIDs, err := s.SeedAircraft()
	if err != nil {
		return fmt.Errorf("failed to seed aircraft: %w", err)
	}

	// Seed flights and pricing rules
	if err := s.SeedFlights(airportIDs, aircraftIDs); err != nil {
		return fmt.Errorf("failed to seed flights: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 3 users: 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@skybook.io", users.RoleAdmin},
		{"user1", "Asha", "Patel", "asha.patel@example.com", users.RoleUser},
		{"user2", "Daniel", "Kim", "daniel.kim@example.com", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedAirports creates a small set of airports keyed by IATA code
func (s *Seeder) SeedAirports() (map[string]uuid.UUID, error) {
	fmt.Println("  🛫 Seeding airports...")

	airportIDs := make(map[string]uuid.UUID)

	airportsData := []struct {
		code    string
		name    string
		city    string
		country string
	}{
		{"BOM", "Chhatrapati Shivaji Maharaj International Airport", "Mumbai", "India"},
		{"DEL", "Indira Gandhi International Airport", "Delhi", "India"},
		{"BLR", "Kempegowda International Airport", "Bengaluru", "India"},
		{"DXB", "Dubai International Airport", "Dubai", "United Arab Emirates"},
		{"SIN", "Singapore Changi Airport", "Singapore", "Singapore"},
		{"LHR", "Heathrow Airport", "London", "United Kingdom"},
	}

	for _, airportData := range airportsData {
		airport := flights.Airport{
			ID:        uuid.New(),
			Code:      airportData.code,
			Name:      airportData.name,
			City:      airportData.city,
			Country:   airportData.country,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&airport).Error; err != nil {
			return nil, fmt.Errorf("failed to create airport %s: %w", airport.Code, err)
		}

		airportIDs[airport.Code] = airport.ID
		fmt.Printf("    ✅ Created airport: %s (%s)\n", airport.Code, airport.City)
	}

	return airportIDs, nil
}

// SeedAircraft creates aircraft and generates their physical seat layouts
func (s *Seeder) SeedAircraft() ([]flights.Aircraft, error) {
	fmt.Println("  ✈️ Seeding aircraft...")

	aircraftData := []struct {
		model        string
		registration string
		business     int
		economy      int
	}{
		{"Airbus A320neo", "VT-SKA", 8, 150},
		{"Boeing 737-800", "VT-SKB", 12, 162},
		{"Boeing 787-9 Dreamliner", "VT-SKC", 24, 240},
	}

	var created []flights.Aircraft
	for _, data := range aircraftData {
		aircraft := flights.Aircraft{
			ID:                 uuid.New(),
			Model:              data.model,
			RegistrationNumber: data.registration,
			TotalSeats:         data.business + data.economy,
			EconomySeats:       data.economy,
			BusinessSeats:      data.business,
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&aircraft).Error; err != nil {
			return nil, fmt.Errorf("failed to create aircraft %s: %w", aircraft.RegistrationNumber, err)
		}

		// Generate the physical seat layout for the cabin split
		layout := seats.GenerateLayout(aircraft.ID, aircraft.BusinessSeats, aircraft.EconomySeats)
		if err := s.db.PostgreSQL.CreateInBatches(layout, 200).Error; err != nil {
			return nil, fmt.Errorf("failed to create seat layout for %s: %w", aircraft.RegistrationNumber, err)
		}

		created = append(created, aircraft)
		fmt.Printf("    ✅ Created aircraft: %s (%s, %d seats)\n",
			aircraft.Model, aircraft.RegistrationNumber, aircraft.TotalSeats)
	}

	return created, nil
}

// SeedFlights creates sample flights with pricing rules
func (s *Seeder) SeedFlights(airportIDs map[string]uuid.UUID, aircraftList []flights.Aircraft) error {
	fmt.Println("  🛩️ Seeding flights...")

	flightsData := []struct {
		number        string
		from          string
		to            string
		aircraftIndex int
		daysFromNow   int
		durationHours float64
		economyPrice  float64
		businessPrice float64
		baggagePerKg  float64
		freeBaggageKg float64
	}{
		{"SK101", "BOM", "DEL", 0, 3, 2.0, 4500, 12000, 350, 15},
		{"SK102", "DEL", "BOM", 0, 3, 2.0, 4500, 12000, 350, 15},
		{"SK201", "BOM", "DXB", 1, 7, 3.5, 9500, 28000, 500, 20},
		{"SK301", "DEL", "SIN", 2, 14, 5.5, 14000, 42000, 600, 25},
		{"SK401", "BOM", "LHR", 2, 21, 9.0, 32000, 95000, 800, 30},
		{"SK501", "BLR", "DEL", 0, 5, 2.5, 5200, 13500, 350, 15},
	}

	for _, data := range flightsData {
		aircraft := aircraftList[data.aircraftIndex]
		departure := time.Now().AddDate(0, 0, data.daysFromNow).Truncate(time.Hour)
		arrival := departure.Add(time.Duration(data.durationHours * float64(time.Hour)))

		flight := flights.Flight{
			ID:                 uuid.New(),
			FlightNumber:       data.number,
			DepartureAirportID: airportIDs[data.from],
			ArrivalAirportID:   airportIDs[data.to],
			AircraftID:         aircraft.ID,
			DepartureTime:      departure,
			ArrivalTime:        arrival,
			Status:             flights.StatusScheduled,
			AvailableSeats:     aircraft.TotalSeats,
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&flight).Error; err != nil {
			return fmt.Errorf("failed to create flight %s: %w", flight.FlightNumber, err)
		}

		rule := flights.PricingRule{
			ID:                uuid.New(),
			FlightID:          flight.ID,
			EconomyPrice:      data.economyPrice,
			BusinessPrice:     data.businessPrice,
			BaggagePricePerKg: data.baggagePerKg,
			FreeBaggageKg:     data.freeBaggageKg,
			EffectiveFrom:     time.Now().Add(-time.Hour),
			Active:            true,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&rule).Error; err != nil {
			return fmt.Errorf("failed to create pricing rule for flight %s: %w", flight.FlightNumber, err)
		}

		fmt.Printf("    ✅ Created flight: %s %s→%s (economy %.0f, business %.0f)\n",
			flight.FlightNumber, data.from, data.to, data.economyPrice, data.businessPrice)
	}

	return nil
}
