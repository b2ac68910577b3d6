// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/seats"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Cross-domain dependencies resolved during setup
	flightService flights.Service
	bookingRepo   bookings.Repository
	seatService   seats.Service
	publisher     bookings.EventPublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Setup auth routes
		r.setupAuthRoutes(api)

		// Setup flight catalog routes (must come first: seats and
		// bookings consume the flight service)
		r.setupFlightRoutes(api)

		// Setup seat map routes
		r.setupSeatRoutes(api)

		// Setup booking session and booking routes
		r.setupBookingRoutes(api)
	}
}

// Close releases resources owned by the router (the event publisher).
func (r *Router) Close() error {
	if r.publisher != nil {
		return r.publisher.Close()
	}
	return nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "skybook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "skybook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	// Initialize auth dependencies
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	// Setup auth routes
	authRouter.SetupRoutes(rg)
}

// setupFlightRoutes configures flight, airport, aircraft and pricing routes
func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	// Initialize flight dependencies
	flightRepo := flights.NewRepository(r.db.GetPostgreSQL())
	flightService := flights.NewService(flightRepo)

	// Flight listings are cached in Redis
	flightService.SetCacheService(cache.NewService(r.db.GetRedisClient()))

	// Store flight service for dependency injection
	r.flightService = flightService

	flightController := flights.NewController(flightService)

	// Setup flight routes
	flights.SetupFlightRoutes(rg, flightController)
}

// setupSeatRoutes configures seat map and seat layout routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	// The booking repository doubles as the seat occupancy source
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())

	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.flightService, r.bookingRepo)

	// Store seat service for dependency injection
	r.seatService = seatService

	seatController := seats.NewController(seatService)

	// Setup seat routes
	seats.SetupSeatRoutes(rg, seatController)
}

// setupBookingRoutes configures booking session and booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	sessionStore := bookings.NewRedisSessionStore(r.db.GetRedisClient(), r.config.Redis.BookingSessionTTL)

	r.publisher = r.buildEventPublisher()

	qrGenerator := bookings.NewQRGenerator(r.config.Booking.QRSecret)

	bookingService := bookings.NewService(
		r.bookingRepo,
		sessionStore,
		r.flightService,
		r.seatService,
		r.publisher,
		qrGenerator,
		bookings.Limits{
			MaxPassengers: r.config.Booking.MaxPassengersPerBooking,
			MaxBaggageKg:  r.config.Booking.MaxBaggageWeightKg,
		},
	)

	bookingController := bookings.NewController(bookingService)

	// Setup booking routes
	bookings.SetupBookingRoutes(rg, bookingController)
}

// buildEventPublisher wires the Kafka producer when enabled, falling
// back to a no-op publisher so booking flows never depend on Kafka.
func (r *Router) buildEventPublisher() bookings.EventPublisher {
	if !r.config.Kafka.Enabled {
		return bookings.NewNoopPublisher()
	}

	publisher, err := bookings.NewKafkaPublisher(bookings.KafkaPublisherConfig{
		Brokers:  r.config.Kafka.Brokers,
		Topic:    r.config.Kafka.BookingEventTopic,
		RetryMax: 5,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		logger.GetDefault().Warn("Kafka publisher unavailable, falling back to no-op",
			"error", err.Error())
		return bookings.NewNoopPublisher()
	}

	return publisher
}
