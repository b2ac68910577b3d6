package flights

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFlightRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse flights and airports
	publicFlights := router.Group("/flights")
	{
		publicFlights.GET("", controller.ListFlights)                  // GET /api/v1/flights - Browse flights
		publicFlights.GET("/upcoming", controller.ListUpcomingFlights) // GET /api/v1/flights/upcoming - Upcoming, non-cancelled flights
		publicFlights.GET("/:flightId", controller.GetFlight)          // GET /api/v1/flights/:flightId - Flight details with effective pricing
	}

	publicAirports := router.Group("/airports")
	{
		publicAirports.GET("", controller.ListAirports) // GET /api/v1/airports - List airports
	}

	// Admin routes - flight, airport, aircraft and pricing management
	adminFlights := router.Group("/admin/flights")
	adminFlights.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminFlights.POST("", controller.CreateFlight)                      // POST /api/v1/admin/flights - Create flight
		adminFlights.PUT("/:flightId", controller.UpdateFlight)             // PUT /api/v1/admin/flights/:flightId - Update flight
		adminFlights.DELETE("/:flightId", controller.DeleteFlight)          // DELETE /api/v1/admin/flights/:flightId - Delete flight
		adminFlights.GET("/:flightId/pricing", controller.ListPricingRules) // GET /api/v1/admin/flights/:flightId/pricing - Pricing rules for flight
	}

	adminAirports := router.Group("/admin/airports")
	adminAirports.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminAirports.POST("", controller.CreateAirport)              // POST /api/v1/admin/airports - Create airport
		adminAirports.PUT("/:airportId", controller.UpdateAirport)    // PUT /api/v1/admin/airports/:airportId - Update airport
		adminAirports.DELETE("/:airportId", controller.DeleteAirport) // DELETE /api/v1/admin/airports/:airportId - Delete airport
	}

	adminAircraft := router.Group("/admin/aircraft")
	adminAircraft.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminAircraft.POST("", controller.CreateAircraft)               // POST /api/v1/admin/aircraft - Create aircraft
		adminAircraft.GET("", controller.ListAircraft)                  // GET /api/v1/admin/aircraft - List aircraft
		adminAircraft.GET("/:aircraftId", controller.GetAircraft)       // GET /api/v1/admin/aircraft/:aircraftId - Aircraft details
		adminAircraft.DELETE("/:aircraftId", controller.DeleteAircraft) // DELETE /api/v1/admin/aircraft/:aircraftId - Delete aircraft
	}

	adminPricing := router.Group("/admin/pricing")
	adminPricing.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminPricing.POST("", controller.CreatePricingRule)           // POST /api/v1/admin/pricing - Create pricing rule
		adminPricing.PUT("/:ruleId", controller.UpdatePricingRule)    // PUT /api/v1/admin/pricing/:ruleId - Update pricing rule
		adminPricing.DELETE("/:ruleId", controller.DeletePricingRule) // DELETE /api/v1/admin/pricing/:ruleId - Delete pricing rule
	}
}
