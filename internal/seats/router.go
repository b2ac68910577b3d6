package seats

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller) {
	// Public - seat map for a flight (browsing before booking)
	router.GET("/flights/:flightId/seatmap", controller.GetSeatMap)

	// Admin - layout generation and seat blocking
	admin := router.Group("/admin/aircraft")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/:aircraftId/seats", controller.GenerateSeats)                 // POST /api/v1/admin/aircraft/:aircraftId/seats - Generate layout
		admin.PATCH("/:aircraftId/seats/:seatNumber", controller.UpdateSeatStatus) // PATCH /api/v1/admin/aircraft/:aircraftId/seats/:seatNumber - Block/unblock
	}

	// Admin - occupant-annotated seat map for a flight
	adminFlights := router.Group("/admin/flights")
	adminFlights.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminFlights.GET("/:flightId/seat-map", controller.GetAdminSeatMap) // GET /api/v1/admin/flights/:flightId/seat-map - Seat map with occupants
	}
}
