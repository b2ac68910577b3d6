package bookings

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	// Booking sessions - all authenticated. Submission is rate limited
	// more strictly via the global path-based limiter.
	sessions := router.Group("/booking-sessions")
	sessions.Use(middleware.JWTAuth())
	{
		sessions.POST("", controller.StartSession)                                    // POST /api/v1/booking-sessions - Start session for a flight
		sessions.GET("/:sessionId", controller.GetSession)                            // GET /api/v1/booking-sessions/:sessionId - Session state + seat map
		sessions.DELETE("/:sessionId", controller.AbandonSession)                     // DELETE /api/v1/booking-sessions/:sessionId - Abandon
		sessions.POST("/:sessionId/seats/toggle", controller.ToggleSeat)              // POST .../seats/toggle - Pick or unpick a seat
		sessions.POST("/:sessionId/passenger-count", controller.SetPassengerCount)    // POST .../passenger-count - Auto-assign mode
		sessions.POST("/:sessionId/confirm-seats", controller.ConfirmSeatSelection)   // POST .../confirm-seats - To passenger details
		sessions.PUT("/:sessionId/passengers/:index", controller.UpdatePassenger)     // PUT .../passengers/:index - Fill passenger details
		sessions.POST("/:sessionId/confirm-passengers", controller.ConfirmPassengers) // POST .../confirm-passengers - To payment
		sessions.POST("/:sessionId/payment-method", controller.SelectPaymentMethod)   // POST .../payment-method - Choose payment method
		sessions.POST("/:sessionId/back", controller.Back)                            // POST .../back - One step back
		sessions.POST("/:sessionId/submit", controller.Submit)                        // POST .../submit - Create the booking
	}

	// Confirmed bookings
	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.GET("", controller.GetUserBookings)                  // GET /api/v1/bookings - Caller's bookings
		bookings.GET("/:bookingId", controller.GetBooking)            // GET /api/v1/bookings/:bookingId - Booking details
		bookings.GET("/ref/:bookingRef", controller.GetBookingByRef)  // GET /api/v1/bookings/ref/:bookingRef - Lookup by reference
		bookings.DELETE("/:bookingId", controller.CancelBooking)      // DELETE /api/v1/bookings/:bookingId - Cancel
		bookings.GET("/tickets/:ticketId/qr", controller.GetTicketQR) // GET /api/v1/bookings/tickets/:ticketId/qr - Boarding pass QR
	}

	// Admin - seat assignment console
	admin := router.Group("/admin/tickets")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/:ticketId/assign-seat", controller.AssignSeat) // POST /api/v1/admin/tickets/:ticketId/assign-seat
	}

	adminFlights := router.Group("/admin/flights")
	adminFlights.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminFlights.GET("/:flightId/ticket-assignments", controller.TicketAssignments) // GET /api/v1/admin/flights/:flightId/ticket-assignments - Assigned vs pending
	}
}
