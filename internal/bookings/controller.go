package bookings

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skybook/internal/flights"
	"skybook/internal/shared/utils/response"
)

type Controller interface {
	// Sessions
	StartSession(c *gin.Context)
	GetSession(c *gin.Context)
	AbandonSession(c *gin.Context)
	ToggleSeat(c *gin.Context)
	SetPassengerCount(c *gin.Context)
	ConfirmSeatSelection(c *gin.Context)
	UpdatePassenger(c *gin.Context)
	ConfirmPassengers(c *gin.Context)
	SelectPaymentMethod(c *gin.Context)
	Back(c *gin.Context)
	Submit(c *gin.Context)

	// Bookings
	GetBooking(c *gin.Context)
	GetBookingByRef(c *gin.Context)
	GetUserBookings(c *gin.Context)
	CancelBooking(c *gin.Context)
	GetTicketQR(c *gin.Context)

	// Admin
	AssignSeat(c *gin.Context)
	TicketAssignments(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// currentUserID pulls the authenticated user out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid session ID", nil, err.Error())
		return uuid.Nil, false
	}
	return sessionID, true
}

// respondSessionError maps session errors onto HTTP statuses. Step and
// validation violations are client errors; conflicts get 409.
func respondSessionError(c *gin.Context, err error) {
	var stepErr *StepError
	var valErr *ValidationError
	var conflictErr *SeatConflictError
	var noSeatErr *NoSeatAvailableError

	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, flights.ErrFlightNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrSubmitInProgress):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.As(err, &conflictErr):
		response.RespondJSON(c, "error", http.StatusConflict, conflictErr.Error(), gin.H{
			"conflicting_seats": conflictErr.SeatNumbers,
		}, nil)
	case errors.As(err, &noSeatErr):
		response.RespondJSON(c, "error", http.StatusConflict, noSeatErr.Error(), nil, nil)
	case errors.Is(err, ErrFlightFull):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrFlightDeparted):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.As(err, &stepErr):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, stepErr.Error(), nil, nil)
	case errors.As(err, &valErr):
		response.RespondJSON(c, "error", http.StatusBadRequest, valErr.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}

func (ctrl *controller) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := ctrl.service.StartSession(c.Request.Context(), userID, req.FlightID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking session started", view, nil)
}

func (ctrl *controller) GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.service.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Session retrieved successfully", view, nil)
}

func (ctrl *controller) AbandonSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.service.AbandonSession(c.Request.Context(), userID, sessionID); err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Session abandoned", nil, nil)
}

func (ctrl *controller) ToggleSeat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req ToggleSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := ctrl.service.ToggleSeat(c.Request.Context(), userID, sessionID, req.SeatNumber)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat selection updated", view, nil)
}

func (ctrl *controller) SetPassengerCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req PassengerCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := ctrl.service.SetPassengerCount(c.Request.Context(), userID, sessionID, req.Count, req.CabinClass)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger count set", view, nil)
}

func (ctrl *controller) ConfirmSeatSelection(c *gin.Context) {
	ctrl.stepTransition(c, ctrl.service.ConfirmSeatSelection, "Seat selection confirmed")
}

func (ctrl *controller) ConfirmPassengers(c *gin.Context) {
	ctrl.stepTransition(c, ctrl.service.ConfirmPassengers, "Passengers confirmed")
}

func (ctrl *controller) Back(c *gin.Context) {
	ctrl.stepTransition(c, ctrl.service.Back, "Moved one step back")
}

func (ctrl *controller) stepTransition(c *gin.Context, op func(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error), message string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	view, err := op(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, message, view, nil)
}

func (ctrl *controller) UpdatePassenger(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid passenger index", nil, err.Error())
		return
	}

	var req PassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := ctrl.service.UpdatePassenger(c.Request.Context(), userID, sessionID, index, req)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger updated", view, nil)
}

func (ctrl *controller) SelectPaymentMethod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := ctrl.service.SelectPaymentMethod(c.Request.Context(), userID, sessionID, req.Method)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment method selected", view, nil)
}

func (ctrl *controller) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.Submit(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", NewBookingResponse(booking), nil)
}

func (ctrl *controller) GetBookingByRef(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBookingByRef(c.Request.Context(), userID, c.Param("bookingRef"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", NewBookingResponse(booking), nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, NewBookingResponse(&bookings[i]))
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", responses, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	if err := ctrl.service.CancelBooking(c.Request.Context(), userID, bookingID); err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", nil, nil)
}

func (ctrl *controller) GetTicketQR(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
		return
	}

	png, err := ctrl.service.TicketQR(c.Request.Context(), userID, ticketID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (ctrl *controller) AssignSeat(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
		return
	}

	ticket, err := ctrl.service.AssignSeatToTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat assigned successfully", gin.H{
		"ticket_id":   ticket.ID,
		"seat_number": ticket.SeatNumber,
		"cabin_class": ticket.CabinClass,
	}, nil)
}

func (ctrl *controller) TicketAssignments(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	assignments, err := ctrl.service.FlightTicketAssignments(c.Request.Context(), flightID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket assignments retrieved successfully", assignments, nil)
}

func respondBookingError(c *gin.Context, err error) {
	var noSeatErr *NoSeatAvailableError
	var conflictErr *SeatConflictError

	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, flights.ErrFlightNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrAlreadyCancelled):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrFlightDeparted):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.As(err, &noSeatErr):
		response.RespondJSON(c, "error", http.StatusConflict, noSeatErr.Error(), nil, nil)
	case errors.As(err, &conflictErr):
		response.RespondJSON(c, "error", http.StatusConflict, conflictErr.Error(), gin.H{
			"conflicting_seats": conflictErr.SeatNumbers,
		}, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}
