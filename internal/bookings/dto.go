package bookings

import (
	"time"

	"github.com/google/uuid"

	"skybook/internal/seats"
)

// Request bodies

type StartSessionRequest struct {
	FlightID string `json:"flight_id" binding:"required,uuid"`
}

type ToggleSeatRequest struct {
	SeatNumber string `json:"seat_number" binding:"required"`
}

type PassengerCountRequest struct {
	Count      int    `json:"count" binding:"required,min=1"`
	CabinClass string `json:"cabin_class" binding:"required,oneof=ECONOMY BUSINESS"`
}

type PassengerRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	NationalID string  `json:"national_id" binding:"required"`
	BaggageKg  float64 `json:"baggage_kg" binding:"min=0"`
}

type PaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// TicketAssignments partitions a flight's live tickets by seat state
// for the operator's seat-assignment console.
type TicketAssignments struct {
	FlightID uuid.UUID `json:"flight_id"`
	Assigned []Ticket  `json:"assigned"`
	Pending  []Ticket  `json:"pending"`
}

// SessionView is the wizard state rendered for the client: current
// step, selections, passengers, a live price quote, and the seat map
// while on the seat-selection step.
type SessionView struct {
	ID             uuid.UUID        `json:"id"`
	FlightID       uuid.UUID        `json:"flight_id"`
	Step           string           `json:"step"`
	SelectedSeats  []SelectedSeat   `json:"selected_seats"`
	PassengerCount int              `json:"passenger_count"`
	AutoAssign     bool             `json:"auto_assign"`
	Passengers     []PassengerDraft `json:"passengers"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Quote          PriceQuote       `json:"quote"`
	BookingRef     string           `json:"booking_ref,omitempty"`
	SeatMap        *seats.SeatMap   `json:"seat_map,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func NewSessionView(session *Session) *SessionView {
	count := session.PassengerCount
	if !session.AutoAssign {
		count = len(session.SelectedSeats)
	}
	return &SessionView{
		ID:             session.ID,
		FlightID:       session.FlightID,
		Step:           session.Step,
		SelectedSeats:  session.SelectedSeats,
		PassengerCount: count,
		AutoAssign:     session.AutoAssign,
		Passengers:     session.Passengers,
		PaymentMethod:  session.PaymentMethod,
		Quote:          session.Quote(),
		BookingRef:     session.BookingRef,
		UpdatedAt:      session.UpdatedAt,
	}
}

// TicketResponse is one issued ticket in a booking response.
type TicketResponse struct {
	ID                uuid.UUID `json:"id"`
	TicketNumber      string    `json:"ticket_number"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	CabinClass        string    `json:"cabin_class"`
	SeatNumber        string    `json:"seat_number"`
	SeatSelectionPaid bool      `json:"seat_selection_paid"`
	BaggageKg         float64   `json:"baggage_kg"`
	FarePrice         float64   `json:"fare_price"`
	BaggageFee        float64   `json:"baggage_fee"`
	SeatFee           float64   `json:"seat_fee"`
}

// BookingResponse is the confirmation payload after submit.
type BookingResponse struct {
	ID         uuid.UUID        `json:"id"`
	BookingRef string           `json:"booking_ref"`
	FlightID   uuid.UUID        `json:"flight_id"`
	Status     string           `json:"status"`
	TotalPrice float64          `json:"total_price"`
	Tickets    []TicketResponse `json:"tickets"`
	Payment    *PaymentResponse `json:"payment,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

type PaymentResponse struct {
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

func NewBookingResponse(booking *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:         booking.ID,
		BookingRef: booking.BookingRef,
		FlightID:   booking.FlightID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		CreatedAt:  booking.CreatedAt,
	}
	for _, t := range booking.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			ID:                t.ID,
			TicketNumber:      t.TicketNumber,
			FirstName:         t.FirstName,
			LastName:          t.LastName,
			CabinClass:        t.CabinClass,
			SeatNumber:        t.SeatNumber,
			SeatSelectionPaid: t.SeatSelectionPaid,
			BaggageKg:         t.BaggageKg,
			FarePrice:         t.FarePrice,
			BaggageFee:        t.BaggageFee,
			SeatFee:           t.SeatFee,
		})
	}
	if len(booking.Payments) > 0 {
		p := booking.Payments[0]
		resp.Payment = &PaymentResponse{
			Amount:        p.Amount,
			Currency:      p.Currency,
			Status:        p.Status,
			PaymentMethod: p.PaymentMethod,
			TransactionID: p.TransactionID,
			ProcessedAt:   p.ProcessedAt,
		}
	}
	return resp
}
