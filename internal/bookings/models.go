package bookings

import (
	"time"

	"github.com/google/uuid"

	"skybook/internal/flights"
)

// Booking is a confirmed reservation on one flight, holding one ticket
// per passenger plus the payment record.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	FlightID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"flight_id"`
	TotalPrice  float64    `gorm:"not null" json:"total_price"`
	Status      string     `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef  string     `gorm:"unique;not null" json:"booking_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Flight   *flights.Flight `json:"flight,omitempty" gorm:"foreignKey:FlightID;constraint:OnDelete:RESTRICT;"`
	Tickets  []Ticket        `json:"tickets,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Payments []Payment       `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Ticket is one passenger's seat on a flight. FlightID is denormalized
// from the booking so the per-flight seat uniqueness constraint lives
// on this table.
type Ticket struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID         uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	FlightID          uuid.UUID `gorm:"type:uuid;index;not null" json:"flight_id"`
	TicketNumber      string    `gorm:"unique;not null" json:"ticket_number"`
	FirstName         string    `gorm:"not null" json:"first_name"`
	LastName          string    `gorm:"not null" json:"last_name"`
	NationalID        string    `gorm:"type:varchar(20)" json:"national_id,omitempty"`
	CabinClass        string    `gorm:"type:varchar(20);check:cabin_class IN ('BUSINESS', 'ECONOMY');not null" json:"cabin_class"`
	SeatNumber        string    `json:"seat_number"`
	SeatAssigned      bool      `gorm:"default:false" json:"seat_assigned"`
	SeatSelectionPaid bool      `gorm:"default:false" json:"seat_selection_paid"`
	BaggageKg         float64   `gorm:"default:0" json:"baggage_kg"`
	FarePrice         float64   `gorm:"not null" json:"fare_price"`
	BaggageFee        float64   `gorm:"default:0" json:"baggage_fee"`
	SeatFee           float64   `gorm:"default:0" json:"seat_fee"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationships
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// Payment tracks the checkout transaction for a booking.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status        string     `gorm:"type:varchar(20);check:status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string     `gorm:"unique" json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (Ticket) TableName() string {
	return "tickets"
}

func (Payment) TableName() string {
	return "payments"
}

// Helper methods for booking management
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

func (b *Booking) Cancel() {
	b.Status = BookingCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

// TotalFor sums the per-ticket components. Kept alongside the stored
// TotalPrice as a consistency check in tests.
func (b *Booking) TotalFor() float64 {
	var total float64
	for _, t := range b.Tickets {
		total += t.FarePrice + t.BaggageFee + t.SeatFee
	}
	return total
}

// Helper methods for payment management
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p *Payment) MarkCompleted() {
	p.Status = PaymentStatusCompleted
	now := time.Now()
	p.ProcessedAt = &now
	p.UpdatedAt = now
}

func (p *Payment) MarkRefunded() {
	p.Status = PaymentStatusRefunded
	p.UpdatedAt = time.Now()
}

func (p *Payment) MarkFailed(reason string) {
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	now := time.Now()
	p.ProcessedAt = &now
	p.UpdatedAt = now
}
