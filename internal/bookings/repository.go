package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"skybook/internal/seats"
)

type Repository interface {
	// Create persists the booking with its tickets and payment in one
	// transaction and decrements the flight's available seats. A seat
	// taken between selection and submit surfaces as SeatConflictError.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, bookingRef string) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	GetTicketByID(ctx context.Context, ticketID uuid.UUID) (*Ticket, error)
	GetTicketsByFlight(ctx context.Context, flightID uuid.UUID) ([]Ticket, error)
	AssignTicketSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) error
	UpdatePayment(ctx context.Context, payment *Payment) error

	// OccupiedSeats lists assigned seats on non-cancelled bookings of
	// a flight. Implements the seat map's occupancy lookup.
	OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]seats.TicketOccupancy, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		result := tx.Table("flights").
			Where("id = ? AND available_seats >= ?", booking.FlightID, len(booking.Tickets)).
			Update("available_seats", gorm.Expr("available_seats - ?", len(booking.Tickets)))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFlightFull
		}

		return nil
	})
	if err != nil {
		if conflict := asSeatConflict(err, assignedSeatNumbers(booking)); conflict != nil {
			return conflict
		}
		return err
	}
	return nil
}

// asSeatConflict maps a unique violation on the per-flight seat index
// to a SeatConflictError carrying the contested seat numbers.
func asSeatConflict(err error, seatNumbers []string) *SeatConflictError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "idx_flight_seat") {
			return &SeatConflictError{SeatNumbers: seatNumbers}
		}
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) && len(seatNumbers) > 0 {
		return &SeatConflictError{SeatNumbers: seatNumbers}
	}
	return nil
}

func assignedSeatNumbers(booking *Booking) []string {
	var numbers []string
	for _, t := range booking.Tickets {
		if t.SeatAssigned {
			numbers = append(numbers, t.SeatNumber)
		}
	}
	return numbers
}

func (r *repository) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Payments").
		Preload("Flight").
		Preload("Flight.DepartureAirport").
		Preload("Flight.ArrivalAirport").
		First(&booking, "id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRef(ctx context.Context, bookingRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Payments").
		Preload("Flight").
		First(&booking, "booking_ref = ?", bookingRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Tickets").
		Preload("Flight").
		Preload("Flight.DepartureAirport").
		Preload("Flight.ArrivalAirport").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

// Cancel marks the booking cancelled and returns its seats to the
// flight's availability, all in one transaction.
func (r *repository) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.Preload("Tickets").First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.IsCancelled() {
			return ErrAlreadyCancelled
		}

		booking.Cancel()
		if err := tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       booking.Status,
				"cancelled_at": booking.CancelledAt,
			}).Error; err != nil {
			return err
		}

		return tx.Table("flights").
			Where("id = ?", booking.FlightID).
			Update("available_seats", gorm.Expr("available_seats + ?", len(booking.Tickets))).Error
	})
}

func (r *repository) GetTicketByID(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Booking").
		First(&ticket, "id = ?", ticketID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// GetTicketsByFlight lists a flight's tickets on live bookings,
// cancelled bookings excluded.
func (r *repository) GetTicketsByFlight(ctx context.Context, flightID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = tickets.booking_id").
		Where("tickets.flight_id = ? AND bookings.status <> ?", flightID, BookingCancelled).
		Order("tickets.created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) AssignTicketSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", ticketID).
		Updates(map[string]interface{}{
			"seat_number":   seatNumber,
			"seat_assigned": true,
		})
	if result.Error != nil {
		if conflict := asSeatConflict(result.Error, []string{seatNumber}); conflict != nil {
			return conflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) UpdatePayment(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// OccupiedSeats feeds the seat map. Cancelled bookings release their
// seats, so only tickets on live bookings count.
func (r *repository) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]seats.TicketOccupancy, error) {
	var occupancy []seats.TicketOccupancy
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Select("tickets.seat_number, tickets.cabin_class, tickets.first_name || ' ' || tickets.last_name AS passenger, tickets.seat_selection_paid").
		Joins("JOIN bookings ON bookings.id = tickets.booking_id").
		Where("tickets.flight_id = ? AND tickets.seat_assigned = ? AND bookings.status <> ?",
			flightID, true, BookingCancelled).
		Scan(&occupancy).Error
	return occupancy, err
}
