package seats

import (
	"time"

	"github.com/google/uuid"
)

// Cabin classes, ordered business-first when a seat map is rendered.
const (
	ClassBusiness = "BUSINESS"
	ClassEconomy  = "ECONOMY"
)

// Seat positions within a row.
const (
	PositionWindow = "WINDOW"
	PositionMiddle = "MIDDLE"
	PositionAisle  = "AISLE"
)

// Seat defines the physical seat layout of an aircraft. Occupancy is
// not stored here: whether a seat is taken depends on the flight, and
// comes from ticket data at seat-map build time.
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AircraftID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_aircraft_seat" json:"aircraft_id"`
	SeatNumber string    `gorm:"not null;uniqueIndex:idx_aircraft_seat" json:"seat_number"`
	Row        int       `gorm:"not null" json:"row"`
	Letter     string    `gorm:"type:varchar(1);not null" json:"letter"`
	CabinClass string    `gorm:"type:varchar(20);check:cabin_class IN ('BUSINESS', 'ECONOMY');not null" json:"cabin_class"`
	Position   string    `gorm:"type:varchar(10);check:position IN ('WINDOW', 'MIDDLE', 'AISLE');not null" json:"position"`
	Blocked    bool      `gorm:"default:false" json:"blocked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) IsWindow() bool {
	return s.Position == PositionWindow
}

func (s *Seat) IsAisle() bool {
	return s.Position == PositionAisle
}

// TicketOccupancy is the slice of ticket data a seat map needs: which
// seats on a given flight are already assigned, and by whom. The
// occupant fields only surface on the admin map.
type TicketOccupancy struct {
	SeatNumber        string
	CabinClass        string
	Passenger         string
	SeatSelectionPaid bool
}

// SeatStatus is the per-flight effective status of a seat.
const (
	StatusAvailable = "AVAILABLE"
	StatusOccupied  = "OCCUPIED"
	StatusBlocked   = "BLOCKED"
	StatusSelected  = "SELECTED"
)

// SeatView is a single seat as rendered in a flight's seat map.
// Occupant is only populated on the admin map; the public map never
// exposes who holds a seat.
type SeatView struct {
	SeatNumber string        `json:"seat_number"`
	Row        int           `json:"row"`
	Letter     string        `json:"letter"`
	CabinClass string        `json:"cabin_class"`
	Position   string        `json:"position"`
	Status     string        `json:"status"`
	Price      float64       `json:"price"`
	Occupant   *OccupantView `json:"occupant,omitempty"`
}

// OccupantView names the passenger holding a seat, with whether the
// seat was paid-selected or auto-assigned.
type OccupantView struct {
	Passenger         string `json:"passenger"`
	SeatSelectionPaid bool   `json:"seat_selection_paid"`
}

// RowView groups the seats of one physical row, letters ascending.
type RowView struct {
	Row   int        `json:"row"`
	Seats []SeatView `json:"seats"`
}

// CabinView groups the rows of one cabin class, rows ascending.
type CabinView struct {
	CabinClass string    `json:"cabin_class"`
	SeatPrice  float64   `json:"seat_price"`
	Rows       []RowView `json:"rows"`
	Available  int       `json:"available"`
	Total      int       `json:"total"`
}

// SeatMap is the full rendered map for a flight: business cabin first,
// then economy.
type SeatMap struct {
	FlightID uuid.UUID   `json:"flight_id"`
	Cabins   []CabinView `json:"cabins"`
}
