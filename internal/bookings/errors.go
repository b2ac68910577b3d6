package bookings

import (
	"errors"
	"fmt"
)

// Session lifecycle errors.
var (
	ErrSessionNotFound  = errors.New("booking session not found or expired")
	ErrSubmitInProgress = errors.New("booking submission already in progress")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("booking does not belong to user")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrFlightDeparted   = errors.New("flight has already departed")
	ErrFlightFull       = errors.New("flight does not have enough available seats")
)

// StepError signals an operation invoked on a session step that does
// not allow it, e.g. selecting a payment method while still on seat
// selection.
type StepError struct {
	Step string
	Op   string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("operation %s not allowed on step %s", e.Op, e.Step)
}

// ValidationError reports invalid passenger or selection input. It is
// recoverable: the session keeps its state and the client corrects the
// field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SeatConflictError is raised when a seat selected in the session was
// taken by another booking before submission. The session survives:
// the conflicting seats are cleared and the client reselects.
type SeatConflictError struct {
	SeatNumbers []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %v", e.SeatNumbers)
}

// NoSeatAvailableError means a cabin has no free seat left for
// auto-assignment.
type NoSeatAvailableError struct {
	CabinClass string
}

func (e *NoSeatAvailableError) Error() string {
	return fmt.Sprintf("no available seat in cabin %s", e.CabinClass)
}
