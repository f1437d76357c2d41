package bookingRepo

import (
	"errors"

	"roombook/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// NotPendingError is returned by UpdateStatusIfPending when the booking has
// already left the pending state. Status carries the winning status so the
// caller can tell the user what was applied.
type NotPendingError struct {
	Status string
}

func (e *NotPendingError) Error() string {
	return "booking already " + e.Status
}

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	// UpdateStatusIfPending flips the status away from pending as a single
	// conditional update: the first writer wins, a concurrent second attempt
	// gets NotPendingError with the already-applied status. cancelledBy is
	// recorded only when the new status is cancelled.
	UpdateStatusIfPending(id, newStatus, cancelledBy string) (*models.Booking, error)
	SetAdminNotified(id string, notified bool) error
	ListByStatus(status string, page, limit int) ([]models.Booking, int64, error)
	ListApprovedOn(date string) ([]models.Booking, error)
	CountByStatus() (map[string]int64, error)
}
