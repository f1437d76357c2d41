package booking

import (
	"context"

	"roombook/models"
)

// SubmitResult reports the created booking plus the notification outcomes.
// Notification failures never undo the created booking; they only show up in
// the flags.
type SubmitResult struct {
	Booking        *models.Booking `json:"booking"`
	UserNotified   bool            `json:"userNotified"`
	AdminsNotified int             `json:"adminsNotified"`
}

// DecisionResult reports the applied transition. CalendarCreated is false
// with CalendarError set when the booking was approved but the calendar
// event could not be created (degraded success).
type DecisionResult struct {
	Booking         *models.Booking `json:"booking"`
	CalendarCreated bool            `json:"calendarCreated"`
	CalendarEventID string          `json:"calendarEventId,omitempty"`
	CalendarError   string          `json:"calendarError,omitempty"`
}

// Service is the booking lifecycle state machine.
type Service interface {
	Submit(ctx context.Context, input models.BookingInput) (*SubmitResult, error)
	Decide(ctx context.Context, id, status string) (*DecisionResult, error)
	Cancel(ctx context.Context, id string) (*models.Booking, error)
	Get(id string) (*models.Booking, error)
	List(status string, page, limit int) ([]models.Booking, int64, error)
	StatusCounts() (map[string]int64, error)
}
