package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	adminRepo "roombook/database/repository/admin"
	bookingRepo "roombook/database/repository/booking"
	roomRepo "roombook/database/repository/room"
	"roombook/models"
	"roombook/services/calendar"
	"roombook/services/messages"
	"roombook/services/notify"

	"go.uber.org/zap"
)

// decisionLinkTTL bounds how long an approve/reject link stays valid.
const decisionLinkTTL = 7 * 24 * time.Hour

// LinkSigner signs a decision token for a (booking, status) pair. Wired to
// utils.SignDecisionToken in production.
type LinkSigner func(bookingID, status string, ttl time.Duration) (string, error)

// DefaultBookingService is the production lifecycle state machine.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Rooms    roomRepo.RoomRepository
	Admins   adminRepo.AdminRepository
	Notifier notify.Service
	Calendar calendar.Service

	// BaseURL plus SignLink build the decision links embedded in the admin
	// alert card.
	BaseURL  string
	SignLink LinkSigner
}

// Submit validates the input, persists a pending booking and notifies the
// requester and the active admin set.
func (s *DefaultBookingService) Submit(ctx context.Context, input models.BookingInput) (*SubmitResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	b := &models.Booking{
		RoomID:          input.RoomID,
		RoomName:        input.RoomName,
		Activity:        input.Activity,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Booker:          input.Booker,
		Phone:           input.Phone,
		Email:           input.Email,
		Attendees:       input.Attendees,
		SpecialRequests: input.SpecialRequests,
		RequesterID:     input.RequesterID,
		Status:          models.StatusPending,
	}
	s.denormalizeRoom(b)

	if err := s.Repo.Create(b); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	result := &SubmitResult{Booking: b}

	if b.RequesterID != "" {
		if err := s.Notifier.Send(ctx, b.RequesterID, messages.BookingConfirmation(b)); err != nil {
			zap.L().Warn("submit: requester notification failed",
				zap.String("bookingId", b.ID), zap.Error(err))
		} else {
			result.UserNotified = true
		}
	}

	result.AdminsNotified = s.alertAdmins(ctx, b)
	return result, nil
}

// Decide applies pending→approved or pending→rejected. The repository update
// is conditional on the pending status, so of two concurrent decisions
// exactly one wins and the other observes ConflictError.
func (s *DefaultBookingService) Decide(ctx context.Context, id, status string) (*DecisionResult, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, &ValidationError{Field: "status"}
	}

	updated, err := s.transition(id, status, "")
	if err != nil {
		return nil, err
	}

	if updated.RequesterID != "" {
		if err := s.Notifier.Send(ctx, updated.RequesterID, messages.DecisionNotice(updated)); err != nil {
			zap.L().Warn("decide: requester notification failed",
				zap.String("bookingId", id), zap.Error(err))
		}
	}

	result := &DecisionResult{Booking: updated}
	if status == models.StatusApproved {
		eventID, err := s.Calendar.CreateEvent(ctx, updated)
		if err != nil {
			// Degraded success: the booking stays approved, the caller sees
			// that the calendar step failed.
			zap.L().Error("decide: calendar event creation failed",
				zap.String("bookingId", id), zap.Error(err))
			result.CalendarError = err.Error()
		} else {
			result.CalendarCreated = true
			result.CalendarEventID = eventID
		}
	}
	return result, nil
}

// Cancel is the requester-initiated transition pending→cancelled. Admins are
// informed so they do not act on a stale request.
func (s *DefaultBookingService) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	updated, err := s.transition(id, models.StatusCancelled, "user")
	if err != nil {
		return nil, err
	}

	admins, err := s.Admins.ListActiveUserIDs()
	if err != nil {
		zap.L().Warn("cancel: failed to list admins", zap.Error(err))
		return updated, nil
	}
	if len(admins) > 0 {
		s.Notifier.Broadcast(ctx, admins, messages.CancelledNotice(updated))
	}
	return updated, nil
}

func (s *DefaultBookingService) Get(id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) List(status string, page, limit int) ([]models.Booking, int64, error) {
	return s.Repo.ListByStatus(status, page, limit)
}

func (s *DefaultBookingService) StatusCounts() (map[string]int64, error) {
	return s.Repo.CountByStatus()
}

// transition maps repository outcomes onto the service error taxonomy.
func (s *DefaultBookingService) transition(id, status, cancelledBy string) (*models.Booking, error) {
	updated, err := s.Repo.UpdateStatusIfPending(id, status, cancelledBy)
	if err == nil {
		return updated, nil
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	var notPending *bookingRepo.NotPendingError
	if errors.As(err, &notPending) {
		return nil, &ConflictError{ID: id, Status: notPending.Status}
	}
	return nil, fmt.Errorf("transition: %w", err)
}

// validate checks the required submission fields. The room reference may be
// an id or a display name.
func validate(input models.BookingInput) error {
	if input.RoomID == "" && input.RoomName == "" {
		return &ValidationError{Field: "room"}
	}
	required := []struct {
		field, value string
	}{
		{"activity", input.Activity},
		{"date", input.Date},
		{"startTime", input.StartTime},
		{"endTime", input.EndTime},
		{"booker", input.Booker},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.field}
		}
	}
	return nil
}

// denormalizeRoom fills the room name from the reference data so chat
// messages and digests never need a second lookup. Resolution is best
// effort; an unknown reference is left as submitted and reported at calendar
// time.
func (s *DefaultBookingService) denormalizeRoom(b *models.Booking) {
	if b.RoomID != "" {
		if room, err := s.Rooms.GetByID(b.RoomID); err == nil {
			b.RoomName = room.Name
			return
		}
	}
	if b.RoomName != "" {
		if room, err := s.Rooms.GetByName(b.RoomName); err == nil {
			b.RoomID = room.ID
			b.RoomName = room.Name
			return
		}
	}
	zap.L().Debug("submit: room reference not resolved",
		zap.String("roomId", b.RoomID), zap.String("roomName", b.RoomName))
}

// alertAdmins broadcasts the new-request card and records whether anyone got
// it.
func (s *DefaultBookingService) alertAdmins(ctx context.Context, b *models.Booking) int {
	admins, err := s.Admins.ListActiveUserIDs()
	if err != nil {
		zap.L().Warn("submit: failed to list admins", zap.Error(err))
		return 0
	}
	if len(admins) == 0 {
		return 0
	}

	approveURL, err1 := s.decisionLink(b.ID, models.StatusApproved)
	rejectURL, err2 := s.decisionLink(b.ID, models.StatusRejected)
	if err1 != nil || err2 != nil {
		zap.L().Error("submit: failed to sign decision links", zap.String("bookingId", b.ID))
		return 0
	}

	report := s.Notifier.Broadcast(ctx, admins, messages.AdminAlert(b, approveURL, rejectURL))
	if report.OK() {
		if err := s.Repo.SetAdminNotified(b.ID, true); err != nil {
			zap.L().Warn("submit: failed to record admin notification",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
	return report.Sent
}

func (s *DefaultBookingService) decisionLink(bookingID, status string) (string, error) {
	token, err := s.SignLink(bookingID, status, decisionLinkTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/bookings/%s/decide?status=%s&token=%s",
		s.BaseURL, bookingID, status, url.QueryEscape(token)), nil
}
