// Package calendar creates Google Calendar events for approved bookings.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	roomRepo "roombook/database/repository/room"
	"roombook/models"
	"roombook/utils"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// RoomNotFoundError reports that the booking's room could not be resolved by
// id or by name.
type RoomNotFoundError struct {
	Room string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %q not found", e.Room)
}

// ConfigError reports a resolved room with no calendar mapping.
type ConfigError struct {
	Room string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("room %q has no calendar id", e.Room)
}

// Service creates a calendar event for a booking. A failure here is a
// degraded outcome for the caller, never a rollback of the approval.
type Service interface {
	CreateEvent(ctx context.Context, booking *models.Booking) (string, error)
}

type insertFunc func(ctx context.Context, calendarID string, event *gcal.Event) (string, error)

// GoogleCalendarService is the production implementation backed by the
// Google Calendar API.
type GoogleCalendarService struct {
	rooms  roomRepo.RoomRepository
	insert insertFunc
}

// NewGoogleCalendarService builds the service from a service-account key
// file.
func NewGoogleCalendarService(ctx context.Context, credentialsFile string, rooms roomRepo.RoomRepository) (*GoogleCalendarService, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope))
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create service: %w", err)
	}

	return &GoogleCalendarService{
		rooms: rooms,
		insert: func(ctx context.Context, calendarID string, event *gcal.Event) (string, error) {
			created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
			if err != nil {
				return "", err
			}
			return created.Id, nil
		},
	}, nil
}

// CreateEvent resolves the booking's room to a calendar and inserts the
// event. Single attempt, no retry; the underlying API error is propagated.
func (s *GoogleCalendarService) CreateEvent(ctx context.Context, booking *models.Booking) (string, error) {
	room, err := resolveRoom(s.rooms, booking)
	if err != nil {
		return "", err
	}
	if room.CalendarID == "" {
		return "", &ConfigError{Room: room.Name}
	}

	event, err := BuildEvent(booking, room)
	if err != nil {
		return "", err
	}

	eventID, err := s.insert(ctx, room.CalendarID, event)
	if err != nil {
		return "", fmt.Errorf("calendar: failed to insert event for booking %s: %w", booking.ID, err)
	}
	return eventID, nil
}

// resolveRoom looks the room up by id, falling back to the denormalized
// display name when the id is absent or stale.
func resolveRoom(rooms roomRepo.RoomRepository, booking *models.Booking) (*models.Room, error) {
	if booking.RoomID != "" {
		room, err := rooms.GetByID(booking.RoomID)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, roomRepo.ErrNotFound) {
			return nil, err
		}
	}
	if booking.RoomName != "" {
		room, err := rooms.GetByName(booking.RoomName)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, roomRepo.ErrNotFound) {
			return nil, err
		}
	}

	ref := booking.RoomID
	if ref == "" {
		ref = booking.RoomName
	}
	return nil, &RoomNotFoundError{Room: ref}
}

// BuildEvent assembles the calendar event payload. Times are the booking's
// zone-less strings interpreted in Asia/Bangkok.
func BuildEvent(booking *models.Booking, room *models.Room) (*gcal.Event, error) {
	start, err := utils.CombineBangkok(booking.Date, booking.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := utils.CombineBangkok(booking.Date, booking.EndTime)
	if err != nil {
		return nil, err
	}

	description := strings.Join([]string{
		"ห้อง: " + room.Name,
		"ผู้จอง: " + booking.Booker,
		"โทร: " + booking.Phone,
	}, "\n")

	event := &gcal.Event{
		Summary:     booking.Activity,
		Description: description,
		Location:    room.Location,
		Start: &gcal.EventDateTime{
			DateTime: start.Format("2006-01-02T15:04:05"),
			TimeZone: "Asia/Bangkok",
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format("2006-01-02T15:04:05"),
			TimeZone: "Asia/Bangkok",
		},
	}
	if booking.Email != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: booking.Email}}
	}
	return event, nil
}
