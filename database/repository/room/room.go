package roomRepo

import (
	"errors"

	"roombook/models"
)

// ErrNotFound is returned when no room matches the given id or name.
var ErrNotFound = errors.New("room not found")

// RoomRepository defines read access to the room reference data.
type RoomRepository interface {
	GetByID(id string) (*models.Room, error)
	GetByName(name string) (*models.Room, error)
	List() ([]models.Room, error)
}
