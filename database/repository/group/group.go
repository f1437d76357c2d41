package groupRepo

import (
	"errors"

	"roombook/models"
)

// ErrNotFound is returned when no group matches the given id.
var ErrNotFound = errors.New("group not found")

// GroupRepository defines data access for chat groups and their notification
// settings.
type GroupRepository interface {
	Get(id string) (*models.Group, error)
	// EnsureGroup returns the group, creating it with default settings if it
	// has not been seen before.
	EnsureGroup(id string) (*models.Group, error)
	ListActive() ([]models.Group, error)
	UpdateSettings(id string, settings models.GroupSettings) error
	SetActive(id string, active bool) error
}
