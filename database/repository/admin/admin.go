package adminRepo

import (
	"errors"

	"roombook/models"
)

// ErrNotFound is returned when no admin matches the given id.
var ErrNotFound = errors.New("admin not found")

// AdminRepository defines data access for admin chat identities.
type AdminRepository interface {
	Create(admin *models.Admin) error
	List() ([]models.Admin, error)
	// ListActiveUserIDs returns the chat user ids forming the admin fan-out
	// set. Inactive admins are excluded.
	ListActiveUserIDs() ([]string, error)
	SetActive(id string, active bool) error
}
