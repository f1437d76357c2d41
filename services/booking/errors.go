package booking

import "fmt"

// ValidationError reports a missing or malformed submission field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NotFoundError reports an unknown booking id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.ID)
}

// ConflictError reports a decision attempted on a booking that already left
// the pending state. Status carries the decision that won.
type ConflictError struct {
	ID     string
	Status string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking %s already %s", e.ID, e.Status)
}
