package notifyLogRepo

import "errors"

// ErrDuplicate is returned by Reserve when a ledger entry with the same key
// already exists, meaning the notification was already claimed or sent.
var ErrDuplicate = errors.New("notification already recorded")

// NotifyLogRepository is the idempotency ledger for scheduled notifications.
// Reserve is an atomic conditional create: it either claims the key or fails
// with ErrDuplicate, never both for two concurrent callers.
type NotifyLogRepository interface {
	Reserve(key, groupID, kind, ref string) error
	// Release deletes a reservation whose send failed, so a later run can
	// try again.
	Release(key string) error
}
