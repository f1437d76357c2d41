package models

import (
	"fmt"
	"time"
)

// Notification kinds recorded in the idempotency ledger.
const (
	NotifyKindDaily  = "daily"
	NotifyKindBefore = "before"
)

// NotifyLog is an idempotency ledger entry. The key doubles as the document
// id, so a unique-index insert is the existence check and the write in one
// atomic step.
type NotifyLog struct {
	Key     string    `bson:"_id" json:"key"`
	GroupID string    `bson:"groupId" json:"groupId"`
	Kind    string    `bson:"kind" json:"kind"`
	Ref     string    `bson:"ref" json:"ref"` // date for daily, booking id for before
	SentAt  time.Time `bson:"sentAt" json:"sentAt"`
}

// DailyKey builds the ledger key for a (group, day) digest.
func DailyKey(groupID, date string) string {
	return fmt.Sprintf("%s_%s_%s", groupID, date, NotifyKindDaily)
}

// BeforeKey builds the ledger key for a (group, meeting) pre-meeting reminder.
func BeforeKey(groupID, bookingID string) string {
	return fmt.Sprintf("%s_%s_%s", groupID, bookingID, NotifyKindBefore)
}
