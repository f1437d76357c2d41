package models

import "time"

// DefaultDailyTime is the reminder time assigned to a group when it is first
// seen. The fallback digest job only re-covers groups still at this value.
const DefaultDailyTime = "08:00"

// GroupSettings holds per-group notification preferences, mutated by chat
// commands from the group itself.
type GroupSettings struct {
	DailyEnabled      bool   `bson:"dailyEnabled" json:"dailyEnabled"`
	DailyTime         string `bson:"dailyTime" json:"dailyTime"` // "HH:MM"
	PreMeetingEnabled bool   `bson:"preMeetingEnabled" json:"preMeetingEnabled"`
	PreMeetingLeadMin int    `bson:"preMeetingLeadMin" json:"preMeetingLeadMin"`
}

// Group is a LINE group chat that receives digests and reminders.
type Group struct {
	ID          string        `bson:"id" json:"id"` // LINE group id
	DisplayName string        `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Active      bool          `bson:"active" json:"active"`
	Settings    GroupSettings `bson:"settings" json:"settings"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// DefaultGroupSettings returns the settings applied when a group is
// auto-created on its first inbound message.
func DefaultGroupSettings() GroupSettings {
	return GroupSettings{
		DailyEnabled:      true,
		DailyTime:         DefaultDailyTime,
		PreMeetingEnabled: false,
		PreMeetingLeadMin: 30,
	}
}
