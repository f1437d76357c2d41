package models

import "time"

// Admin is a chat identity allowed to approve or reject bookings. Only
// active admins are included in the notification fan-out set.
type Admin struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"` // LINE user id
	DisplayName string    `bson:"displayName" json:"displayName"`
	Role        string    `bson:"role" json:"role"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
