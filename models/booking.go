package models

import "time"

// Booking status values. A booking starts as pending and is moved exactly
// once to approved, rejected or cancelled; terminal states are absorbing.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Booking represents a single meeting-room reservation request.
type Booking struct {
	ID              string     `bson:"id" json:"id"`
	RoomID          string     `bson:"roomId" json:"roomId"`
	RoomName        string     `bson:"roomName" json:"roomName"`
	Activity        string     `bson:"activity" json:"activity"`
	Date            string     `bson:"date" json:"date"`           // "2006-01-02"
	StartTime       string     `bson:"startTime" json:"startTime"` // "15:04", Asia/Bangkok local
	EndTime         string     `bson:"endTime" json:"endTime"`
	Booker          string     `bson:"booker" json:"booker"`
	Phone           string     `bson:"phone" json:"phone"`
	Email           string     `bson:"email,omitempty" json:"email,omitempty"`
	Attendees       int        `bson:"attendees" json:"attendees"`
	SpecialRequests string     `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	RequesterID     string     `bson:"requesterId,omitempty" json:"requesterId,omitempty"` // LINE user id
	Status          string     `bson:"status" json:"status"`
	AdminNotified   bool       `bson:"adminNotified" json:"adminNotified"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
	CancelledBy     string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt     *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// BookingInput is the submission payload. Room may be referenced by id or by
// display name; everything except email, attendees, special requests and the
// requester id is required.
type BookingInput struct {
	RoomID          string `json:"roomId"`
	RoomName        string `json:"roomName"`
	Activity        string `json:"activity"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Booker          string `json:"booker"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Attendees       int    `json:"attendees"`
	SpecialRequests string `json:"specialRequests"`
	RequesterID     string `json:"requesterId"`
}
