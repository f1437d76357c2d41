package models

// Room is a static reference record owned by the store; the booking core
// never mutates rooms.
type Room struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	PictureURL string `bson:"pictureUrl,omitempty" json:"pictureUrl,omitempty"`
	CalendarID string `bson:"calendarId,omitempty" json:"calendarId,omitempty"`
	Location   string `bson:"location,omitempty" json:"location,omitempty"`
}
