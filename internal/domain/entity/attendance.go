package entity

import "time"

// EventType distinguishes the two kinds of attendance events.
type EventType string

const (
	CheckIn  EventType = "check_in"
	CheckOut EventType = "check_out"
)

func (t EventType) Valid() bool {
	return t == CheckIn || t == CheckOut
}

// AttendanceRecord is a single immutable check-in or check-out event.
// RecordedAt is the event time assigned by the server, not the insertion
// time. Latitude/Longitude and LocationAddress are independently optional;
// a record may carry neither, either, or both.
type AttendanceRecord struct {
	ID              string
	UserID          string
	Type            EventType
	RecordedAt      time.Time
	Latitude        *float64
	Longitude       *float64
	LocationAddress *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// UserName and UserEmail are populated by joined reads for admin
	// listings; empty otherwise.
	UserName  string
	UserEmail string
}

// DayWindow returns the local midnight-to-midnight window containing t.
// "Today" queries for the admission rule are scoped with it.
func DayWindow(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
