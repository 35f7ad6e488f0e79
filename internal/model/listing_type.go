package model

import "time"

// Booking modes supported by listing types.  Period listings are booked
// over continuous [start, end) ranges; date listings are booked for
// predefined single dates.
const (
	BookingModePeriod = "period"
	BookingModeDate   = "date"
)

// ListingType is the configuration shared by listings of the same kind,
// as stored in the `listing_types` table.  It decides the booking mode
// and the temporal rules applied before availability is evaluated.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – unique type name.
//  BookingMode        – "period" or "date".
//  MinDurationHours   – minimum booking length (period mode; 0 = none).
//  MaxDurationHours   – maximum booking length (period mode; 0 = none).
//  AdvanceNoticeHours – how far ahead a booking must start (0 = none).
//  CreatedAt          – creation timestamp.
type ListingType struct {
	ID                 uint64    // listing_types.id
	Name               string    // listing_types.name
	BookingMode        string    // listing_types.booking_mode
	MinDurationHours   int       // listing_types.min_duration_hours
	MaxDurationHours   int       // listing_types.max_duration_hours
	AdvanceNoticeHours int       // listing_types.advance_notice_hours
	CreatedAt          time.Time // listing_types.created_at
}
