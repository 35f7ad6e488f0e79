package model

import "time"

// RecurrenceRule stores an owner's recurring-date pattern for a
// date-mode listing, as persisted in the `recurrence_rules` table.
// Weekdays is a comma-separated list of integers (0=Sunday .. 6=Saturday)
// and only applies to WEEKLY rules.
//
// Fields:
//  ID        – primary key identifier.
//  ListingID – listing the rule belongs to.
//  Frequency – DAILY or WEEKLY.
//  Weekdays  – encoded weekday selection for weekly rules.
//  StartsOn  – first date the rule offers.
//  EndsOn    – last date the rule offers (nullable; nil = open-ended).
//  CreatedAt – creation timestamp.
type RecurrenceRule struct {
	ID        uint64     // recurrence_rules.id
	ListingID uint64     // recurrence_rules.listing_id
	Frequency string     // recurrence_rules.frequency
	Weekdays  string     // recurrence_rules.weekdays
	StartsOn  time.Time  // recurrence_rules.starts_on
	EndsOn    *time.Time // recurrence_rules.ends_on (nullable)
	CreatedAt time.Time  // recurrence_rules.created_at
}
