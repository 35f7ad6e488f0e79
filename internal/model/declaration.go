package model

import "time"

// AvailabilityDeclaration is an owner-authored availability override for
// a listing, as stored in the `availability_declarations` table.  Period
// declarations span [StartsAt, EndsAt); date declarations pin StartsAt to
// a single date with a nil EndsAt.  Available=true opens capacity (an
// extra opening, or the per-date capacity in date mode); Available=false
// is a blackout.
//
// Fields:
//  ID        – primary key identifier.
//  ListingID – listing the declaration belongs to.
//  Mode      – "period" or "date", matching the listing type's mode.
//  StartsAt  – window start, or the declared date in date mode.
//  EndsAt    – window end (nullable; nil in date mode).
//  Quantity  – units opened or blacked out; per-date ceiling in date mode.
//  Available – true for an opening, false for a blackout.
//  CreatedAt – creation timestamp.
type AvailabilityDeclaration struct {
	ID        uint64     // availability_declarations.id
	ListingID uint64     // availability_declarations.listing_id
	Mode      string     // availability_declarations.mode
	StartsAt  time.Time  // availability_declarations.starts_at
	EndsAt    *time.Time // availability_declarations.ends_at (nullable)
	Quantity  int        // availability_declarations.quantity
	Available bool       // availability_declarations.available
	CreatedAt time.Time  // availability_declarations.created_at
}
