package model

import "time"

// Listing represents a rentable unit offered by an owner, as stored in
// the `listings` table.  MaxQuantity is the capacity ceiling: the highest
// quantity the listing may be concurrently booked for.  A nil MaxQuantity
// means unlimited capacity.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user who owns the listing.
//  ListingTypeID  – listing type governing the booking mode.
//  Title          – short display title.
//  Description    – free-form description.
//  MaxQuantity    – capacity ceiling (nullable; nil = unlimited).
//  PriceCents     – price per unit per day (period mode) or per date.
//  IsBookable     – whether new bookings are accepted.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Listing struct {
	ID            uint64    // listings.id
	OwnerID       uint64    // listings.owner_id
	ListingTypeID uint64    // listings.listing_type_id
	Title         string    // listings.title
	Description   string    // listings.description
	MaxQuantity   *int      // listings.max_quantity (nullable)
	PriceCents    uint32    // listings.price_cents
	IsBookable    bool      // listings.is_bookable
	CreatedAt     time.Time // listings.created_at
	UpdatedAt     time.Time // listings.updated_at
}
