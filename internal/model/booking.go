package model

import "time"

// Booking records a user's reservation of a listing, as stored in the
// `bookings` table.  Period-mode bookings span [StartsAt, EndsAt); date
// mode bookings pin StartsAt to a single date and leave EndsAt nil.
// PENDING and CONFIRMED bookings both consume capacity; CANCELLED ones
// are excluded from availability snapshots.
//
// Fields:
//  ID               – primary key identifier.
//  ListingID        – listing being booked.
//  UserID           – user who made the booking.
//  Status           – state of the booking (PENDING, CONFIRMED, CANCELLED).
//  Quantity         – number of units reserved.
//  StartsAt         – start instant, or the booked date in date mode.
//  EndsAt           – end instant (nullable; nil in date mode).
//  TotalAmountCents – total price in cents.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64     // bookings.id
	ListingID        uint64     // bookings.listing_id
	UserID           uint64     // bookings.user_id
	Status           string     // bookings.status
	Quantity         int        // bookings.quantity
	StartsAt         time.Time  // bookings.starts_at
	EndsAt           *time.Time // bookings.ends_at (nullable)
	TotalAmountCents uint32     // bookings.total_amount_cents
	CreatedAt        time.Time  // bookings.created_at
	UpdatedAt        time.Time  // bookings.updated_at
}
