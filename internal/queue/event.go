// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a booking has been admitted and
// committed. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	ListingID        uint64 `json:"listing_id"`
	ListingTitle     string `json:"listing_title"`
	OwnerID          uint64 `json:"owner_id"`
	UserID           uint64 `json:"user_id"`
	BookingMode      string `json:"booking_mode"`
	Quantity         int    `json:"quantity"`
	StartsAt         string `json:"starts_at"`
	EndsAt           string `json:"ends_at,omitempty"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	CreatedAt        string `json:"created_at"`
}
