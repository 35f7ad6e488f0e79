package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lodgio/rental-booking/internal/model"
)

// ListingTypeRepo reads listing type configuration.  Types are seeded by
// operations tooling and treated as read-only by the API.
type ListingTypeRepo struct {
	db *sql.DB
}

func NewListingTypeRepo(db *sql.DB) *ListingTypeRepo { return &ListingTypeRepo{db: db} }

const listingTypeColumns = `id, name, booking_mode, min_duration_hours, max_duration_hours, advance_notice_hours, created_at`

// GetByID fetches a listing type by id.  ErrListingTypeNotFound is
// returned when no row matches.
func (r *ListingTypeRepo) GetByID(ctx context.Context, id uint64) (model.ListingType, error) {
	var t model.ListingType
	err := r.db.QueryRowContext(ctx,
		`SELECT `+listingTypeColumns+` FROM listing_types WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.BookingMode, &t.MinDurationHours, &t.MaxDurationHours, &t.AdvanceNoticeHours, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListingType{}, ErrListingTypeNotFound
	}
	return t, err
}

// List returns every listing type ordered by name.
func (r *ListingTypeRepo) List(ctx context.Context) ([]model.ListingType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingTypeColumns+` FROM listing_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.ListingType, 0)
	for rows.Next() {
		var t model.ListingType
		if err := rows.Scan(&t.ID, &t.Name, &t.BookingMode, &t.MinDurationHours, &t.MaxDurationHours, &t.AdvanceNoticeHours, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
