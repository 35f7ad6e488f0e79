package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lodgio/rental-booking/internal/model"
)

// ListingRepo provides CRUD operations for listings.  Listings are the
// rentable units owned by OWNER users; all availability evaluation and
// booking creation is scoped to a single listing.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span multiple repositories.
func (r *ListingRepo) DB() *sql.DB { return r.db }

const listingColumns = `id, owner_id, listing_type_id, title, description, max_quantity, price_cents, is_bookable, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (model.Listing, error) {
	var (
		l      model.Listing
		maxQty sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.OwnerID, &l.ListingTypeID, &l.Title, &l.Description,
		&maxQty, &l.PriceCents, &l.IsBookable, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Listing{}, err
	}
	if maxQty.Valid {
		v := int(maxQty.Int64)
		l.MaxQuantity = &v
	}
	return l, nil
}

// Create inserts a listing and populates the generated ID.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	var maxQty any
	if l.MaxQuantity != nil {
		maxQty = *l.MaxQuantity
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO listings (owner_id, listing_type_id, title, description, max_quantity, price_cents, is_bookable)
		 VALUES (?,?,?,?,?,?,?)`,
		l.OwnerID, l.ListingTypeID, l.Title, l.Description, maxQty, l.PriceCents, l.IsBookable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a listing by id.  ErrListingNotFound is returned when
// no row matches.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrListingNotFound
	}
	return l, err
}

// GetForUpdateTx loads a listing inside a transaction while taking a row
// lock.  The lock is the per-listing serialization point: reading the
// booking snapshot and persisting an admitted booking happen atomically
// with respect to other booking attempts on the same listing.
func (r *ListingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Listing, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ? FOR UPDATE`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrListingNotFound
	}
	return l, err
}

// List returns bookable listings ordered by creation time descending.
func (r *ListingRepo) List(ctx context.Context) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE is_bookable = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	listings := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListByOwner returns all listings belonging to the given owner.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	listings := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Update modifies the mutable fields of a listing after verifying
// ownership.  ErrForbidden is returned when the listing belongs to a
// different owner.
func (r *ListingRepo) Update(ctx context.Context, l model.Listing, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM listings WHERE id = ?`, l.ID).Scan(&actualOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	var maxQty any
	if l.MaxQuantity != nil {
		maxQty = *l.MaxQuantity
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE listings SET title=?, description=?, max_quantity=?, price_cents=?, is_bookable=? WHERE id=?`,
		l.Title, l.Description, maxQty, l.PriceCents, l.IsBookable, l.ID)
	return err
}

// Delete removes a listing owned by ownerID.  ErrConflict is returned
// when active bookings still reference it.
func (r *ListingRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM listings WHERE id = ?`, id).Scan(&actualOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	var active int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE listing_id = ? AND status <> 'CANCELLED' AND starts_at >= UTC_TIMESTAMP()`,
		id).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	return err
}
