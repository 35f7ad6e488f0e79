package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lodgio/rental-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking reserves
// a quantity of a listing's units either over a continuous period or for
// a single predefined date.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, listing_id, user_id, status, quantity, starts_at, ends_at, total_amount_cents, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var (
		b      model.Booking
		endsAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.ListingID, &b.UserID, &b.Status, &b.Quantity,
		&b.StartsAt, &endsAt, &b.TotalAmountCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if endsAt.Valid {
		t := endsAt.Time
		b.EndsAt = &t
	}
	return b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps.  The caller
// must commit or rollback the transaction.  Status should be a valid
// enumeration ('PENDING','CONFIRMED','CANCELLED').
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	var endsAt any
	if b.EndsAt != nil {
		endsAt = *b.EndsAt
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (listing_id, user_id, status, quantity, starts_at, ends_at, total_amount_cents)
		 VALUES (?,?,?,?,?,?,?)`,
		b.ListingID, b.UserID, b.Status, b.Quantity, b.StartsAt, endsAt, b.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	created, err := scanBooking(row)
	if err != nil {
		return err
	}
	*b = created
	return nil
}

// ListActiveFutureTx returns the listing's snapshot of capacity-consuming
// bookings inside a transaction: every non-cancelled booking that has not
// yet finished.  The snapshot is what the availability engines evaluate
// a candidate against, so it must be read under the same listing lock
// that guards the subsequent insert.
func (r *BookingRepo) ListActiveFutureTx(ctx context.Context, tx *sql.Tx, listingID uint64) ([]model.Booking, error) {
	rows, err := tx.QueryContext(ctx, activeFutureQuery, listingID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListActiveFuture is the non-transactional variant used by read-only
// calendar and dry-run availability endpoints.
func (r *BookingRepo) ListActiveFuture(ctx context.Context, listingID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, activeFutureQuery, listingID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

const activeFutureQuery = `SELECT ` + bookingColumns + `
	FROM bookings
	WHERE listing_id = ?
	  AND status <> 'CANCELLED'
	  AND (ends_at > UTC_TIMESTAMP() OR (ends_at IS NULL AND starts_at >= UTC_DATE()))
	ORDER BY starts_at`

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// BookingDetail pairs a booking with display fields from its listing.
// It is returned by ListByUser for customers.
type BookingDetail struct {
	ID               uint64     `json:"id"`
	ListingID        uint64     `json:"listing_id"`
	ListingTitle     string     `json:"listing_title"`
	Status           string     `json:"status"`
	Quantity         int        `json:"quantity"`
	StartsAt         time.Time  `json:"starts_at"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	TotalAmountCents uint32     `json:"total_amount_cents"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListByUser returns all bookings for the given user along with listing
// titles, newest first.  When no bookings exist, an empty slice is
// returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.listing_id, l.title, b.status, b.quantity, b.starts_at, b.ends_at, b.total_amount_cents, b.created_at
	           FROM bookings b
	           JOIN listings l ON l.id = b.listing_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d      BookingDetail
			endsAt sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.ListingID, &d.ListingTitle, &d.Status, &d.Quantity,
			&d.StartsAt, &endsAt, &d.TotalAmountCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		if endsAt.Valid {
			t := endsAt.Time
			d.EndsAt = &t
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetByIDForUser returns a single booking owned by the given user.
// sql.ErrNoRows is returned when the booking does not exist and
// ErrForbidden when it belongs to a different user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != userID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// CancelTx marks a booking as cancelled within a transaction after
// validating ownership and that it has not yet started.  It returns
// sql.ErrNoRows when the booking does not exist, ErrForbidden when it
// belongs to a different user and ErrConflict when the booking already
// started or was already cancelled.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) error {
	var (
		actualUserID uint64
		status       string
		startsAt     time.Time
	)
	err := tx.QueryRowContext(ctx,
		`SELECT user_id, status, starts_at FROM bookings WHERE id = ? FOR UPDATE`,
		bookingID).Scan(&actualUserID, &status, &startsAt)
	if err != nil {
		return err
	}
	if actualUserID != userID {
		return ErrForbidden
	}
	if status == "CANCELLED" || !startsAt.After(time.Now().UTC()) {
		return ErrConflict
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED' WHERE id = ?`, bookingID)
	return err
}

// OwnerBookingDetail extends BookingDetail with the booking customer's
// identity for owner-facing listings views.
type OwnerBookingDetail struct {
	BookingDetail
	UserID    uint64 `json:"user_id"`
	UserEmail string `json:"user_email"`
}

// ListByListingForOwner returns all bookings for a listing when accessed
// by its owner.  It verifies that the listing belongs to the owner before
// returning the list; otherwise ErrForbidden is returned.  sql.ErrNoRows
// is returned when the listing does not exist.
func (r *BookingRepo) ListByListingForOwner(ctx context.Context, listingID, ownerID uint64) ([]OwnerBookingDetail, error) {
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM listings WHERE id = ?`, listingID).Scan(&actualOwnerID)
	if err != nil {
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT b.id, b.listing_id, l.title, b.status, b.quantity, b.starts_at, b.ends_at, b.total_amount_cents, b.created_at,
	                  b.user_id, u.email
	           FROM bookings b
	           JOIN listings l ON l.id = b.listing_id
	           JOIN users u ON u.id = b.user_id
	           WHERE b.listing_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OwnerBookingDetail, 0)
	for rows.Next() {
		var (
			d      OwnerBookingDetail
			endsAt sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.ListingID, &d.ListingTitle, &d.Status, &d.Quantity,
			&d.StartsAt, &endsAt, &d.TotalAmountCents, &d.CreatedAt, &d.UserID, &d.UserEmail); err != nil {
			return nil, err
		}
		if endsAt.Valid {
			t := endsAt.Time
			d.EndsAt = &t
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
