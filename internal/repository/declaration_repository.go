package repository

import (
	"context"
	"database/sql"

	"github.com/lodgio/rental-booking/internal/model"
)

// DeclarationRepo persists owner-authored availability declarations:
// extra openings and blackouts for period-mode listings, and explicit
// per-date capacities for date-mode listings.
type DeclarationRepo struct {
	db *sql.DB
}

func NewDeclarationRepo(db *sql.DB) *DeclarationRepo { return &DeclarationRepo{db: db} }

const declarationColumns = `id, listing_id, mode, starts_at, ends_at, quantity, available, created_at`

func scanDeclaration(row interface{ Scan(...any) error }) (model.AvailabilityDeclaration, error) {
	var (
		d      model.AvailabilityDeclaration
		endsAt sql.NullTime
	)
	err := row.Scan(&d.ID, &d.ListingID, &d.Mode, &d.StartsAt, &endsAt, &d.Quantity, &d.Available, &d.CreatedAt)
	if err != nil {
		return model.AvailabilityDeclaration{}, err
	}
	if endsAt.Valid {
		t := endsAt.Time
		d.EndsAt = &t
	}
	return d, nil
}

// Create inserts a declaration after verifying that the listing belongs
// to ownerID.  ErrForbidden is returned on an ownership mismatch.
func (r *DeclarationRepo) Create(ctx context.Context, d *model.AvailabilityDeclaration, ownerID uint64) error {
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM listings WHERE id = ?`, d.ListingID).Scan(&actualOwnerID)
	if err != nil {
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	var endsAt any
	if d.EndsAt != nil {
		endsAt = *d.EndsAt
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO availability_declarations (listing_id, mode, starts_at, ends_at, quantity, available)
		 VALUES (?,?,?,?,?,?)`,
		d.ListingID, d.Mode, d.StartsAt, endsAt, d.Quantity, d.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

const declarationsByModeQuery = `SELECT ` + declarationColumns + `
	FROM availability_declarations
	WHERE listing_id = ? AND mode = ?
	ORDER BY starts_at, id`

// ListByListingAndMode returns a listing's declarations filtered by mode
// ("period" or "date") in chronological order.  Insertion order breaks
// ties so that later duplicate date declarations win downstream.
func (r *DeclarationRepo) ListByListingAndMode(ctx context.Context, listingID uint64, mode string) ([]model.AvailabilityDeclaration, error) {
	rows, err := r.db.QueryContext(ctx, declarationsByModeQuery, listingID, mode)
	if err != nil {
		return nil, err
	}
	return collectDeclarations(rows)
}

// ListByListingAndModeTx is the transactional variant used while holding
// the listing lock during booking creation.
func (r *DeclarationRepo) ListByListingAndModeTx(ctx context.Context, tx *sql.Tx, listingID uint64, mode string) ([]model.AvailabilityDeclaration, error) {
	rows, err := tx.QueryContext(ctx, declarationsByModeQuery, listingID, mode)
	if err != nil {
		return nil, err
	}
	return collectDeclarations(rows)
}

func collectDeclarations(rows *sql.Rows) ([]model.AvailabilityDeclaration, error) {
	defer rows.Close()
	decls := make([]model.AvailabilityDeclaration, 0)
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// Delete removes a declaration after verifying that its listing belongs
// to ownerID.  sql.ErrNoRows is returned when the declaration does not
// exist and ErrForbidden on an ownership mismatch.
func (r *DeclarationRepo) Delete(ctx context.Context, declarationID, ownerID uint64) error {
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT l.owner_id
		 FROM availability_declarations d
		 JOIN listings l ON l.id = d.listing_id
		 WHERE d.id = ?`, declarationID).Scan(&actualOwnerID)
	if err != nil {
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`DELETE FROM availability_declarations WHERE id = ?`, declarationID)
	return err
}
