package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/availability"
	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/queue"
	"github.com/lodgio/rental-booking/internal/recurrence"
	"github.com/lodgio/rental-booking/internal/repository"
	queue_publisher "github.com/lodgio/rental-booking/internal/service"
)

// CustomerBookingHandler serves the customer-facing booking endpoints.
type CustomerBookingHandler struct {
	Listings     *repository.ListingRepo
	ListingTypes *repository.ListingTypeRepo
	Bookings     *repository.BookingRepo
	Declarations *repository.DeclarationRepo
	Recurrences  *repository.RecurrenceRepo
}

func NewCustomerBookingHandler(l *repository.ListingRepo, lt *repository.ListingTypeRepo,
	b *repository.BookingRepo, d *repository.DeclarationRepo, rr *repository.RecurrenceRepo) *CustomerBookingHandler {
	return &CustomerBookingHandler{Listings: l, ListingTypes: lt, Bookings: b, Declarations: d, Recurrences: rr}
}

type createBookingReq struct {
	ListingID uint64 `json:"listing_id"`
	Quantity  int    `json:"quantity"`
	// Period mode: RFC3339 instants.  Date mode: StartsAt holds a
	// YYYY-MM-DD date and EndsAt must be empty.
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// CreateBooking admits and persists a booking.  The flow is:
// validate request shape and temporal rules, lock the listing row,
// snapshot active bookings and declarations under the lock, run the
// availability engine with the candidate included, price the stay and
// insert CONFIRMED, then publish booking.created after commit.
func (h *CustomerBookingHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ListingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing_id required"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Pre-lock reads: listing existence, its type and temporal rules.
	listing, err := h.Listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing failed"})
	}
	if !listing.IsBookable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing is not bookable"})
	}
	if listing.OwnerID == uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot book your own listing"})
	}
	ltype, err := h.ListingTypes.GetByID(ctx, listing.ListingTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing type failed"})
	}

	var (
		startsAt time.Time
		endsAt   *time.Time
		units    int // priced units: nights in period mode, 1 in date mode
	)
	now := time.Now().UTC()

	switch ltype.BookingMode {
	case model.BookingModePeriod:
		start, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
		}
		end, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
		}
		start, end = start.UTC(), end.UTC()
		if !end.After(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		}
		dur := end.Sub(start)
		if ltype.MinDurationHours > 0 && dur < time.Duration(ltype.MinDurationHours)*time.Hour {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking shorter than minimum duration"})
		}
		if ltype.MaxDurationHours > 0 && dur > time.Duration(ltype.MaxDurationHours)*time.Hour {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking exceeds maximum duration"})
		}
		if ltype.AdvanceNoticeHours > 0 && start.Before(now.Add(time.Duration(ltype.AdvanceNoticeHours)*time.Hour)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient advance notice"})
		}
		if start.Before(now) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at is in the past"})
		}
		startsAt = start
		endsAt = &end
		units = int(math.Ceil(dur.Hours() / 24))
		if units < 1 {
			units = 1
		}

	case model.BookingModeDate:
		if strings.TrimSpace(req.EndsAt) != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at not allowed in date mode"})
		}
		date, err := parseDate(req.StartsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be YYYY-MM-DD"})
		}
		if date.Before(now.Truncate(24 * time.Hour)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
		}
		if ltype.AdvanceNoticeHours > 0 && date.Before(now.Add(time.Duration(ltype.AdvanceNoticeHours)*time.Hour)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient advance notice"})
		}
		offered, err := h.dateIsOffered(ctx, listing.ID, date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load offered dates failed"})
		}
		if !offered {
			return c.JSON(http.StatusConflict, echo.Map{"error": "date is not offered"})
		}
		startsAt = date
		units = 1

	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown booking mode"})
	}

	// Serialization point: everything from here to commit runs under the
	// listing row lock so concurrent attempts on the same listing are
	// admitted one at a time against a consistent snapshot.
	tx, err := h.Listings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := h.Listings.GetForUpdateTx(ctx, tx, listing.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lock listing failed"})
	}
	if !locked.IsBookable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing is not bookable"})
	}

	active, err := h.Bookings.ListActiveFutureTx(ctx, tx, listing.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	decls, err := h.Declarations.ListByListingAndModeTx(ctx, tx, listing.ID, ltype.BookingMode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load declarations failed"})
	}

	var admitted bool
	switch ltype.BookingMode {
	case model.BookingModePeriod:
		candidate := availability.Interval{Start: startsAt, End: *endsAt, Quantity: req.Quantity}
		res := availability.EvaluateRange(toIntervals(active), toRangeDeclarations(decls), &candidate, locked.MaxQuantity)
		admitted = res.Available
	case model.BookingModeDate:
		candidate := availability.DateMark{Date: startsAt, Quantity: req.Quantity}
		res := availability.EvaluateDates(toDateMarks(active), toDateDeclarations(decls), &candidate, locked.MaxQuantity)
		admitted = res.Available
	}
	if !admitted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not available for the requested quantity"})
	}

	booking := model.Booking{
		ListingID:        listing.ID,
		UserID:           uid,
		Status:           "CONFIRMED",
		Quantity:         req.Quantity,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		TotalAmountCents: locked.PriceCents * uint32(req.Quantity) * uint32(units),
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Publishing is best-effort and off the request path.
	go func(b model.Booking, l model.Listing, mode string) {
		ev := queue.BookingCreatedEvent{
			BookingID:        b.ID,
			ListingID:        l.ID,
			ListingTitle:     l.Title,
			OwnerID:          l.OwnerID,
			UserID:           b.UserID,
			BookingMode:      mode,
			Quantity:         b.Quantity,
			StartsAt:         b.StartsAt.UTC().Format(time.RFC3339),
			TotalAmountCents: b.TotalAmountCents,
			CreatedAt:        b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if b.EndsAt != nil {
			ev.EndsAt = b.EndsAt.UTC().Format(time.RFC3339)
		}
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		if err := queue_publisher.PublishBookingCreated(pctx, ev); err != nil {
			log.Printf("booking %d: publish booking.created failed: %v", b.ID, err)
		}
	}(booking, locked, ltype.BookingMode)

	return c.JSON(http.StatusCreated, booking)
}

// dateIsOffered reports whether a date-mode listing offers the given date,
// either through an explicit available declaration or a recurrence rule.
func (h *CustomerBookingHandler) dateIsOffered(ctx context.Context, listingID uint64, date time.Time) (bool, error) {
	decls, err := h.Declarations.ListByListingAndMode(ctx, listingID, model.BookingModeDate)
	if err != nil {
		return false, err
	}
	key := date.UTC().Format(dateLayout)
	for _, d := range decls {
		if d.Available && d.StartsAt.UTC().Format(dateLayout) == key {
			return true, nil
		}
	}
	rows, err := h.Recurrences.ListByListing(ctx, listingID)
	if err != nil {
		return false, err
	}
	return recurrence.Offers(repository.ToEngineRules(rows), date), nil
}

// ListMyBookings returns the caller's bookings, newest first.
func (h *CustomerBookingHandler) ListMyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	details, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// GetBooking returns a single booking owned by the caller.
func (h *CustomerBookingHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.GetByIDForUser(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// CancelBooking cancels a not-yet-started booking owned by the caller.
func (h *CustomerBookingHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Listings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Bookings.CancelTx(ctx, tx, id, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already started or cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
