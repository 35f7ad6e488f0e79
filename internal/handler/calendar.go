package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/availability"
	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse and availability
// endpoints: listing catalogue, calendars and dry-run availability checks.
type PublicHandler struct {
	Listings     *repository.ListingRepo
	ListingTypes *repository.ListingTypeRepo
	Bookings     *repository.BookingRepo
	Declarations *repository.DeclarationRepo
}

func NewPublicHandler(l *repository.ListingRepo, lt *repository.ListingTypeRepo,
	b *repository.BookingRepo, d *repository.DeclarationRepo) *PublicHandler {
	return &PublicHandler{Listings: l, ListingTypes: lt, Bookings: b, Declarations: d}
}

type listingTypeResp struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	BookingMode        string `json:"booking_mode"`
	MinDurationHours   int    `json:"min_duration_hours"`
	MaxDurationHours   int    `json:"max_duration_hours"`
	AdvanceNoticeHours int    `json:"advance_notice_hours"`
}

type listingResp struct {
	ID            uint64    `json:"id"`
	ListingTypeID uint64    `json:"listing_type_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	MaxQuantity   *int      `json:"max_quantity,omitempty"`
	PriceCents    uint32    `json:"price_cents"`
	IsBookable    bool      `json:"is_bookable"`
	CreatedAt     time.Time `json:"created_at"`
}

func toListingTypeResp(t model.ListingType) listingTypeResp {
	return listingTypeResp{
		ID:                 t.ID,
		Name:               t.Name,
		BookingMode:        t.BookingMode,
		MinDurationHours:   t.MinDurationHours,
		MaxDurationHours:   t.MaxDurationHours,
		AdvanceNoticeHours: t.AdvanceNoticeHours,
	}
}

func toListingResp(l model.Listing) listingResp {
	return listingResp{
		ID:            l.ID,
		ListingTypeID: l.ListingTypeID,
		Title:         l.Title,
		Description:   l.Description,
		MaxQuantity:   l.MaxQuantity,
		PriceCents:    l.PriceCents,
		IsBookable:    l.IsBookable,
		CreatedAt:     l.CreatedAt,
	}
}

// ListListingTypes returns all listing types.
func (h *PublicHandler) ListListingTypes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	types, err := h.ListingTypes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]listingTypeResp, 0, len(types))
	for _, t := range types {
		out = append(out, toListingTypeResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"listing_types": out})
}

// ListListings returns every bookable listing.
func (h *PublicHandler) ListListings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	listings, err := h.Listings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]listingResp, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": out})
}

// GetListing returns a single listing together with its type.
func (h *PublicHandler) GetListing(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	t, err := h.ListingTypes.GetByID(ctx, l.ListingTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"listing":      toListingResp(l),
		"listing_type": toListingTypeResp(t),
	})
}

// loadSnapshot fetches a listing, its type and the engine inputs used by
// both the calendar and the dry-run availability endpoints.
func (h *PublicHandler) loadSnapshot(ctx context.Context, listingID uint64) (model.Listing, model.ListingType, []model.Booking, []model.AvailabilityDeclaration, error) {
	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		return model.Listing{}, model.ListingType{}, nil, nil, err
	}
	t, err := h.ListingTypes.GetByID(ctx, l.ListingTypeID)
	if err != nil {
		return model.Listing{}, model.ListingType{}, nil, nil, err
	}
	bookings, err := h.Bookings.ListActiveFuture(ctx, l.ID)
	if err != nil {
		return model.Listing{}, model.ListingType{}, nil, nil, err
	}
	decls, err := h.Declarations.ListByListingAndMode(ctx, l.ID, t.BookingMode)
	if err != nil {
		return model.Listing{}, model.ListingType{}, nil, nil, err
	}
	return l, t, bookings, decls, nil
}

// GetCalendar renders a listing's occupancy without any candidate: the
// capacity timeline for period listings, or per-date totals plus the
// simplified declarations for date listings.
func (h *PublicHandler) GetCalendar(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, t, bookings, decls, err := h.loadSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	switch t.BookingMode {
	case model.BookingModePeriod:
		res := availability.EvaluateRange(toIntervals(bookings), toRangeDeclarations(decls), nil, l.MaxQuantity)
		return c.JSON(http.StatusOK, echo.Map{
			"listing_id": l.ID,
			"mode":       t.BookingMode,
			"timeline":   res.Timeline,
		})
	case model.BookingModeDate:
		res := availability.EvaluateDates(toDateMarks(bookings), toDateDeclarations(decls), nil, l.MaxQuantity)
		return c.JSON(http.StatusOK, echo.Map{
			"listing_id":   l.ID,
			"mode":         t.BookingMode,
			"dates":        res.Dates,
			"declarations": res.Declarations,
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown booking mode"})
}

// CheckAvailability is a read-only dry run of the booking admission
// decision.  Query parameters: quantity, starts_at, ends_at (period mode
// uses RFC3339 instants, date mode uses a single YYYY-MM-DD starts_at).
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	qty := 1
	if s := strings.TrimSpace(c.QueryParam("quantity")); s != "" {
		n, ok := parsePositiveInt(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
		}
		qty = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, t, bookings, decls, err := h.loadSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	switch t.BookingMode {
	case model.BookingModePeriod:
		start, err := time.Parse(time.RFC3339, c.QueryParam("starts_at"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
		}
		end, err := time.Parse(time.RFC3339, c.QueryParam("ends_at"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
		}
		if !end.After(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		}
		candidate := availability.Interval{Start: start.UTC(), End: end.UTC(), Quantity: qty}
		res := availability.EvaluateRange(toIntervals(bookings), toRangeDeclarations(decls), &candidate, l.MaxQuantity)
		return c.JSON(http.StatusOK, echo.Map{
			"listing_id": l.ID,
			"mode":       t.BookingMode,
			"available":  res.Available,
			"timeline":   res.Timeline,
		})
	case model.BookingModeDate:
		date, err := parseDate(c.QueryParam("starts_at"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be YYYY-MM-DD"})
		}
		candidate := availability.DateMark{Date: date, Quantity: qty}
		res := availability.EvaluateDates(toDateMarks(bookings), toDateDeclarations(decls), &candidate, l.MaxQuantity)
		return c.JSON(http.StatusOK, echo.Map{
			"listing_id":   l.ID,
			"mode":         t.BookingMode,
			"available":    res.Available,
			"dates":        res.Dates,
			"declarations": res.Declarations,
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown booking mode"})
}
