package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/repository"
)

// OwnerDeclarationHandler manages availability declarations: period-mode
// openings and blackouts, and date-mode per-date capacities.
type OwnerDeclarationHandler struct {
	Listings     *repository.ListingRepo
	ListingTypes *repository.ListingTypeRepo
	Declarations *repository.DeclarationRepo
}

func NewOwnerDeclarationHandler(l *repository.ListingRepo, lt *repository.ListingTypeRepo,
	d *repository.DeclarationRepo) *OwnerDeclarationHandler {
	return &OwnerDeclarationHandler{Listings: l, ListingTypes: lt, Declarations: d}
}

type declarationReq struct {
	// Period mode: RFC3339 instants.  Date mode: StartsAt holds a
	// YYYY-MM-DD date and EndsAt must be empty.
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

type declarationResp struct {
	ID        uint64     `json:"id"`
	ListingID uint64     `json:"listing_id"`
	Mode      string     `json:"mode"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Quantity  int        `json:"quantity"`
	Available bool       `json:"available"`
	CreatedAt time.Time  `json:"created_at"`
}

func toDeclarationResp(d model.AvailabilityDeclaration) declarationResp {
	return declarationResp{
		ID:        d.ID,
		ListingID: d.ListingID,
		Mode:      d.Mode,
		StartsAt:  d.StartsAt,
		EndsAt:    d.EndsAt,
		Quantity:  d.Quantity,
		Available: d.Available,
		CreatedAt: d.CreatedAt,
	}
}

// CreateDeclaration attaches a declaration to a listing the caller owns.
// The declaration inherits the listing type's booking mode; the request
// shape is validated against that mode.
func (h *OwnerDeclarationHandler) CreateDeclaration(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var req declarationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ltype, err := h.ListingTypes.GetByID(ctx, listing.ListingTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	d := model.AvailabilityDeclaration{
		ListingID: listingID,
		Mode:      ltype.BookingMode,
		Quantity:  req.Quantity,
		Available: req.Available,
	}
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
		if !end.After(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		}
		d.StartsAt = start.UTC()
		e := end.UTC()
		d.EndsAt = &e
	case model.BookingModeDate:
		if req.EndsAt != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at not allowed in date mode"})
		}
		date, err := parseDate(req.StartsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be YYYY-MM-DD"})
		}
		d.StartsAt = date
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown booking mode"})
	}

	if err := h.Declarations.Create(ctx, &d, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create declaration failed"})
		}
	}
	return c.JSON(http.StatusCreated, toDeclarationResp(d))
}

// ListDeclarations returns a listing's declarations for its booking mode.
func (h *OwnerDeclarationHandler) ListDeclarations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listing, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if listing.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	ltype, err := h.ListingTypes.GetByID(ctx, listing.ListingTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	decls, err := h.Declarations.ListByListingAndMode(ctx, listingID, ltype.BookingMode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]declarationResp, 0, len(decls))
	for _, d := range decls {
		out = append(out, toDeclarationResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"declarations": out})
}

// DeleteDeclaration removes a declaration from a listing the caller owns.
func (h *OwnerDeclarationHandler) DeleteDeclaration(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	declID, ok := pathID(c, "declID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid declaration id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Declarations.Delete(ctx, declID, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "declaration not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
