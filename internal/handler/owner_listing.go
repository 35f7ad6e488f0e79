package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/repository"
)

// OwnerListingHandler serves listing management for OWNER users.
type OwnerListingHandler struct {
	Listings     *repository.ListingRepo
	ListingTypes *repository.ListingTypeRepo
}

func NewOwnerListingHandler(l *repository.ListingRepo, lt *repository.ListingTypeRepo) *OwnerListingHandler {
	return &OwnerListingHandler{Listings: l, ListingTypes: lt}
}

type listingReq struct {
	ListingTypeID uint64 `json:"listing_type_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	MaxQuantity   *int   `json:"max_quantity"` // null = unlimited capacity
	PriceCents    uint32 `json:"price_cents"`
	IsBookable    *bool  `json:"is_bookable"`
}

func (req *listingReq) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title required"
	}
	if req.MaxQuantity != nil && *req.MaxQuantity <= 0 {
		return "max_quantity must be positive"
	}
	return ""
}

// CreateListing creates a listing owned by the caller.
func (h *OwnerListingHandler) CreateListing(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.ListingTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing_type_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.ListingTypes.GetByID(ctx, req.ListingTypeID); err != nil {
		if errors.Is(err, repository.ErrListingTypeNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown listing_type_id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	bookable := true
	if req.IsBookable != nil {
		bookable = *req.IsBookable
	}
	l := model.Listing{
		OwnerID:       uid,
		ListingTypeID: req.ListingTypeID,
		Title:         req.Title,
		Description:   req.Description,
		MaxQuantity:   req.MaxQuantity,
		PriceCents:    req.PriceCents,
		IsBookable:    bookable,
	}
	if err := h.Listings.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	return c.JSON(http.StatusCreated, toListingResp(l))
}

// ListMyListings returns the caller's listings, including unbookable ones.
func (h *OwnerListingHandler) ListMyListings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	listings, err := h.Listings.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]listingResp, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": out})
}

// UpdateListing modifies the mutable fields of a listing the caller owns.
func (h *OwnerListingHandler) UpdateListing(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookable := true
	if req.IsBookable != nil {
		bookable = *req.IsBookable
	}
	l := model.Listing{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		MaxQuantity: req.MaxQuantity,
		PriceCents:  req.PriceCents,
		IsBookable:  bookable,
	}
	if err := h.Listings.Update(ctx, l, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteListing removes a listing the caller owns.  Listings with active
// bookings cannot be removed.
func (h *OwnerListingHandler) DeleteListing(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Listings.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "listing has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
