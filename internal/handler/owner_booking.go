package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/repository"
)

// OwnerBookingHandler exposes per-listing booking views to owners.
type OwnerBookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewOwnerBookingHandler(b *repository.BookingRepo) *OwnerBookingHandler {
	return &OwnerBookingHandler{Bookings: b}
}

// ListListingBookings returns all bookings for one of the caller's
// listings, including the booking customers' identities.
func (h *OwnerBookingHandler) ListListingBookings(c echo.Context) error {
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
	details, err := h.Bookings.ListByListingForOwner(ctx, listingID, uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}
