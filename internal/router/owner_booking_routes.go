package router

// Owner booking views are registered separately from the generic owner
// routes to keep concerns isolated.

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/handler"
	"github.com/lodgio/rental-booking/internal/middleware"
)

// RegisterOwnerBookings registers routes that let owners inspect the
// bookings made against their listings.  All routes are mounted under
// /v1 and require a JWT with the OWNER role.
func RegisterOwnerBookings(e *echo.Echo, h *handler.OwnerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.GET("/owner/listings/:id/bookings", h.ListListingBookings)
}
