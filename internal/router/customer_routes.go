package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/handler"
	"github.com/lodgio/rental-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers create
// bookings, list their own, and cancel not-yet-started ones.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListMyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)
}
