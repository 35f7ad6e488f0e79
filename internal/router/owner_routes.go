package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/handler"
	"github.com/lodgio/rental-booking/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.  All routes
// require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, l *handler.OwnerListingHandler, d *handler.OwnerDeclarationHandler,
	rr *handler.OwnerRecurrenceHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Listings ----
	g.POST("/owner/listings", l.CreateListing)
	g.GET("/owner/listings", l.ListMyListings)
	g.PUT("/owner/listings/:id", l.UpdateListing)
	g.PATCH("/owner/listings/:id", l.UpdateListing)
	g.DELETE("/owner/listings/:id", l.DeleteListing)

	// ---- Availability declarations ----
	g.POST("/owner/listings/:id/declarations", d.CreateDeclaration)
	g.GET("/owner/listings/:id/declarations", d.ListDeclarations)
	g.DELETE("/owner/listings/:id/declarations/:declID", d.DeleteDeclaration)

	// ---- Recurrence rules (date-mode listings) ----
	g.POST("/owner/listings/:id/recurrences", rr.CreateRecurrence)
	g.GET("/owner/listings/:id/recurrences", rr.ListRecurrences)
}
