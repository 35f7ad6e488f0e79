// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/handler"
	"github.com/lodgio/rental-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; protected endpoints
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh_token body and needs no JWT: holding the
	// refresh token is enough to terminate its session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "CUSTOMER"),
	)
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterPublic registers unauthenticated browse and availability
// endpoints.  The extra middleware (rate limiting, response caching) is
// applied only here: these are the highest-traffic read endpoints and
// render snapshots anyway.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1", extra...)
	g.GET("/listing-types", p.ListListingTypes)
	g.GET("/listings", p.ListListings)
	g.GET("/listings/:id", p.GetListing)
	// Occupancy view without a candidate: capacity timeline in period
	// mode, per-date totals in date mode.
	g.GET("/listings/:id/calendar", p.GetCalendar)
	// Dry-run admission check; same engine inputs as booking creation
	// but without the listing lock.
	g.GET("/listings/:id/availability", p.CheckAvailability)
}
