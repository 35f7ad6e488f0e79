// Package handler contains the HTTP handlers for the booking API.
package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/availability"
	"github.com/lodgio/rental-booking/internal/model"
)

// dateLayout is the wire format for date-mode dates.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT middleware stores the claim value; numeric JSON claims
// decode as float64 and some clients encode numeric strings.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// toIntervals converts period-mode bookings into engine intervals.
// Rows without an end instant are malformed for this mode and skipped.
func toIntervals(bookings []model.Booking) []availability.Interval {
	out := make([]availability.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.EndsAt == nil {
			continue
		}
		out = append(out, availability.Interval{Start: b.StartsAt, End: *b.EndsAt, Quantity: b.Quantity})
	}
	return out
}

// toDateMarks converts date-mode bookings into engine date marks.
func toDateMarks(bookings []model.Booking) []availability.DateMark {
	out := make([]availability.DateMark, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, availability.DateMark{Date: b.StartsAt, Quantity: b.Quantity})
	}
	return out
}

// toRangeDeclarations converts period-mode declaration rows.
func toRangeDeclarations(decls []model.AvailabilityDeclaration) []availability.RangeDeclaration {
	out := make([]availability.RangeDeclaration, 0, len(decls))
	for _, d := range decls {
		if d.EndsAt == nil {
			continue
		}
		out = append(out, availability.RangeDeclaration{
			Start:     d.StartsAt,
			End:       *d.EndsAt,
			Quantity:  d.Quantity,
			Available: d.Available,
		})
	}
	return out
}

// toDateDeclarations converts date-mode declaration rows.
func toDateDeclarations(decls []model.AvailabilityDeclaration) []availability.DateDeclaration {
	out := make([]availability.DateDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, availability.DateDeclaration{
			Date:      d.StartsAt,
			Quantity:  d.Quantity,
			Available: d.Available,
		})
	}
	return out
}

// parseDate parses a YYYY-MM-DD value into a UTC midnight instant.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parsePositiveInt parses a strictly positive integer.
func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
