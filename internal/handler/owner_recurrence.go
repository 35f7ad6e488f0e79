package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/recurrence"
	"github.com/lodgio/rental-booking/internal/repository"
)

// OwnerRecurrenceHandler manages recurring-date patterns for date-mode
// listings: the rules that generate the offered dates customers can book.
type OwnerRecurrenceHandler struct {
	Listings     *repository.ListingRepo
	ListingTypes *repository.ListingTypeRepo
	Recurrences  *repository.RecurrenceRepo
}

func NewOwnerRecurrenceHandler(l *repository.ListingRepo, lt *repository.ListingTypeRepo,
	rr *repository.RecurrenceRepo) *OwnerRecurrenceHandler {
	return &OwnerRecurrenceHandler{Listings: l, ListingTypes: lt, Recurrences: rr}
}

type recurrenceReq struct {
	Frequency string `json:"frequency"` // DAILY | WEEKLY
	Weekdays  []int  `json:"weekdays"`  // 0=Sunday .. 6=Saturday (WEEKLY only)
	StartsOn  string `json:"starts_on"` // YYYY-MM-DD
	EndsOn    string `json:"ends_on"`   // YYYY-MM-DD, optional
}

type recurrenceResp struct {
	ID        uint64     `json:"id"`
	ListingID uint64     `json:"listing_id"`
	Frequency string     `json:"frequency"`
	Weekdays  string     `json:"weekdays,omitempty"`
	StartsOn  time.Time  `json:"starts_on"`
	EndsOn    *time.Time `json:"ends_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toRecurrenceResp(r model.RecurrenceRule) recurrenceResp {
	return recurrenceResp{
		ID:        r.ID,
		ListingID: r.ListingID,
		Frequency: r.Frequency,
		Weekdays:  r.Weekdays,
		StartsOn:  r.StartsOn,
		EndsOn:    r.EndsOn,
		CreatedAt: r.CreatedAt,
	}
}

// CreateRecurrence attaches a rule to a date-mode listing the caller owns.
func (h *OwnerRecurrenceHandler) CreateRecurrence(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var req recurrenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	freq := strings.ToUpper(strings.TrimSpace(req.Frequency))
	if freq != string(recurrence.FrequencyDaily) && freq != string(recurrence.FrequencyWeekly) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "frequency must be DAILY or WEEKLY"})
	}
	if freq == string(recurrence.FrequencyWeekly) && len(req.Weekdays) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekdays required for WEEKLY"})
	}
	days := make([]time.Weekday, 0, len(req.Weekdays))
	for _, n := range req.Weekdays {
		if n < 0 || n > 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekdays must be 0-6"})
		}
		days = append(days, time.Weekday(n))
	}
	startsOn, err := parseDate(req.StartsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_on must be YYYY-MM-DD"})
	}
	var endsOn *time.Time
	if strings.TrimSpace(req.EndsOn) != "" {
		e, err := parseDate(req.EndsOn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must be YYYY-MM-DD"})
		}
		if e.Before(startsOn) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on before starts_on"})
		}
		endsOn = &e
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
	if ltype.BookingMode != model.BookingModeDate {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recurrence rules apply to date-mode listings only"})
	}

	rule := model.RecurrenceRule{
		ListingID: listingID,
		Frequency: freq,
		Weekdays:  repository.EncodeWeekdays(days),
		StartsOn:  startsOn,
		EndsOn:    endsOn,
	}
	if err := h.Recurrences.Create(ctx, &rule, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create rule failed"})
		}
	}
	return c.JSON(http.StatusCreated, toRecurrenceResp(rule))
}

// ListRecurrences returns a listing's rules plus the dates they expand to
// over the next 30 days, so owners can verify what customers will see.
func (h *OwnerRecurrenceHandler) ListRecurrences(c echo.Context) error {
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

	rows, err := h.Recurrences.ListByListing(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]recurrenceResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, toRecurrenceResp(r))
	}

	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, 30)
	seen := make(map[string]bool)
	upcoming := make([]string, 0)
	for _, rule := range repository.ToEngineRules(rows) {
		dates, err := recurrence.ExpandDates(rule, now, horizon)
		if err != nil {
			continue
		}
		for _, d := range dates {
			key := d.Format(dateLayout)
			if !seen[key] {
				seen[key] = true
				upcoming = append(upcoming, key)
			}
		}
	}
	sort.Strings(upcoming)

	return c.JSON(http.StatusOK, echo.Map{
		"rules":          out,
		"upcoming_dates": upcoming,
	})
}
