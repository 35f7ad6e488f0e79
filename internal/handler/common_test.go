package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/model"
)

func ts(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestToIntervalsSkipsOpenEnded(t *testing.T) {
	end := ts(5)
	bookings := []model.Booking{
		{StartsAt: ts(1), EndsAt: &end, Quantity: 2},
		{StartsAt: ts(3), EndsAt: nil, Quantity: 1}, // date-mode row, no interval
	}
	got := toIntervals(bookings)
	if len(got) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(got))
	}
	if got[0].Quantity != 2 || !got[0].End.Equal(end) {
		t.Fatalf("unexpected interval: %+v", got[0])
	}
}

func TestToDateDeclarationsKeepsOrder(t *testing.T) {
	decls := []model.AvailabilityDeclaration{
		{StartsAt: ts(1), Quantity: 3, Available: true},
		{StartsAt: ts(1), Quantity: 5, Available: true},
	}
	got := toDateDeclarations(decls)
	if len(got) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(got))
	}
	if got[1].Quantity != 5 {
		t.Fatalf("later declaration must stay last, got %+v", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-07")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if !d.Equal(ts(7)) {
		t.Fatalf("expected %v, got %v", ts(7), d)
	}
	if _, err := parseDate("07.03.2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestParsePositiveInt(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"3", 3, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
	}
	for _, tc := range cases {
		n, ok := parsePositiveInt(tc.in)
		if n != tc.n || ok != tc.ok {
			t.Fatalf("parsePositiveInt(%q) = (%d,%v), want (%d,%v)", tc.in, n, ok, tc.n, tc.ok)
		}
	}
}

func TestGetUserIDClaimTypes(t *testing.T) {
	e := echo.New()

	newCtx := func(v any) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user_id", v)
		return c
	}

	// JWT numeric claims decode as float64; some clients use strings.
	for _, v := range []any{uint64(7), int(7), int64(7), float64(7), "7"} {
		got, err := getUserID(newCtx(v))
		if err != nil {
			t.Fatalf("getUserID(%T): %v", v, err)
		}
		if got != 7 {
			t.Fatalf("getUserID(%T) = %d, want 7", v, got)
		}
	}

	if _, err := getUserID(newCtx("not-a-number")); err == nil {
		t.Fatal("expected error for malformed claim")
	}
}
