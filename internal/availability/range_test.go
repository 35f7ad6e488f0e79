package availability

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(n int) *int { return &n }

func TestEvaluateRange_Empty(t *testing.T) {
	res := EvaluateRange(nil, nil, nil, nil)
	if !res.Available {
		t.Fatalf("expected available with no inputs")
	}
	if len(res.Timeline) != 0 {
		t.Fatalf("expected empty timeline, got %d points", len(res.Timeline))
	}
}

func TestEvaluateRange_CandidateOnly(t *testing.T) {
	cand := &Interval{Start: day(2), End: day(3), Quantity: 1}
	res := EvaluateRange(nil, nil, cand, nil)
	if !res.Available {
		t.Fatalf("expected available without a ceiling")
	}
	// Anchor + start + end.
	if len(res.Timeline) != 3 {
		t.Fatalf("expected 3 timeline points, got %d", len(res.Timeline))
	}
	if res.Timeline[1].Boundary != BoundaryStart || res.Timeline[2].Boundary != BoundaryEnd {
		t.Fatalf("candidate boundaries not tagged: %+v", res.Timeline)
	}
	if res.Timeline[1].Quantity != 1 || res.Timeline[2].Quantity != 0 {
		t.Fatalf("unexpected quantities: %+v", res.Timeline)
	}
}

func TestEvaluateRange_CapacityVerdict(t *testing.T) {
	reservations := []Interval{{Start: day(1), End: day(5), Quantity: 2}}
	cand := &Interval{Start: day(2), End: day(3), Quantity: 1}

	tests := []struct {
		name string
		max  *int
		want bool
	}{
		{name: "ceiling 2 exceeded", max: intPtr(2), want: false},
		{name: "ceiling 3 satisfied", max: intPtr(3), want: true},
		{name: "no ceiling", max: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateRange(reservations, nil, cand, tt.max)
			if res.Available != tt.want {
				t.Fatalf("available = %v, want %v", res.Available, tt.want)
			}
		})
	}
}

func TestEvaluateRange_NoCandidateNeverFlagged(t *testing.T) {
	// Existing overbooking alone is not the engine's concern: it only
	// gates new admissions.
	reservations := []Interval{
		{Start: day(1), End: day(5), Quantity: 3},
		{Start: day(1), End: day(5), Quantity: 3},
	}
	res := EvaluateRange(reservations, nil, nil, intPtr(2))
	if !res.Available {
		t.Fatalf("expected available when no candidate is present")
	}
}

func TestEvaluateRange_SumConservation(t *testing.T) {
	reservations := []Interval{
		{Start: day(1), End: day(4), Quantity: 2},
		{Start: day(2), End: day(6), Quantity: 1},
	}
	res := EvaluateRange(reservations, nil, nil, nil)
	last := res.Timeline[len(res.Timeline)-1]
	if last.Quantity != 0 {
		t.Fatalf("expected running quantity 0 after all intervals close, got %d", last.Quantity)
	}
}

func TestEvaluateRange_Coalescing(t *testing.T) {
	// Two reservations sharing a start produce exactly one point at that
	// instant with both deltas applied.
	reservations := []Interval{
		{Start: day(1), End: day(3), Quantity: 1},
		{Start: day(1), End: day(4), Quantity: 2},
	}
	res := EvaluateRange(reservations, nil, nil, nil)
	seen := 0
	for _, p := range res.Timeline {
		if p.Date.Equal(day(1)) {
			seen++
			if p.Quantity != 3 {
				t.Fatalf("coalesced point quantity = %d, want 3", p.Quantity)
			}
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one point at the shared instant, got %d", seen)
	}
}

func TestEvaluateRange_AnchorPoint(t *testing.T) {
	reservations := []Interval{{Start: day(10), End: day(12), Quantity: 1}}
	res := EvaluateRange(reservations, nil, nil, nil)
	if len(res.Timeline) == 0 {
		t.Fatalf("expected non-empty timeline")
	}
	anchor := res.Timeline[0]
	if !anchor.Date.Equal(day(9)) {
		t.Fatalf("anchor date = %s, want %s", anchor.Date, day(9))
	}
	if anchor.Quantity != 0 {
		t.Fatalf("anchor quantity = %d, want 0", anchor.Quantity)
	}
}

func TestEvaluateRange_OpeningDeclarationFreesCapacity(t *testing.T) {
	reservations := []Interval{{Start: day(1), End: day(5), Quantity: 2}}
	opening := []RangeDeclaration{{Start: day(2), End: day(4), Quantity: 1, Available: true}}

	base := EvaluateRange(reservations, nil, nil, nil)
	freed := EvaluateRange(reservations, opening, nil, nil)

	quantityAt := func(res RangeResult, at time.Time) int {
		q := 0
		for _, p := range res.Timeline {
			if !p.Date.After(at) {
				q = p.Quantity
			}
		}
		return q
	}

	if got, want := quantityAt(freed, day(2)), quantityAt(base, day(2))-1; got != want {
		t.Fatalf("quantity inside opening = %d, want %d", got, want)
	}
	if got, want := quantityAt(freed, day(4)), quantityAt(base, day(4)); got != want {
		t.Fatalf("quantity after opening = %d, want %d", got, want)
	}

	// The opening admits a candidate that would otherwise breach the ceiling.
	cand := &Interval{Start: day(2), End: day(3), Quantity: 1}
	if res := EvaluateRange(reservations, nil, cand, intPtr(2)); res.Available {
		t.Fatalf("expected unavailable without the opening")
	}
	if res := EvaluateRange(reservations, opening, cand, intPtr(2)); !res.Available {
		t.Fatalf("expected available with the opening")
	}
}

func TestEvaluateRange_BlackoutConsumesCapacity(t *testing.T) {
	blackout := []RangeDeclaration{{Start: day(1), End: day(5), Quantity: 2, Available: false}}
	cand := &Interval{Start: day(2), End: day(3), Quantity: 1}
	res := EvaluateRange(nil, blackout, cand, intPtr(2))
	if res.Available {
		t.Fatalf("expected blackout to consume capacity like a booking")
	}
}

func TestEvaluateRange_NegativeIntermediateTotals(t *testing.T) {
	// An opening with no occupancy dips the running total below zero;
	// that is legitimate accumulation, not an error.
	opening := []RangeDeclaration{{Start: day(1), End: day(3), Quantity: 2, Available: true}}
	res := EvaluateRange(nil, opening, nil, nil)
	found := false
	for _, p := range res.Timeline {
		if p.Quantity < 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a negative intermediate quantity, timeline: %+v", res.Timeline)
	}
	last := res.Timeline[len(res.Timeline)-1]
	if last.Quantity != 0 {
		t.Fatalf("expected net zero after the opening closes, got %d", last.Quantity)
	}
}

func TestEvaluateRange_CandidateSharesExistingTimestamp(t *testing.T) {
	reservations := []Interval{{Start: day(2), End: day(4), Quantity: 1}}
	cand := &Interval{Start: day(2), End: day(3), Quantity: 1}
	res := EvaluateRange(reservations, nil, cand, intPtr(2))
	if !res.Available {
		t.Fatalf("expected available at exactly the ceiling")
	}
	for _, p := range res.Timeline {
		if p.Date.Equal(day(2)) {
			if p.Quantity != 2 {
				t.Fatalf("shared-instant quantity = %d, want 2", p.Quantity)
			}
			if p.Boundary != BoundaryStart {
				t.Fatalf("expected candidate start tag on shared instant")
			}
			return
		}
	}
	t.Fatalf("no timeline point at the shared instant")
}

func TestEvaluateRange_LatchIsPermanent(t *testing.T) {
	// Quantity breaches the ceiling early and later returns below it; the
	// verdict must not reset.
	reservations := []Interval{{Start: day(1), End: day(2), Quantity: 5}}
	cand := &Interval{Start: day(1), End: day(6), Quantity: 1}
	res := EvaluateRange(reservations, nil, cand, intPtr(3))
	if res.Available {
		t.Fatalf("expected verdict to stay unavailable after an early breach")
	}
	last := res.Timeline[len(res.Timeline)-1]
	if last.Quantity != 0 {
		t.Fatalf("expected final quantity 0, got %d", last.Quantity)
	}
}
