package availability

import (
	"testing"
	"time"
)

func feb(d int) time.Time {
	return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateDates_Empty(t *testing.T) {
	res := EvaluateDates(nil, nil, nil, nil)
	if !res.Available {
		t.Fatalf("expected available with no inputs")
	}
	if len(res.Dates) != 0 {
		t.Fatalf("expected no buckets, got %d", len(res.Dates))
	}
}

func TestEvaluateDates_CandidateCreatesFreshBucket(t *testing.T) {
	cand := &DateMark{Date: feb(10), Quantity: 1}
	res := EvaluateDates(nil, nil, cand, nil)
	if !res.Available {
		t.Fatalf("expected available without a ceiling")
	}
	if len(res.Dates) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(res.Dates))
	}
	b := res.Dates[0]
	if !b.Selected || b.Quantity != 1 || !b.Date.Equal(feb(10)) {
		t.Fatalf("unexpected bucket: %+v", b)
	}
}

func TestEvaluateDates_GroupingAndVerdict(t *testing.T) {
	reservations := []DateMark{
		{Date: feb(10), Quantity: 1},
		{Date: feb(10), Quantity: 2},
	}
	cand := &DateMark{Date: feb(10), Quantity: 1}

	tests := []struct {
		name    string
		max     *int
		want    bool
		wantQty int
	}{
		{name: "ceiling 4 satisfied", max: intPtr(4), want: true, wantQty: 4},
		{name: "ceiling 3 exceeded", max: intPtr(3), want: false, wantQty: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateDates(reservations, nil, cand, tt.max)
			if res.Available != tt.want {
				t.Fatalf("available = %v, want %v", res.Available, tt.want)
			}
			if len(res.Dates) != 1 {
				t.Fatalf("same-date bookings must share one bucket, got %d", len(res.Dates))
			}
			if res.Dates[0].Quantity != tt.wantQty {
				t.Fatalf("bucket quantity = %d, want %d", res.Dates[0].Quantity, tt.wantQty)
			}
		})
	}
}

func TestEvaluateDates_DeclarationOverridesCeiling(t *testing.T) {
	reservations := []DateMark{{Date: feb(10), Quantity: 1}}
	declarations := []DateDeclaration{{Date: feb(10), Quantity: 1, Available: true}}
	cand := &DateMark{Date: feb(10), Quantity: 1}

	// Bucket total 2 with a per-date ceiling of 1: unavailable despite the
	// generous listing-wide maximum.
	res := EvaluateDates(reservations, declarations, cand, intPtr(10))
	if res.Available {
		t.Fatalf("expected per-date declaration to override the global ceiling")
	}

	// A declaration on a different date leaves the global ceiling in force.
	other := []DateDeclaration{{Date: feb(11), Quantity: 1, Available: true}}
	res = EvaluateDates(reservations, other, cand, intPtr(10))
	if !res.Available {
		t.Fatalf("expected global ceiling to apply when no declaration matches")
	}
}

func TestEvaluateDates_ChronologicalOrder(t *testing.T) {
	reservations := []DateMark{
		{Date: feb(20), Quantity: 1},
		{Date: feb(5), Quantity: 1},
		{Date: feb(12), Quantity: 1},
	}
	res := EvaluateDates(reservations, nil, nil, nil)
	if len(res.Dates) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(res.Dates))
	}
	for i := 1; i < len(res.Dates); i++ {
		if !res.Dates[i-1].Date.Before(res.Dates[i].Date) {
			t.Fatalf("buckets out of order: %+v", res.Dates)
		}
	}
}

func TestEvaluateDates_DuplicateDeclarationLastWins(t *testing.T) {
	declarations := []DateDeclaration{
		{Date: feb(10), Quantity: 5, Available: true},
		{Date: feb(10), Quantity: 1, Available: true},
	}
	cand := &DateMark{Date: feb(10), Quantity: 2}
	res := EvaluateDates(nil, declarations, cand, nil)
	if res.Available {
		t.Fatalf("expected the later declaration (quantity 1) to set the ceiling")
	}
	if len(res.Declarations) != 1 {
		t.Fatalf("declarations view should be deduplicated, got %d", len(res.Declarations))
	}
	if res.Declarations[0].Quantity != 1 {
		t.Fatalf("declarations view quantity = %d, want 1", res.Declarations[0].Quantity)
	}
}

func TestEvaluateDates_SelectedFlagOnlyOnCandidateDate(t *testing.T) {
	reservations := []DateMark{
		{Date: feb(10), Quantity: 1},
		{Date: feb(11), Quantity: 1},
	}
	cand := &DateMark{Date: feb(11), Quantity: 1}
	res := EvaluateDates(reservations, nil, cand, nil)
	for _, b := range res.Dates {
		if b.Date.Equal(feb(11)) && !b.Selected {
			t.Fatalf("candidate bucket not flagged selected")
		}
		if b.Date.Equal(feb(10)) && b.Selected {
			t.Fatalf("non-candidate bucket flagged selected")
		}
	}
}

func TestEvaluateDates_BucketDateNormalizedToUTCMidnight(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	reservations := []DateMark{
		{Date: time.Date(2024, 2, 10, 15, 30, 0, 0, zone), Quantity: 1},
		{Date: feb(10).Add(8 * time.Hour), Quantity: 2},
	}
	res := EvaluateDates(reservations, nil, nil, nil)
	if len(res.Dates) != 1 {
		t.Fatalf("same UTC day must share a bucket, got %d buckets", len(res.Dates))
	}
	b := res.Dates[0]
	if !b.Date.Equal(feb(10)) {
		t.Fatalf("bucket date must be UTC midnight %v, got %v", feb(10), b.Date)
	}
	if b.Quantity != 3 {
		t.Fatalf("expected summed quantity 3, got %d", b.Quantity)
	}
}
