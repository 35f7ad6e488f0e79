package availability

import (
	"sort"
	"time"
)

// dateKeyLayout is the bucket key format.  Dates in date mode identify
// calendar days, so everything on the same UTC day shares a bucket.
const dateKeyLayout = "2006-01-02"

func dayKey(t time.Time) string { return t.UTC().Format(dateKeyLayout) }

// EvaluateDates groups existing bookings and an optional candidate into
// per-date quantity buckets and decides whether the candidate can be
// admitted.  Unlike range mode there is no duration to sweep across:
// bookings on the same date are summed into a single bucket from the
// outset.
//
// Declarations are indexed by date (last one wins on duplicates; they are
// never summed in this mode).  The effective ceiling for the candidate's
// date is the declared quantity for that exact date when present,
// otherwise the listing-wide maxQuantity.  With no candidate or no
// effective ceiling the verdict is always available.
func EvaluateDates(reservations []DateMark, declarations []DateDeclaration, candidate *DateMark, maxQuantity *int) DateResult {
	buckets := make(map[string]*DateBucket)
	add := func(t time.Time, q int) *DateBucket {
		k := dayKey(t)
		b, ok := buckets[k]
		if !ok {
			u := t.UTC()
			b = &DateBucket{Date: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
			buckets[k] = b
		}
		b.Quantity += q
		return b
	}

	for _, r := range reservations {
		add(r.Date, r.Quantity)
	}

	var candidateBucket *DateBucket
	if candidate != nil {
		candidateBucket = add(candidate.Date, candidate.Quantity)
		candidateBucket.Selected = true
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys) // ISO date keys sort chronologically

	dates := make([]DateBucket, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, *buckets[k])
	}

	declIndex := make(map[string]DateDeclaration, len(declarations))
	for _, d := range declarations {
		declIndex[dayKey(d.Date)] = d
	}
	declKeys := make([]string, 0, len(declIndex))
	for k := range declIndex {
		declKeys = append(declKeys, k)
	}
	sort.Strings(declKeys)
	simplified := make([]DateMark, 0, len(declKeys))
	for _, k := range declKeys {
		d := declIndex[k]
		simplified = append(simplified, DateMark{Date: d.Date, Quantity: d.Quantity})
	}

	available := true
	if candidate != nil {
		var ceiling *int
		if maxQuantity != nil {
			v := *maxQuantity
			ceiling = &v
		}
		if d, ok := declIndex[dayKey(candidate.Date)]; ok {
			// The owner's explicit per-date capacity takes precedence
			// over the listing-wide default.
			v := d.Quantity
			ceiling = &v
		}
		if ceiling != nil && candidateBucket.Quantity > *ceiling {
			available = false
		}
	}

	return DateResult{Available: available, Declarations: simplified, Dates: dates}
}
