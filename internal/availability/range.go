package availability

import (
	"sort"
	"time"
)

// event is one signed delta produced by an interval edge.
type event struct {
	at       time.Time
	delta    int
	boundary Boundary
}

// EvaluateRange merges existing bookings, owner declarations and an
// optional candidate booking into a chronological occupancy timeline and
// decides whether the candidate can be admitted under maxQuantity.
//
// Every interval contributes two deltas: +quantity at its start and
// -quantity at its end.  Declarations with Available=true contribute with
// the opposite sign, freeing capacity for their duration.  Deltas are
// sorted by timestamp with a stable sort so that all deltas sharing an
// instant are applied before that instant's quantity is read.
//
// The admission verdict is a one-way latch: once the running quantity
// exceeds the ceiling at any step while a candidate and a ceiling are both
// present, the result stays unavailable.  Pre-existing overbooking with no
// candidate is never flagged; the engine only gates new admissions.
//
// Points sharing a timestamp are coalesced into one entry holding the
// final quantity for that instant, keeping any candidate boundary tag.
// When the timeline is non-empty a synthetic zero-quantity anchor point is
// prepended one calendar day before the first event so charting consumers
// always have a defined baseline.
func EvaluateRange(reservations []Interval, declarations []RangeDeclaration, candidate *Interval, maxQuantity *int) RangeResult {
	events := make([]event, 0, 2*(len(reservations)+len(declarations))+2)
	for _, r := range reservations {
		events = append(events,
			event{at: r.Start, delta: r.Quantity},
			event{at: r.End, delta: -r.Quantity},
		)
	}
	for _, d := range declarations {
		q := d.Quantity
		if d.Available {
			q = -q // an opening frees capacity for the window, restored at its end
		}
		events = append(events,
			event{at: d.Start, delta: q},
			event{at: d.End, delta: -q},
		)
	}
	if candidate != nil {
		events = append(events,
			event{at: candidate.Start, delta: candidate.Quantity, boundary: BoundaryStart},
			event{at: candidate.End, delta: -candidate.Quantity, boundary: BoundaryEnd},
		)
	}

	// Stable: same-instant deltas keep their input order.
	sort.SliceStable(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })

	available := true
	enforce := candidate != nil && maxQuantity != nil

	running := 0
	timeline := make([]TimelinePoint, 0, len(events))
	for _, ev := range events {
		running += ev.delta
		if enforce && running > *maxQuantity {
			available = false
		}
		if n := len(timeline); n > 0 && timeline[n-1].Date.Equal(ev.at) {
			// Coalesce: last write wins for the displayed quantity since
			// the delta is already summed into the running total.
			timeline[n-1].Quantity = running
			if ev.boundary != "" {
				timeline[n-1].Boundary = ev.boundary
			}
			continue
		}
		timeline = append(timeline, TimelinePoint{Date: ev.at, Quantity: running, Boundary: ev.boundary})
	}

	if len(timeline) > 0 {
		anchor := TimelinePoint{Date: timeline[0].Date.AddDate(0, 0, -1), Quantity: 0}
		timeline = append([]TimelinePoint{anchor}, timeline...)
	}

	return RangeResult{Available: available, Timeline: timeline}
}
