// Package availability implements the occupancy engines used to decide
// whether a new booking can be admitted for a listing.  Two engines are
// provided: EvaluateRange merges continuous time intervals with a sweep
// line, while EvaluateDates groups single-date entries into per-date
// buckets.  Both are pure functions over their arguments: no I/O, no
// shared state, safe for concurrent use.  Callers are expected to have
// validated inputs (well-formed dates, positive quantities) before
// invoking either engine; the engines only judge capacity.
package availability

import "time"

// Boundary tags a timeline point that coincides with an edge of the
// candidate booking under evaluation.
type Boundary string

const (
	// BoundaryStart marks the candidate's start instant.
	BoundaryStart Boundary = "start"
	// BoundaryEnd marks the candidate's end instant.
	BoundaryEnd Boundary = "end"
)

// Interval is a continuous occupancy window: an existing booking or the
// candidate booking in range mode.  End is exclusive.
type Interval struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Quantity int       `json:"quantity"`
}

// DateMark pins a quantity to a single instant with no duration.  It is
// used for bookings and candidates in date mode.
type DateMark struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// RangeDeclaration is an owner-authored window.  When Available is true
// the window frees Quantity units of capacity for its duration (an extra
// opening); when false it consumes them (a blackout).
type RangeDeclaration struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Quantity  int       `json:"quantity"`
	Available bool      `json:"available"`
}

// DateDeclaration is an owner-authored entry for a single date.  In date
// mode its Quantity acts as the capacity ceiling for that exact date,
// overriding the listing-wide maximum.
type DateDeclaration struct {
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	Available bool      `json:"available"`
}

// TimelinePoint is one step of the merged occupancy timeline: the running
// quantity committed at Date after every delta at that instant has been
// applied.  Boundary is set only where the point coincides with the
// candidate's edges.
type TimelinePoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
	Boundary Boundary  `json:"boundary,omitempty"`
}

// RangeResult is the outcome of EvaluateRange.  Available is always true
// when no candidate or no ceiling was supplied.
type RangeResult struct {
	Available bool            `json:"available"`
	Timeline  []TimelinePoint `json:"timeline"`
}

// DateBucket is the accumulated quantity for one calendar date.  Selected
// is set on the bucket holding the candidate's date.
type DateBucket struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
	Selected bool      `json:"selected,omitempty"`
}

// DateResult is the outcome of EvaluateDates.  Declarations is a
// simplified date+quantity view of the owner declarations; Dates holds
// every bucket in chronological order.
type DateResult struct {
	Available    bool         `json:"available"`
	Declarations []DateMark   `json:"declarations"`
	Dates        []DateBucket `json:"dates"`
}
