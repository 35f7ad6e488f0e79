// Package recurrence expands owner-configured date patterns into the
// concrete calendar dates a listing is offered on.  Date-mode listings use
// the expansion upstream of the availability engine to validate that a
// requested date is offered at all.
package recurrence

import (
	"errors"
	"time"
)

// Frequency enumerates supported recurrence intervals.
type Frequency string

const (
	// FrequencyDaily offers every day inside the rule's bounds.
	FrequencyDaily Frequency = "DAILY"
	// FrequencyWeekly offers the selected weekdays inside the rule's bounds.
	FrequencyWeekly Frequency = "WEEKLY"
)

// Rule describes a recurrence configuration attached to a listing.
// EndsOn is inclusive; a nil EndsOn leaves the rule open-ended and the
// caller's range bound limits expansion instead.
type Rule struct {
	ID        uint64
	ListingID uint64
	Frequency Frequency
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
}

// ErrInvalidFrequency indicates the rule frequency is not supported.
var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

// ErrInvalidWindow indicates the expansion window has no end bound.
var ErrInvalidWindow = errors.New("recurrence: expansion window requires an end bound")

// ExpandDates generates every date the rule offers within
// [rangeStart, rangeEnd], normalized to UTC midnight.  Weekly rules with
// no weekday selection produce nothing.  Daily rules ignore weekdays.
func ExpandDates(rule Rule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	switch rule.Frequency {
	case FrequencyDaily, FrequencyWeekly:
	default:
		return nil, ErrInvalidFrequency
	}
	if rangeEnd.IsZero() {
		return nil, ErrInvalidWindow
	}

	start := midnightUTC(rule.StartsOn)
	if rs := midnightUTC(rangeStart); rs.After(start) {
		start = rs
	}
	end := midnightUTC(rangeEnd)
	if rule.EndsOn != nil {
		if ruleEnd := midnightUTC(*rule.EndsOn); ruleEnd.Before(end) {
			end = ruleEnd
		}
	}

	var allowed map[time.Weekday]bool
	if rule.Frequency == FrequencyWeekly {
		allowed = make(map[time.Weekday]bool, len(rule.Weekdays))
		for _, wd := range rule.Weekdays {
			allowed[wd] = true
		}
		if len(allowed) == 0 {
			return nil, nil
		}
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if allowed != nil && !allowed[d.Weekday()] {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Offers reports whether any of the rules produces the given date.
func Offers(rules []Rule, date time.Time) bool {
	day := midnightUTC(date)
	for _, rule := range rules {
		dates, err := ExpandDates(rule, day, day)
		if err != nil {
			continue
		}
		for _, d := range dates {
			if d.Equal(day) {
				return true
			}
		}
	}
	return false
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
