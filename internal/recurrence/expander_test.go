package recurrence

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandDates_Daily(t *testing.T) {
	rule := Rule{
		Frequency: FrequencyDaily,
		StartsOn:  date(2024, time.March, 1),
	}
	dates, err := ExpandDates(rule, date(2024, time.March, 3), date(2024, time.March, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(dates))
	}
	if !dates[0].Equal(date(2024, time.March, 3)) || !dates[3].Equal(date(2024, time.March, 6)) {
		t.Fatalf("unexpected bounds: %v .. %v", dates[0], dates[len(dates)-1])
	}
}

func TestExpandDates_WeeklyWeekdays(t *testing.T) {
	rule := Rule{
		Frequency: FrequencyWeekly,
		Weekdays:  []time.Weekday{time.Saturday, time.Sunday},
		StartsOn:  date(2024, time.March, 1), // a Friday
	}
	dates, err := ExpandDates(rule, date(2024, time.March, 1), date(2024, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Time{
		date(2024, time.March, 2),
		date(2024, time.March, 3),
		date(2024, time.March, 9),
		date(2024, time.March, 10),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestExpandDates_RuleEndBounds(t *testing.T) {
	end := date(2024, time.March, 4)
	rule := Rule{
		Frequency: FrequencyDaily,
		StartsOn:  date(2024, time.March, 1),
		EndsOn:    &end,
	}
	dates, err := ExpandDates(rule, date(2024, time.March, 1), date(2024, time.March, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected rule EndsOn to bound expansion, got %d dates", len(dates))
	}
}

func TestExpandDates_InvalidFrequency(t *testing.T) {
	_, err := ExpandDates(Rule{Frequency: "MONTHLY"}, date(2024, time.March, 1), date(2024, time.March, 2))
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestExpandDates_WeeklyWithoutWeekdays(t *testing.T) {
	rule := Rule{Frequency: FrequencyWeekly, StartsOn: date(2024, time.March, 1)}
	dates, err := ExpandDates(rule, date(2024, time.March, 1), date(2024, time.March, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("weekly rule without weekdays should produce nothing, got %d", len(dates))
	}
}

func TestOffers(t *testing.T) {
	rules := []Rule{
		{Frequency: FrequencyWeekly, Weekdays: []time.Weekday{time.Monday}, StartsOn: date(2024, time.March, 1)},
	}
	if !Offers(rules, date(2024, time.March, 4)) { // a Monday
		t.Fatalf("expected Monday to be offered")
	}
	if Offers(rules, date(2024, time.March, 5)) { // a Tuesday
		t.Fatalf("expected Tuesday not to be offered")
	}
	if Offers(rules, date(2024, time.February, 26)) { // Monday before StartsOn
		t.Fatalf("expected dates before StartsOn not to be offered")
	}
}
