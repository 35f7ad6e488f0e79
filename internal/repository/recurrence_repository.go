package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lodgio/rental-booking/internal/model"
	"github.com/lodgio/rental-booking/internal/recurrence"
)

// RecurrenceRepo persists recurring-date patterns for date-mode listings.
type RecurrenceRepo struct {
	db *sql.DB
}

func NewRecurrenceRepo(db *sql.DB) *RecurrenceRepo { return &RecurrenceRepo{db: db} }

// Create inserts a recurrence rule after verifying listing ownership.
func (r *RecurrenceRepo) Create(ctx context.Context, rule *model.RecurrenceRule, ownerID uint64) error {
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM listings WHERE id = ?`, rule.ListingID).Scan(&actualOwnerID)
	if err != nil {
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	var endsOn any
	if rule.EndsOn != nil {
		endsOn = *rule.EndsOn
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurrence_rules (listing_id, frequency, weekdays, starts_on, ends_on)
		 VALUES (?,?,?,?,?)`,
		rule.ListingID, rule.Frequency, rule.Weekdays, rule.StartsOn, endsOn)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rule.ID = uint64(id)
	return nil
}

// ListByListing returns every rule attached to a listing.
func (r *RecurrenceRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.RecurrenceRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, listing_id, frequency, weekdays, starts_on, ends_on, created_at
		 FROM recurrence_rules WHERE listing_id = ? ORDER BY id`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rules := make([]model.RecurrenceRule, 0)
	for rows.Next() {
		var (
			rule   model.RecurrenceRule
			endsOn sql.NullTime
		)
		if err := rows.Scan(&rule.ID, &rule.ListingID, &rule.Frequency, &rule.Weekdays,
			&rule.StartsOn, &endsOn, &rule.CreatedAt); err != nil {
			return nil, err
		}
		if endsOn.Valid {
			t := endsOn.Time
			rule.EndsOn = &t
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ToEngineRules converts stored rows into expander rules, decoding the
// comma-separated weekday encoding.  Rows with unknown frequencies are
// skipped rather than failing the whole conversion.
func ToEngineRules(rows []model.RecurrenceRule) []recurrence.Rule {
	rules := make([]recurrence.Rule, 0, len(rows))
	for _, row := range rows {
		freq := recurrence.Frequency(strings.ToUpper(row.Frequency))
		if freq != recurrence.FrequencyDaily && freq != recurrence.FrequencyWeekly {
			continue
		}
		rules = append(rules, recurrence.Rule{
			ID:        row.ID,
			ListingID: row.ListingID,
			Frequency: freq,
			Weekdays:  decodeWeekdays(row.Weekdays),
			StartsOn:  row.StartsOn,
			EndsOn:    row.EndsOn,
		})
	}
	return rules
}

func decodeWeekdays(encoded string) []time.Weekday {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

// EncodeWeekdays renders a weekday selection into the stored
// comma-separated form.
func EncodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}
