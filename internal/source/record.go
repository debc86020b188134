package source

import (
	"fmt"
	"time"

	"spendsense/internal/core"
)

// Record is the wire shape of one transaction as both the aggregation
// provider and seed files deliver it. Amounts are JSON numbers in currency
// units; transactionTime is optional and naive-local when present.
type Record struct {
	Name            string   `json:"name"`
	Amount          float64  `json:"amount"`
	TransactionTime string   `json:"transactionTime,omitempty"`
	Categories      []string `json:"categories,omitempty"`
}

// Timestamp layouts accepted on the wire. Times are treated as local; no
// zone conversion is performed.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a wire timestamp. An empty string is a valid absent
// timestamp; anything non-empty that fails every layout is a validation
// error — timestamps are never silently coerced.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", core.ErrBadTimestamp, s)
}

// Transaction converts the wire record to the domain type, rejecting
// malformed timestamps before they can reach the engine.
func (r Record) Transaction() (core.Transaction, error) {
	ts, err := ParseTimestamp(r.TransactionTime)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Name:          r.Name,
		Amount:        core.Money{Cents: core.CentsFromFloat(r.Amount)},
		Timestamp:     ts,
		RawCategories: r.Categories,
	}, nil
}

// Transactions converts a wire batch, failing fast on the first bad record:
// a batch either fully converts or the whole fetch fails.
func Transactions(records []Record) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		tx, err := r.Transaction()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, tx)
	}
	return out, nil
}
