package core

import (
	"errors"
	"strings"
	"time"
)

// Application categories form a closed set. Every transaction resolves to
// exactly one of these; provider taxonomies are mapped onto them.
const (
	Dining        Category = "Dining"
	Shopping      Category = "Shopping"
	Travel        Category = "Travel"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Housing       Category = "Housing"
	Unclassified  Category = "Unclassified"

	// CategoryNone is the top-category sentinel for a batch with no
	// positive spend. It is never a valid transaction category.
	CategoryNone Category = "None"
)

type (
	Category string

	// Money is a signed fixed-point amount in cents. Positive cents are
	// spend, zero and negative cents are income or refunds.
	Money struct {
		Cents int64
	}

	// Transaction is a single raw record as delivered by a transaction
	// source. Timestamp is optional: a zero time means the source did not
	// provide one. RawCategories is the provider's own taxonomy, most
	// specific first.
	Transaction struct {
		Name          string
		Amount        Money
		Timestamp     time.Time
		RawCategories []string
	}

	// NormalizedTransaction is a Transaction with its resolved application
	// category attached.
	NormalizedTransaction struct {
		Transaction
		Category Category
	}

	// CategoryTotals maps each category to its cumulative positive spend.
	CategoryTotals map[Category]Money

	Severity string

	// Insight is one human-readable finding. Immutable once produced.
	Insight struct {
		Severity Severity
		Text     string
	}

	// Report is the full result of one analysis run.
	Report struct {
		TopCategory Category
		Totals      CategoryTotals
		Insights    []Insight
	}
)

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrBadTimestamp  = errors.New("malformed timestamp")
)

// Categories lists the closed application category set, Unclassified last.
func Categories() []Category {
	return []Category{Dining, Shopping, Travel, Entertainment, Health, Housing, Unclassified}
}

// IsValid reports whether c belongs to the closed application set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// HasTimestamp reports whether the source supplied a posting time.
func (t Transaction) HasTimestamp() bool {
	return !t.Timestamp.IsZero()
}

// IsSpend reports whether the transaction counts toward spending totals.
func (t Transaction) IsSpend() bool {
	return t.Amount.Cents > 0
}

// DisplayName returns the merchant name or a placeholder when empty.
func (t Transaction) DisplayName() string {
	if strings.TrimSpace(t.Name) == "" {
		return "unknown merchant"
	}
	return t.Name
}

// Sum returns the total across all categories.
func (ct CategoryTotals) Sum() Money {
	var total int64
	for _, m := range ct {
		total += m.Cents
	}
	return Money{Cents: total}
}

func NewInfo(text string) Insight {
	return Insight{Severity: SeverityInfo, Text: text}
}

func NewWarning(text string) Insight {
	return Insight{Severity: SeverityWarning, Text: text}
}
