package core

import (
	"testing"
	"time"
)

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if CategoryNone.IsValid() {
		t.Fatal("None sentinel must not be a valid transaction category")
	}
	if Category("Groceries").IsValid() {
		t.Fatal("unknown category must not be valid")
	}
}

func TestTransactionHasTimestamp(t *testing.T) {
	if (Transaction{}).HasTimestamp() {
		t.Fatal("zero time should count as absent")
	}
	tx := Transaction{Timestamp: time.Date(2025, 1, 17, 23, 10, 0, 0, time.Local)}
	if !tx.HasTimestamp() {
		t.Fatal("expected timestamp to be present")
	}
}

func TestTransactionIsSpend(t *testing.T) {
	cases := []struct {
		cents int64
		spend bool
	}{
		{100, true},
		{1, true},
		{0, false},
		{-500, false},
	}
	for i, tc := range cases {
		tx := Transaction{Amount: Money{Cents: tc.cents}}
		if tx.IsSpend() != tc.spend {
			t.Fatalf("case %d: IsSpend()=%v, want %v", i, tx.IsSpend(), tc.spend)
		}
	}
}

func TestCategoryTotalsSum(t *testing.T) {
	totals := CategoryTotals{
		Dining:   {Cents: 1200},
		Shopping: {Cents: 5000},
	}
	if got := totals.Sum().Cents; got != 6200 {
		t.Fatalf("Sum()=%d, want 6200", got)
	}
	if got := (CategoryTotals{}).Sum().Cents; got != 0 {
		t.Fatalf("empty Sum()=%d, want 0", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Transaction{Name: "  "}).DisplayName(); got != "unknown merchant" {
		t.Fatalf("DisplayName()=%q", got)
	}
	if got := (Transaction{Name: "Starbucks"}).DisplayName(); got != "Starbucks" {
		t.Fatalf("DisplayName()=%q", got)
	}
}
