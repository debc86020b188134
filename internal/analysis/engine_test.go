package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/taxonomy"
)

func newTestEngine(t *testing.T, rules Rules, now time.Time) *Engine {
	t.Helper()
	eng, err := NewEngine(taxonomy.Default(), rules, func() time.Time { return now })
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, DefaultRules(), nil); err == nil {
		t.Fatal("expected error for nil taxonomy")
	}

	bad := DefaultRules()
	bad.TrendCategory = "Lottery"
	if _, err := NewEngine(taxonomy.Default(), bad, nil); err == nil {
		t.Fatal("expected error for invalid trend category")
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	eng := newTestEngine(t, DefaultRules(), jan(20, 12, 0))

	report, err := eng.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.TopCategory != core.CategoryNone {
		t.Fatalf("top=%s, want None", report.TopCategory)
	}
	if len(report.Totals) != 0 {
		t.Fatalf("totals=%v, want empty", report.Totals)
	}
	if len(report.Insights) != 1 || report.Insights[0].Text != MsgNoTransactions {
		t.Fatalf("insights=%v, want single canonical empty message", report.Insights)
	}
}

func TestAnalyzeHealthyHabits(t *testing.T) {
	// A modest weekday lunch: no detector has anything to say except the
	// trend comparator, so disable it to reach the canonical message.
	rules := DefaultRules()
	rules.TrendEnabled = false
	eng := newTestEngine(t, rules, jan(20, 12, 0))

	report, err := eng.Analyze(context.Background(), []core.Transaction{
		{Name: "Starbucks", Amount: core.Money{Cents: 750}, Timestamp: jan(15, 12, 30), RawCategories: []string{"FOOD_AND_DRINK"}},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Insights) != 1 || report.Insights[0].Text != MsgHealthyHabits {
		t.Fatalf("insights=%v, want single healthy-habits message", report.Insights)
	}
}

func TestAnalyzeReferenceExample(t *testing.T) {
	// Friday 23:10, 12.00 at Starbucks, raw category "Food & Drink":
	// resolves to Dining, stays under the late-night threshold, totals 12.00.
	eng := newTestEngine(t, DefaultRules(), jan(20, 12, 0))

	report, err := eng.Analyze(context.Background(), []core.Transaction{
		{Name: "Starbucks", Amount: core.Money{Cents: 1200}, Timestamp: jan(17, 23, 10), RawCategories: []string{"Food & Drink"}},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.TopCategory != core.Dining {
		t.Fatalf("top=%s, want Dining", report.TopCategory)
	}
	if report.Totals[core.Dining].Cents != 1200 {
		t.Fatalf("Dining total=%d, want 1200", report.Totals[core.Dining].Cents)
	}
	for _, in := range report.Insights {
		if strings.Contains(in.Text, "late-night") {
			t.Fatalf("late-night detector must not fire at 12.00: %q", in.Text)
		}
	}
}

func TestAnalyzeThresholdOnlyVariant(t *testing.T) {
	// Reference example: a single pre-resolved Shopping record of 120.00
	// with no timestamp yields one summary insight.
	eng := newTestEngine(t, ThresholdOnlyRules(), jan(20, 12, 0))

	report, err := eng.Analyze(context.Background(), []core.Transaction{
		{Amount: core.Money{Cents: 12000}, RawCategories: []string{"Shopping"}},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Insights) != 1 {
		t.Fatalf("insights=%v, want exactly one", report.Insights)
	}
	text := report.Insights[0].Text
	if !strings.Contains(text, "1 high-value purchase ") || !strings.Contains(text, "120.00") {
		t.Fatalf("summary insight wrong: %q", text)
	}
	if report.TopCategory != core.Shopping {
		t.Fatalf("top=%s, want Shopping", report.TopCategory)
	}
}

func TestAnalyzeDetectorPriorityOrder(t *testing.T) {
	eng := newTestEngine(t, DefaultRules(), jan(20, 12, 0))

	batch := []core.Transaction{
		// Weekend hit: Saturday shopping at 89.99.
		{Name: "Amazon", Amount: core.Money{Cents: 8999}, Timestamp: jan(18, 14, 0), RawCategories: []string{"SHOPS"}},
		// Late-night hit: Friday 23:30 dining at 27.50.
		{Name: "Uber Eats", Amount: core.Money{Cents: 2750}, Timestamp: jan(17, 23, 30), RawCategories: []string{"FOOD_AND_DRINK"}},
	}
	report, err := eng.Analyze(context.Background(), batch)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var lateIdx, weekendIdx = -1, -1
	for i, in := range report.Insights {
		if strings.Contains(in.Text, "late-night") {
			lateIdx = i
		}
		if strings.Contains(in.Text, "weekend") {
			weekendIdx = i
		}
	}
	if lateIdx == -1 || weekendIdx == -1 {
		t.Fatalf("expected both detectors to fire: %v", report.Insights)
	}
	if lateIdx > weekendIdx {
		t.Fatalf("late-night insights must precede weekend insights: %v", report.Insights)
	}
}

func TestAnalyzeConcurrentRunsDoNotInterfere(t *testing.T) {
	eng := newTestEngine(t, DefaultRules(), jan(20, 12, 0))

	batch := []core.Transaction{
		{Name: "Starbucks", Amount: core.Money{Cents: 1200}, Timestamp: jan(17, 23, 10), RawCategories: []string{"Food & Drink"}},
	}

	done := make(chan core.Report, 8)
	for i := 0; i < 8; i++ {
		go func() {
			report, err := eng.Analyze(context.Background(), batch)
			if err != nil {
				t.Errorf("Analyze: %v", err)
			}
			done <- report
		}()
	}
	first := <-done
	for i := 1; i < 8; i++ {
		got := <-done
		if got.TopCategory != first.TopCategory || len(got.Insights) != len(first.Insights) {
			t.Fatalf("concurrent runs diverged: %v vs %v", got, first)
		}
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	eng := newTestEngine(t, DefaultRules(), jan(20, 12, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Analyze(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPatternSummary(t *testing.T) {
	healthy := []core.Insight{core.NewInfo(MsgHealthyHabits)}
	if got := PatternSummary(healthy); got != MsgHealthyHabits {
		t.Fatalf("got %q", got)
	}

	empty := []core.Insight{core.NewInfo(MsgNoTransactions)}
	if got := PatternSummary(empty); got != MsgNoTransactions {
		t.Fatalf("got %q", got)
	}

	events := []core.Insight{core.NewInfo("first"), core.NewWarning("second")}
	got := PatternSummary(events)
	if !strings.HasPrefix(got, "2 spending pattern(s) found:") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "\n- first") || !strings.Contains(got, "\n- second") {
		t.Fatalf("missing bulleted events: %q", got)
	}
}
