package analysis

import (
	"context"
	"fmt"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/taxonomy"
)

// Clock supplies "now" to the trend detector. Production uses time.Now;
// tests pin a fixed instant.
type Clock func() time.Time

// Engine runs the full analysis: normalize, aggregate, detect, compose.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	tax   *taxonomy.Taxonomy
	rules Rules
	clock Clock
}

// NewEngine builds an engine over the given taxonomy and rules. A nil clock
// defaults to time.Now.
func NewEngine(tax *taxonomy.Taxonomy, rules Rules, clock Clock) (*Engine, error) {
	if tax == nil {
		return nil, fmt.Errorf("taxonomy is required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Engine{tax: tax, rules: rules, clock: clock}, nil
}

// Rules returns the engine's active rule configuration.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Analyze produces the spending report for one batch. An empty batch is not
// an error: it short-circuits before any detector runs and returns the
// canonical empty report.
func (e *Engine) Analyze(ctx context.Context, txs []core.Transaction) (core.Report, error) {
	if err := ctx.Err(); err != nil {
		return core.Report{}, err
	}

	if len(txs) == 0 {
		return core.Report{
			TopCategory: core.CategoryNone,
			Totals:      core.CategoryTotals{},
			Insights:    []core.Insight{core.NewInfo(MsgNoTransactions)},
		}, nil
	}

	normalized := NormalizeAll(e.tax, txs)
	totals, top := Aggregate(normalized)

	var lateNight, weekend, highValue, rapid, trend []core.Insight
	if e.rules.LateNightEnabled {
		lateNight = detectLateNight(normalized, e.rules)
	}
	if e.rules.WeekendEnabled {
		weekend = detectWeekend(normalized, e.rules)
	}
	if e.rules.HighValueEnabled {
		highValue = detectHighValue(normalized, e.rules)
	}
	if e.rules.RapidEnabled {
		rapid = detectRapid(normalized, e.rules)
	}
	if e.rules.TrendEnabled {
		trend = detectTrend(normalized, e.rules, e.clock())
	}

	return core.Report{
		TopCategory: top,
		Totals:      totals,
		Insights:    compose(lateNight, weekend, highValue, rapid, trend),
	}, nil
}
