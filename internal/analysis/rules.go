package analysis

import (
	"fmt"
	"time"

	"spendsense/internal/core"
)

// Rules holds the detector configuration for one engine instance. Which
// detectors run, their thresholds and the trend reference category are all
// injected here rather than hardcoded, so deployments with different
// currencies or data shapes share one engine.
type Rules struct {
	// Late-night impulsive spending: Dining or Travel between 22:00 and
	// 02:00 (hour 2 itself excluded), amount strictly above the minimum.
	LateNightEnabled   bool
	LateNightMinAmount core.Money

	// Weekend large purchase: Shopping on Saturday or Sunday, amount at or
	// above the minimum. Unit-scaled deployments raise the threshold via
	// configuration.
	WeekendEnabled   bool
	WeekendMinAmount core.Money

	// Threshold-only variant for feeds without timestamps: Shopping or
	// Dining at or above the minimum, reported as one summary insight.
	HighValueEnabled   bool
	HighValueMinAmount core.Money

	// Rapid consecutive payments: a run of RapidRunLength successive gaps,
	// each strictly below RapidMaxGap, between positive payments sorted by
	// time. Fires at most once per batch.
	RapidEnabled   bool
	RapidMaxGap    time.Duration
	RapidRunLength int

	// Month-over-month trend for one reference category.
	TrendEnabled  bool
	TrendCategory core.Category
}

// DefaultRules returns the reference configuration for timestamped feeds.
func DefaultRules() Rules {
	return Rules{
		LateNightEnabled:   true,
		LateNightMinAmount: core.Money{Cents: 1500},

		WeekendEnabled:   true,
		WeekendMinAmount: core.Money{Cents: 5000},

		HighValueEnabled:   false,
		HighValueMinAmount: core.Money{Cents: 10000},

		RapidEnabled:   true,
		RapidMaxGap:    time.Hour,
		RapidRunLength: 4,

		TrendEnabled:  true,
		TrendCategory: core.Dining,
	}
}

// ThresholdOnlyRules returns the simplified configuration for feeds that
// carry no timestamps: only the high-value summary rule is active.
func ThresholdOnlyRules() Rules {
	r := DefaultRules()
	r.LateNightEnabled = false
	r.WeekendEnabled = false
	r.RapidEnabled = false
	r.TrendEnabled = false
	r.HighValueEnabled = true
	return r
}

// Validate checks threshold sanity before the rules are handed to an engine.
func (r Rules) Validate() error {
	if r.LateNightEnabled && r.LateNightMinAmount.Cents < 0 {
		return fmt.Errorf("late-night minimum amount must not be negative: %d", r.LateNightMinAmount.Cents)
	}
	if r.WeekendEnabled && r.WeekendMinAmount.Cents <= 0 {
		return fmt.Errorf("weekend minimum amount must be positive: %d", r.WeekendMinAmount.Cents)
	}
	if r.HighValueEnabled && r.HighValueMinAmount.Cents <= 0 {
		return fmt.Errorf("high-value minimum amount must be positive: %d", r.HighValueMinAmount.Cents)
	}
	if r.RapidEnabled {
		if r.RapidMaxGap <= 0 {
			return fmt.Errorf("rapid payment max gap must be positive: %v", r.RapidMaxGap)
		}
		if r.RapidRunLength < 1 {
			return fmt.Errorf("rapid payment run length must be at least 1: %d", r.RapidRunLength)
		}
	}
	if r.TrendEnabled && !r.TrendCategory.IsValid() {
		return fmt.Errorf("trend reference category %q is not a known category", r.TrendCategory)
	}
	return nil
}
