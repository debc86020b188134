package analysis

import (
	"fmt"
	"sort"
	"time"

	"spendsense/internal/core"
)

// Detectors are pure functions over the normalized batch. They do not
// communicate; their relative order in the report is fixed by the composer,
// not by anything here.

// detectLateNight flags Dining and Travel purchases posted between 22:00
// and 02:00 local time, one insight per qualifying transaction. The window
// covers hours 22, 23, 0 and 1; hour 2 exactly is outside it.
func detectLateNight(txs []core.NormalizedTransaction, r Rules) []core.Insight {
	var out []core.Insight
	for _, tx := range txs {
		if !tx.HasTimestamp() || !tx.IsSpend() {
			continue
		}
		hour := tx.Timestamp.Hour()
		if hour < 22 && hour >= 2 {
			continue
		}
		if tx.Category != core.Dining && tx.Category != core.Travel {
			continue
		}
		if tx.Amount.Cents <= r.LateNightMinAmount.Cents {
			continue
		}
		out = append(out, core.NewInfo(fmt.Sprintf(
			"%s: %s spent at %s (late-night spending)",
			tx.Timestamp.Format("01/02 15:04"), tx.Amount, tx.DisplayName())))
	}
	return out
}

// detectWeekend flags Shopping purchases at or above the configured
// threshold on Saturdays and Sundays, one insight per transaction.
func detectWeekend(txs []core.NormalizedTransaction, r Rules) []core.Insight {
	var out []core.Insight
	for _, tx := range txs {
		if !tx.HasTimestamp() || !tx.IsSpend() {
			continue
		}
		wd := tx.Timestamp.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			continue
		}
		if tx.Category != core.Shopping {
			continue
		}
		if tx.Amount.Cents < r.WeekendMinAmount.Cents {
			continue
		}
		out = append(out, core.NewInfo(fmt.Sprintf(
			"%s: %s spent at %s over the weekend (possible impulse purchase)",
			tx.Timestamp.Format("01/02"), tx.Amount, tx.DisplayName())))
	}
	return out
}

// detectHighValue is the timestamp-free variant: Shopping and Dining
// purchases at or above the threshold are reported as one summary insight
// with a count and a total, never as per-transaction lines.
func detectHighValue(txs []core.NormalizedTransaction, r Rules) []core.Insight {
	var count int
	var total int64
	for _, tx := range txs {
		if !tx.IsSpend() {
			continue
		}
		if tx.Category != core.Shopping && tx.Category != core.Dining {
			continue
		}
		if tx.Amount.Cents < r.HighValueMinAmount.Cents {
			continue
		}
		count++
		total += tx.Amount.Cents
	}
	if count == 0 {
		return nil
	}
	noun := "purchases"
	if count == 1 {
		noun = "purchase"
	}
	return []core.Insight{core.NewInfo(fmt.Sprintf(
		"%d high-value %s totaling %s in shopping and dining",
		count, noun, core.Money{Cents: total}))}
}

// detectRapid scans positive, timestamped payments in chronological order
// for a run of sub-gap intervals. With the reference run length of 4, five
// payments within pairwise sub-hour gaps trigger a single warning; scanning
// stops there, so a later cluster in the same batch does not re-fire.
func detectRapid(txs []core.NormalizedTransaction, r Rules) []core.Insight {
	var payments []core.NormalizedTransaction
	for _, tx := range txs {
		if tx.IsSpend() && tx.HasTimestamp() {
			payments = append(payments, tx)
		}
	}
	// A run of N gaps needs N+1 payments.
	if len(payments) < r.RapidRunLength+1 {
		return nil
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Timestamp.Before(payments[j].Timestamp)
	})

	run := 0
	for i := 1; i < len(payments); i++ {
		gap := payments[i].Timestamp.Sub(payments[i-1].Timestamp)
		if gap < r.RapidMaxGap {
			run++
			if run >= r.RapidRunLength {
				return []core.Insight{core.NewWarning(fmt.Sprintf(
					"%d payments in rapid succession, each under %s apart (possible spending spree)",
					r.RapidRunLength+1, gapLabel(r.RapidMaxGap)))}
			}
		} else {
			run = 0
		}
	}
	return nil
}

func gapLabel(d time.Duration) string {
	if d == time.Hour {
		return "an hour"
	}
	return d.String()
}

// detectTrend compares the reference category's positive spend in the
// current calendar month (day 1 through now) against the full previous
// month. It reads the injected clock, which makes it the one detector whose
// output is not a pure function of the batch; tests pin the clock.
//
// Feeds with no timestamps at all skip the detector entirely.
func detectTrend(txs []core.NormalizedTransaction, r Rules, now time.Time) []core.Insight {
	anyTimestamped := false
	for _, tx := range txs {
		if tx.HasTimestamp() {
			anyTimestamped = true
			break
		}
	}
	if !anyTimestamped {
		return nil
	}

	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	priorStart := currentStart.AddDate(0, -1, 0)

	var current, prior int64
	for _, tx := range txs {
		if !tx.IsSpend() || !tx.HasTimestamp() || tx.Category != r.TrendCategory {
			continue
		}
		ts := tx.Timestamp
		switch {
		case !ts.Before(currentStart) && !ts.After(now):
			current += tx.Amount.Cents
		case !ts.Before(priorStart) && ts.Before(currentStart):
			prior += tx.Amount.Cents
		}
	}

	cat := r.TrendCategory
	switch {
	case current == 0:
		return []core.Insight{core.NewInfo(fmt.Sprintf(
			"No %s spend recorded yet this month", cat))}
	case prior == 0:
		return []core.Insight{core.NewInfo(fmt.Sprintf(
			"%s spend this month: %s (no activity last month to compare)",
			cat, core.Money{Cents: current}))}
	case current == prior:
		return []core.Insight{core.NewInfo(fmt.Sprintf(
			"%s spend is unchanged from last month", cat))}
	default:
		pct := (float64(current) - float64(prior)) / float64(prior) * 100
		direction := "up"
		if pct < 0 {
			direction = "down"
			pct = -pct
		}
		return []core.Insight{core.NewInfo(fmt.Sprintf(
			"%s spend is %s %.1f%% from last month", cat, direction, pct))}
	}
}
