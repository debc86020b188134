package analysis

import "spendsense/internal/core"

// Aggregate sums positive amounts per category and picks the top-spending
// category. Ties break toward the category that first appeared in the input,
// which keeps results reproducible for identical batches.
//
// A batch with no positive spend yields empty totals and the None sentinel;
// that is a valid result, not an error.
func Aggregate(txs []core.NormalizedTransaction) (core.CategoryTotals, core.Category) {
	totals := make(core.CategoryTotals)
	var order []core.Category

	for _, tx := range txs {
		if !tx.IsSpend() {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = core.Money{Cents: totals[tx.Category].Cents + tx.Amount.Cents}
	}

	top := core.CategoryNone
	var max int64
	for _, c := range order {
		if totals[c].Cents > max {
			max = totals[c].Cents
			top = c
		}
	}
	return totals, top
}
