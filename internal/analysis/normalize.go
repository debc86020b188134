// Package analysis implements the transaction analysis engine: category
// normalization, per-category aggregation and the rule-based detectors that
// turn a batch of raw transactions into a spending report with insights.
//
// One Analyze call is a single synchronous computation over one in-memory
// batch. The engine keeps no state between runs, so concurrent runs over
// different batches never interfere.
package analysis

import (
	"spendsense/internal/core"
	"spendsense/internal/taxonomy"
)

// Normalize resolves a transaction's application category. Resolution order
// is a hard contract: provider raw categories first (in the order the
// provider listed them), exact merchant name second, Unclassified last.
// The result depends only on the transaction's own fields.
func Normalize(tax *taxonomy.Taxonomy, tx core.Transaction) core.NormalizedTransaction {
	for _, raw := range tx.RawCategories {
		if c, ok := tax.LookupProvider(raw); ok {
			return core.NormalizedTransaction{Transaction: tx, Category: c}
		}
	}
	if c, ok := tax.LookupMerchant(tx.Name); ok {
		return core.NormalizedTransaction{Transaction: tx, Category: c}
	}
	return core.NormalizedTransaction{Transaction: tx, Category: core.Unclassified}
}

// NormalizeAll normalizes a batch preserving input order.
func NormalizeAll(tax *taxonomy.Taxonomy, txs []core.Transaction) []core.NormalizedTransaction {
	out := make([]core.NormalizedTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Normalize(tax, tx))
	}
	return out
}
