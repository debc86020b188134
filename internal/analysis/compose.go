package analysis

import (
	"fmt"
	"strings"

	"spendsense/internal/core"
)

// Canonical messages for runs where no detector fired or no data arrived.
const (
	MsgNoTransactions = "No transactions to analyze"
	MsgHealthyHabits  = "No concerning spending patterns found recently. You are keeping healthy spending habits!"
)

// compose merges detector outputs in fixed priority order, skipping empty
// ones. A run where nothing fired still yields exactly one insight: the
// canonical healthy-habits message. Insights are concatenated as-is, never
// rewritten.
func compose(outputs ...[]core.Insight) []core.Insight {
	var merged []core.Insight
	for _, out := range outputs {
		merged = append(merged, out...)
	}
	if len(merged) == 0 {
		return []core.Insight{core.NewInfo(MsgHealthyHabits)}
	}
	return merged
}

// PatternSummary renders the composite pattern string carried alongside the
// insight list for callers that consume a single text field: a header with
// the event count followed by one bulleted line per insight. When the only
// insight is a canonical message, that message is returned bare.
func PatternSummary(insights []core.Insight) string {
	if len(insights) == 1 {
		switch insights[0].Text {
		case MsgNoTransactions, MsgHealthyHabits:
			return insights[0].Text
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d spending pattern(s) found:", len(insights))
	for _, in := range insights {
		b.WriteString("\n- ")
		b.WriteString(in.Text)
	}
	return b.String()
}
