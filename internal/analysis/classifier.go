package analysis

import (
	"context"

	"spendsense/internal/core"
)

// Classifier is the port for a single-transaction emotional-spending
// predictor, such as a pretrained model served elsewhere. Implementations
// are swappable with the rule engine at the service layer; none ships here.
type Classifier interface {
	// Classify reports whether the transaction looks like emotional
	// spending and with what probability in [0, 1].
	Classify(ctx context.Context, tx core.Transaction) (emotional bool, probability float64, err error)
}
