// Package source defines the ports for acquiring transaction batches and
// the wire record shared by every backend.
package source

import (
	"context"

	"spendsense/internal/core"
)

// TransactionSource delivers the transaction batch for one account. The
// engine is agnostic to how records arrive; implementations only guarantee
// the core.Transaction field contract.
type TransactionSource interface {
	FetchTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
}

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// Result pairs a constructed source with its optional cleanup.
type Result struct {
	Source  TransactionSource
	Cleanup CleanupFunc
}
