// Package memory implements an in-memory transaction source, seeded from a
// JSON file. It backs local development and tests where no aggregation
// provider is reachable.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"spendsense/internal/core"
	"spendsense/internal/source"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string][]core.Transaction
}

type seedFile struct {
	Accounts map[string][]source.Record `json:"accounts"`
}

func New() *Store {
	return &Store{accounts: make(map[string][]core.Transaction)}
}

// NewFromFile seeds a store from a JSON file. A missing file yields an
// empty store; a present but malformed file is an error.
func NewFromFile(path string) (*Store, error) {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for account, records := range seed.Accounts {
		txs, err := source.Transactions(records)
		if err != nil {
			return nil, fmt.Errorf("seed account %s: %w", account, err)
		}
		s.accounts[account] = txs
	}
	return s, nil
}

// Put replaces the stored batch for an account.
func (s *Store) Put(accountID string, txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountID] = append([]core.Transaction(nil), txs...)
}

// FetchTransactions implements source.TransactionSource. Unknown accounts
// return an empty batch, which the engine treats as a valid empty analysis.
func (s *Store) FetchTransactions(_ context.Context, accountID string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.accounts[accountID]...), nil
}

// Accounts lists the seeded account IDs.
func (s *Store) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		out = append(out, id)
	}
	return out
}
