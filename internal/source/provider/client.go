// Package provider implements the HTTP client for the account-aggregation
// provider's transactions endpoint.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/source"
)

// Client fetches transaction batches from the provider API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a provider client with a static bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTransactions implements source.TransactionSource. Records with
// malformed timestamps fail the whole batch; the engine never sees them.
func (c *Client) FetchTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/transactions", c.baseURL, url.PathEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", accountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %s for account %s", resp.Status, accountID)
	}

	var payload struct {
		Transactions []source.Record `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	txs, err := source.Transactions(payload.Transactions)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return txs, nil
}
