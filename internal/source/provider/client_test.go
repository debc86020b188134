package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchTransactions(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions": [
			{"name": "Starbucks", "amount": 12.0, "transactionTime": "2025-01-17T23:10:00", "categories": ["FOOD_AND_DRINK"]},
			{"name": "Payroll", "amount": -2500.0}
		]}`))
	}))
	defer ts.Close()

	cli := NewClient(ts.URL, "secret-token")
	txs, err := cli.FetchTransactions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("FetchTransactions: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization=%q", gotAuth)
	}
	if gotPath != "/accounts/acct-1/transactions" {
		t.Errorf("path=%q", gotPath)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Amount.Cents != 1200 || txs[1].Amount.Cents != -250000 {
		t.Errorf("amounts=%d,%d", txs[0].Amount.Cents, txs[1].Amount.Cents)
	}
}

func TestFetchTransactionsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	cli := NewClient(ts.URL, "bad-token")
	if _, err := cli.FetchTransactions(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected error on non-200")
	}
}

func TestFetchTransactionsMalformedTimestampFailsBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactions": [{"name": "x", "amount": 1, "transactionTime": "whenever"}]}`))
	}))
	defer ts.Close()

	cli := NewClient(ts.URL, "t")
	if _, err := cli.FetchTransactions(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected validation error for malformed timestamp")
	}
}

func TestFetchTransactionsEscapesAccountID(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"transactions": []}`))
	}))
	defer ts.Close()

	cli := NewClient(ts.URL+"/", "t")
	if _, err := cli.FetchTransactions(context.Background(), "a/b"); err != nil {
		t.Fatalf("FetchTransactions: %v", err)
	}
	if gotPath != "/accounts/a%2Fb/transactions" {
		t.Errorf("path=%q", gotPath)
	}
}
