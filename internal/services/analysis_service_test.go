package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spendsense/internal/analysis"
	"spendsense/internal/core"
	"spendsense/internal/source/memory"
	"spendsense/internal/storage"
	"spendsense/internal/taxonomy"
)

func newTestEngine(t *testing.T) *analysis.Engine {
	t.Helper()
	eng, err := analysis.NewEngine(taxonomy.Default(), analysis.DefaultRules(), nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return eng
}

func TestAnalyzeBatch_NoPersistence(t *testing.T) {
	svc := NewAnalysisService(newTestEngine(t), memory.New(), nil, nil)

	txs := []core.Transaction{
		{
			Name:      "Starbucks",
			Amount:    core.Money{Cents: 1200},
			Timestamp: time.Date(2026, 1, 16, 12, 0, 0, 0, time.Local),
		},
	}

	stored, err := svc.AnalyzeBatch(context.Background(), "acct-1", txs)
	if err != nil {
		t.Fatalf("AnalyzeBatch() error = %v", err)
	}

	if stored.ID == "" {
		t.Error("stored report should have an ID")
	}
	if stored.AccountID != "acct-1" {
		t.Errorf("AccountID = %v, want acct-1", stored.AccountID)
	}
	if stored.Report.TopCategory != core.Dining {
		t.Errorf("TopCategory = %v, want %v", stored.Report.TopCategory, core.Dining)
	}
	if stored.PatternSummary == "" {
		t.Error("PatternSummary should not be empty")
	}
}

func TestAnalyzeAccount_FromMemorySource(t *testing.T) {
	store := memory.New()
	store.Put("acct-7", []core.Transaction{
		{
			Name:      "Amazon",
			Amount:    core.Money{Cents: 8000},
			Timestamp: time.Date(2026, 1, 14, 10, 0, 0, 0, time.Local),
		},
	})

	svc := NewAnalysisService(newTestEngine(t), store, nil, nil)

	stored, err := svc.AnalyzeAccount(context.Background(), "acct-7")
	if err != nil {
		t.Fatalf("AnalyzeAccount() error = %v", err)
	}
	if stored.Report.TopCategory != core.Shopping {
		t.Errorf("TopCategory = %v, want %v", stored.Report.TopCategory, core.Shopping)
	}
}

func TestAnalyzeAccount_UnknownAccountStillReports(t *testing.T) {
	svc := NewAnalysisService(newTestEngine(t), memory.New(), nil, nil)

	stored, err := svc.AnalyzeAccount(context.Background(), "missing")
	if err != nil {
		t.Fatalf("AnalyzeAccount() error = %v", err)
	}
	if stored.Report.TopCategory != core.CategoryNone {
		t.Errorf("TopCategory = %v, want %v", stored.Report.TopCategory, core.CategoryNone)
	}
	if got := stored.PatternSummary; got != analysis.MsgNoTransactions {
		t.Errorf("PatternSummary = %q, want %q", got, analysis.MsgNoTransactions)
	}
}

func TestAnalyzeBatch_PersistsReport(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	svc := NewAnalysisService(newTestEngine(t), memory.New(), repo, nil)

	txs := []core.Transaction{
		{
			Name:      "Netflix",
			Amount:    core.Money{Cents: 1599},
			Timestamp: time.Date(2026, 1, 13, 20, 0, 0, 0, time.Local),
		},
	}

	stored, err := svc.AnalyzeBatch(context.Background(), "acct-2", txs)
	if err != nil {
		t.Fatalf("AnalyzeBatch() error = %v", err)
	}

	reports, err := svc.RecentReports(context.Background(), "acct-2", 10)
	if err != nil {
		t.Fatalf("RecentReports() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("RecentReports() returned %d reports, want 1", len(reports))
	}
	if reports[0].ID != stored.ID {
		t.Errorf("archived report ID = %v, want %v", reports[0].ID, stored.ID)
	}
}

func TestRecentReports_ArchiveDisabled(t *testing.T) {
	svc := NewAnalysisService(newTestEngine(t), memory.New(), nil, nil)

	_, err := svc.RecentReports(context.Background(), "acct-1", 5)
	if !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("RecentReports() error = %v, want ErrArchiveDisabled", err)
	}
}

func TestRequestAnalysis_AsyncDisabled(t *testing.T) {
	svc := NewAnalysisService(newTestEngine(t), memory.New(), nil, nil)

	err := svc.RequestAnalysis(context.Background(), "acct-1")
	if !errors.Is(err, ErrAsyncDisabled) {
		t.Errorf("RequestAnalysis() error = %v, want ErrAsyncDisabled", err)
	}
}

func TestClose_NilDependencies(t *testing.T) {
	svc := NewAnalysisService(newTestEngine(t), memory.New(), nil, nil)
	if err := svc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
