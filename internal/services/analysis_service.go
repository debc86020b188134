package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendsense/internal/amqp"
	"spendsense/internal/analysis"
	"spendsense/internal/core"
	"spendsense/internal/source"
	"spendsense/internal/storage"
)

var (
	// ErrArchiveDisabled is returned when a report archive operation is
	// requested but no storage backend is configured.
	ErrArchiveDisabled = errors.New("report archive is disabled")

	// ErrAsyncDisabled is returned when an asynchronous analysis is
	// requested but no AMQP client is configured.
	ErrAsyncDisabled = errors.New("async analysis is disabled")
)

// AnalysisService orchestrates the analysis engine across the transaction
// source, the SQLite report archive and AMQP. Storage and AMQP are both
// optional: with a nil repository reports are returned but not persisted,
// with a nil AMQP client completion events are skipped.
type AnalysisService struct {
	engine     *analysis.Engine
	source     source.TransactionSource
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewAnalysisService(
	engine *analysis.Engine,
	src source.TransactionSource,
	repo *storage.SQLiteRepository,
	amqpClient *amqp.Client,
) *AnalysisService {
	return &AnalysisService{
		engine:     engine,
		source:     src,
		storage:    repo,
		amqpClient: amqpClient,
	}
}

// AnalyzeBatch runs the engine over an already-fetched batch, archives the
// report when storage is configured and publishes a completion event.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, accountID string, txs []core.Transaction) (*storage.StoredReport, error) {
	report, err := s.engine.Analyze(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}

	stored := &storage.StoredReport{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Report:         report,
		PatternSummary: analysis.PatternSummary(report.Insights),
		CreatedAt:      time.Now(),
	}

	if s.storage != nil {
		if err := s.storage.SaveReport(ctx, *stored); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	// Publish async completion event (non-blocking for the caller's result)
	if err := s.publishCompleted(ctx, stored); err != nil {
		slog.ErrorContext(ctx, "Failed to publish completion event",
			"report_id", stored.ID, "error", err)
		// Don't fail the request - the report itself succeeded
	}

	return stored, nil
}

// AnalyzeAccount pulls the account's transactions from the configured
// source and analyzes them.
func (s *AnalysisService) AnalyzeAccount(ctx context.Context, accountID string) (*storage.StoredReport, error) {
	txs, err := s.source.FetchTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for account %s: %w", accountID, err)
	}

	return s.AnalyzeBatch(ctx, accountID, txs)
}

// RecentReports lists the newest archived reports for an account.
func (s *AnalysisService) RecentReports(ctx context.Context, accountID string, limit int) ([]storage.StoredReport, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	reports, err := s.storage.ListRecent(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent reports: %w", err)
	}

	return reports, nil
}

// RequestAnalysis enqueues an asynchronous analysis request for the worker.
func (s *AnalysisService) RequestAnalysis(ctx context.Context, accountID string) error {
	if s.amqpClient == nil {
		return ErrAsyncDisabled
	}

	return s.amqpClient.PublishAnalysisRequest(ctx, accountID)
}

func (s *AnalysisService) publishCompleted(ctx context.Context, stored *storage.StoredReport) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping completion event")
		return nil
	}

	msg := amqp.NewAnalysisCompletedMessage(
		stored.ID,
		stored.AccountID,
		string(stored.Report.TopCategory),
		len(stored.Report.Insights),
	)
	return s.amqpClient.PublishAnalysisCompleted(ctx, msg)
}

// Close closes both storage and AMQP connections
func (s *AnalysisService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close analysis service: %v", errs)
	}

	return nil
}
