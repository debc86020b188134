package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendsense/internal/amqp"
	"spendsense/internal/services"
)

// AnalysisWorker turns queued analysis requests into stored reports. It
// also sweeps a fixed set of accounts on a timer as a backup, so accounts
// keep getting re-analyzed even when no requests arrive.
type AnalysisWorker struct {
	service  *services.AnalysisService
	accounts []string
	interval time.Duration
}

func NewAnalysisWorker(service *services.AnalysisService, accounts []string, sweepInterval time.Duration) *AnalysisWorker {
	return &AnalysisWorker{
		service:  service,
		accounts: accounts,
		interval: sweepInterval,
	}
}

// HandleRequest processes a single analysis request message from AMQP
func (w *AnalysisWorker) HandleRequest(ctx context.Context, msg *amqp.AnalysisRequestedMessage) error {
	slog.InfoContext(ctx, "Processing analysis request",
		"request_id", msg.RequestID,
		"account_id", msg.AccountID)

	stored, err := w.service.AnalyzeAccount(ctx, msg.AccountID)
	if err != nil {
		return fmt.Errorf("analyze account %s: %w", msg.AccountID, err)
	}

	slog.InfoContext(ctx, "Analysis request completed",
		"request_id", msg.RequestID,
		"account_id", msg.AccountID,
		"report_id", stored.ID,
		"top_category", stored.Report.TopCategory,
		"insight_count", len(stored.Report.Insights))

	return nil
}

// SweepAccounts analyzes every configured account once. Failures are
// logged per account and do not stop the sweep.
func (w *AnalysisWorker) SweepAccounts(ctx context.Context) error {
	if len(w.accounts) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sweeping configured accounts", "count", len(w.accounts))

	successCount := 0
	errorCount := 0

	for _, accountID := range w.accounts {
		if err := ctx.Err(); err != nil {
			return err
		}

		stored, err := w.service.AnalyzeAccount(ctx, accountID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to analyze account during sweep",
				"account_id", accountID, "error", err)
			errorCount++
			continue
		}

		slog.InfoContext(ctx, "Swept account",
			"account_id", accountID,
			"report_id", stored.ID,
			"top_category", stored.Report.TopCategory)
		successCount++
	}

	slog.InfoContext(ctx, "Account sweep completed",
		"total", len(w.accounts),
		"analyzed", successCount,
		"errors", errorCount)

	return nil
}

// RunSweeper runs SweepAccounts on the configured interval until the
// context ends. It sweeps once immediately on startup.
func (w *AnalysisWorker) RunSweeper(ctx context.Context) error {
	if len(w.accounts) == 0 || w.interval <= 0 {
		slog.InfoContext(ctx, "Periodic sweep disabled",
			"accounts", len(w.accounts), "interval", w.interval)
		<-ctx.Done()
		return ctx.Err()
	}

	if err := w.SweepAccounts(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sweep failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SweepAccounts(ctx); err != nil {
				slog.ErrorContext(ctx, "Account sweep failed", "error", err)
			}
		}
	}
}
