// Package storage persists completed analysis reports in SQLite. The
// engine itself is stateless; this archive exists so callers can review
// past analyses without re-fetching transactions.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spendsense/internal/core"

	_ "modernc.org/sqlite"
)

// ErrReportNotFound is returned when a report ID has no stored row.
var ErrReportNotFound = errors.New("report not found")

// StoredReport is one archived analysis run.
type StoredReport struct {
	ID             string
	AccountID      string
	Report         core.Report
	PatternSummary string
	CreatedAt      time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveReport archives one completed analysis.
func (r *SQLiteRepository) SaveReport(ctx context.Context, sr StoredReport) error {
	totals, err := json.Marshal(totalsToCents(sr.Report.Totals))
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}
	insights, err := json.Marshal(sr.Report.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (id, account_id, top_category, totals_json, insights_json, pattern_summary, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sr.ID, sr.AccountID, string(sr.Report.TopCategory), string(totals), string(insights),
		sr.PatternSummary, sr.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport loads one archived report by ID.
func (r *SQLiteRepository) GetReport(ctx context.Context, id string) (StoredReport, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, top_category, totals_json, insights_json, pattern_summary, created_ts
		FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

// ListRecent returns the newest reports for an account, newest first.
func (r *SQLiteRepository) ListRecent(ctx context.Context, accountID string, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, top_category, totals_json, insights_json, pattern_summary, created_ts
		FROM reports WHERE account_id = ?
		ORDER BY created_ts DESC LIMIT ?`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []StoredReport
	for rows.Next() {
		sr, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (StoredReport, error) {
	var (
		sr        StoredReport
		top       string
		totalsRaw string
		insRaw    string
	)
	err := row.Scan(&sr.ID, &sr.AccountID, &top, &totalsRaw, &insRaw, &sr.PatternSummary, &sr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredReport{}, ErrReportNotFound
	}
	if err != nil {
		return StoredReport{}, fmt.Errorf("scan report: %w", err)
	}

	var cents map[core.Category]int64
	if err := json.Unmarshal([]byte(totalsRaw), &cents); err != nil {
		return StoredReport{}, fmt.Errorf("unmarshal totals: %w", err)
	}
	var insights []core.Insight
	if err := json.Unmarshal([]byte(insRaw), &insights); err != nil {
		return StoredReport{}, fmt.Errorf("unmarshal insights: %w", err)
	}

	sr.Report = core.Report{
		TopCategory: core.Category(top),
		Totals:      centsToTotals(cents),
		Insights:    insights,
	}
	return sr, nil
}

func totalsToCents(totals core.CategoryTotals) map[core.Category]int64 {
	out := make(map[core.Category]int64, len(totals))
	for c, m := range totals {
		out[c] = m.Cents
	}
	return out
}

func centsToTotals(cents map[core.Category]int64) core.CategoryTotals {
	out := make(core.CategoryTotals, len(cents))
	for c, v := range cents {
		out[c] = core.Money{Cents: v}
	}
	return out
}
