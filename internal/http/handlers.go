package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	applog "spendsense/internal/log"
	"spendsense/internal/services"
	"spendsense/internal/source"
)

// analyzeRequest is the body of POST /analyze: a raw transaction batch,
// optionally tagged with the account it belongs to.
type analyzeRequest struct {
	AccountID    string          `json:"accountId"`
	Transactions []source.Record `json:"transactions"`
}

// handleAnalyze analyzes a batch supplied directly in the request body.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	txs, err := source.Transactions(req.Transactions)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid transaction batch: %v", err))
		return
	}

	stored, err := s.service.AnalyzeBatch(r.Context(), req.AccountID, txs)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "batch analysis failed",
			applog.FieldAccountID, req.AccountID,
			applog.FieldBatchSize, len(txs),
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.invalidateReports(req.AccountID)
	writeJSON(w, http.StatusOK, toReportResponse(stored))
}

// handleAnalyzeAccount pulls an account's transactions from the configured
// source and analyzes them. With ?async=true the request is queued for the
// worker instead.
func (s *Server) handleAnalyzeAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if strings.TrimSpace(accountID) == "" {
		writeError(w, http.StatusBadRequest, "account id is required")
		return
	}

	if r.URL.Query().Get("async") == "true" {
		if err := s.service.RequestAnalysis(r.Context(), accountID); err != nil {
			if errors.Is(err, services.ErrAsyncDisabled) {
				writeError(w, http.StatusConflict, "async analysis is not configured")
				return
			}
			s.logger.ErrorContext(r.Context(), "failed to queue analysis",
				applog.FieldAccountID, accountID, applog.FieldError, err)
			writeError(w, http.StatusInternalServerError, "failed to queue analysis")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"accountId": accountID, "status": "queued"})
		return
	}

	stored, err := s.service.AnalyzeAccount(r.Context(), accountID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "account analysis failed",
			applog.FieldAccountID, accountID, applog.FieldError, err)
		writeError(w, http.StatusBadGateway, "failed to analyze account")
		return
	}

	s.invalidateReports(accountID)
	writeJSON(w, http.StatusOK, toReportResponse(stored))
}

// handleRecentReports lists archived reports for an account, newest first.
func (s *Server) handleRecentReports(w http.ResponseWriter, r *http.Request) {
	accountID := strings.TrimSpace(r.URL.Query().Get("accountId"))
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "accountId query parameter is required")
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if limit == defaultRecentLimit {
		if cached, ok := s.reportCache.Get(accountID); ok {
			writeJSON(w, http.StatusOK, toReportList(cached))
			return
		}
	}

	reports, err := s.service.RecentReports(r.Context(), accountID, limit)
	if err != nil {
		if errors.Is(err, services.ErrArchiveDisabled) {
			writeError(w, http.StatusConflict, "report archive is not configured")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to list reports",
			applog.FieldAccountID, accountID, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	if limit == defaultRecentLimit {
		s.reportCache.Set(accountID, reports)
	}

	writeJSON(w, http.StatusOK, toReportList(reports))
}

func (s *Server) invalidateReports(accountID string) {
	if accountID != "" {
		s.reportCache.Delete(accountID)
	}
}
