package http

import (
	"encoding/json"
	"net/http"
	"time"

	"spendsense/internal/analysis"
	"spendsense/internal/storage"
)

// insightResponse is one finding on the wire.
type insightResponse struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// reportResponse is the wire shape of an analysis result. Amounts are
// rendered as 2-decimal floats and emotionalSpendingPattern carries the
// composite summary string kept for compatibility with older clients.
type reportResponse struct {
	ReportID                 string             `json:"reportId,omitempty"`
	AccountID                string             `json:"accountId,omitempty"`
	TopCategory              string             `json:"topCategory"`
	SpendingByCategory       map[string]float64 `json:"spendingByCategory"`
	Insights                 []insightResponse  `json:"insights"`
	EmotionalSpendingPattern string             `json:"emotionalSpendingPattern"`
	CreatedAt                *time.Time         `json:"createdAt,omitempty"`
}

type reportListResponse struct {
	Reports []reportResponse `json:"reports"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toReportList(reports []storage.StoredReport) reportListResponse {
	out := reportListResponse{Reports: make([]reportResponse, 0, len(reports))}
	for i := range reports {
		out.Reports = append(out.Reports, toReportResponse(&reports[i]))
	}
	return out
}

func toReportResponse(stored *storage.StoredReport) reportResponse {
	spending := make(map[string]float64, len(stored.Report.Totals))
	for cat, amount := range stored.Report.Totals {
		spending[string(cat)] = amount.Units()
	}

	insights := make([]insightResponse, 0, len(stored.Report.Insights))
	for _, ins := range stored.Report.Insights {
		insights = append(insights, insightResponse{
			Severity: string(ins.Severity),
			Message:  ins.Text,
		})
	}

	resp := reportResponse{
		ReportID:                 stored.ID,
		AccountID:                stored.AccountID,
		TopCategory:              string(stored.Report.TopCategory),
		SpendingByCategory:       spending,
		Insights:                 insights,
		EmotionalSpendingPattern: stored.PatternSummary,
	}
	if resp.EmotionalSpendingPattern == "" {
		resp.EmotionalSpendingPattern = analysis.PatternSummary(stored.Report.Insights)
	}
	if !stored.CreatedAt.IsZero() {
		created := stored.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
