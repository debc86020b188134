package amqp

import (
	"testing"
	"time"
)

func TestNewAnalysisRequestedMessage(t *testing.T) {
	msg := NewAnalysisRequestedMessage("acct-1")

	if msg.AccountID != "acct-1" {
		t.Errorf("AccountID = %v, want acct-1", msg.AccountID)
	}
	if msg.RequestID == "" {
		t.Error("RequestID should not be empty")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}

	other := NewAnalysisRequestedMessage("acct-1")
	if other.RequestID == msg.RequestID {
		t.Error("RequestID should be unique per message")
	}
}

func TestAnalysisRequestedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &AnalysisRequestedMessage{
		RequestID: "req-123",
		AccountID: "acct-9",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := AnalysisRequestedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AnalysisRequestedMessageFromJSON() error = %v", err)
	}

	if parsed.RequestID != msg.RequestID {
		t.Errorf("Parsed RequestID = %v, want %v", parsed.RequestID, msg.RequestID)
	}
	if parsed.AccountID != msg.AccountID {
		t.Errorf("Parsed AccountID = %v, want %v", parsed.AccountID, msg.AccountID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestAnalysisCompletedMessage_JSON(t *testing.T) {
	msg := NewAnalysisCompletedMessage("rep-1", "acct-2", "Dining", 3)

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := AnalysisCompletedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AnalysisCompletedMessageFromJSON() error = %v", err)
	}

	if parsed.ReportID != "rep-1" {
		t.Errorf("Parsed ReportID = %v, want rep-1", parsed.ReportID)
	}
	if parsed.AccountID != "acct-2" {
		t.Errorf("Parsed AccountID = %v, want acct-2", parsed.AccountID)
	}
	if parsed.TopCategory != "Dining" {
		t.Errorf("Parsed TopCategory = %v, want Dining", parsed.TopCategory)
	}
	if parsed.InsightCount != 3 {
		t.Errorf("Parsed InsightCount = %v, want 3", parsed.InsightCount)
	}
}

func TestAnalysisRequestedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"requestId": 42, "accountId": true}`)

	_, err := AnalysisRequestedMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("AnalysisRequestedMessageFromJSON() should fail with invalid JSON")
	}
}

func TestCompletedQueueName(t *testing.T) {
	if got := CompletedQueueName("analysis_requests"); got != "analysis_requests.completed" {
		t.Errorf("CompletedQueueName() = %v, want analysis_requests.completed", got)
	}
}
