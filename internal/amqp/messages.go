package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisRequestedMessage asks the worker to analyze an account.
// It carries only identifiers, the worker fetches the transactions itself.
type AnalysisRequestedMessage struct {
	RequestID string    `json:"requestId"`
	AccountID string    `json:"accountId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAnalysisRequestedMessage creates a request message with a fresh request ID
func NewAnalysisRequestedMessage(accountID string) *AnalysisRequestedMessage {
	return &AnalysisRequestedMessage{
		RequestID: uuid.NewString(),
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AnalysisRequestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnalysisRequestedMessageFromJSON creates a message from JSON bytes
func AnalysisRequestedMessageFromJSON(data []byte) (*AnalysisRequestedMessage, error) {
	var msg AnalysisRequestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AnalysisCompletedMessage announces a stored report to downstream consumers
type AnalysisCompletedMessage struct {
	ReportID     string    `json:"reportId"`
	AccountID    string    `json:"accountId"`
	TopCategory  string    `json:"topCategory"`
	InsightCount int       `json:"insightCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAnalysisCompletedMessage creates a completion event for a stored report
func NewAnalysisCompletedMessage(reportID, accountID, topCategory string, insightCount int) *AnalysisCompletedMessage {
	return &AnalysisCompletedMessage{
		ReportID:     reportID,
		AccountID:    accountID,
		TopCategory:  topCategory,
		InsightCount: insightCount,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AnalysisCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnalysisCompletedMessageFromJSON creates a message from JSON bytes
func AnalysisCompletedMessageFromJSON(data []byte) (*AnalysisCompletedMessage, error) {
	var msg AnalysisCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
