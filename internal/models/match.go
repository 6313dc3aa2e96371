package models

import "github.com/shopspring/decimal"

// Confidence is the discrete quality of a match candidate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences so that lower is better.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// MatchCandidate proposes one open item for a bank transaction.
type MatchCandidate struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Confidence Confidence      `json:"confidence"`
	Reason     string          `json:"reason"`
}

// RankedSuggestion is a numerically scored match proposal in [0, 1].
type RankedSuggestion struct {
	EntityType string          `json:"type"`
	EntityID   string          `json:"id"`
	Reference  string          `json:"reference"`
	Contact    string          `json:"contact"`
	Amount     decimal.Decimal `json:"amount"`
	Confidence float64         `json:"confidence"`
}
