package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleCondition is one predicate of a bank rule.
type RuleCondition struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    string `json:"value" yaml:"value"`
}

// BankRule codes matching transactions to an account.
type BankRule struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	AccountID   string           `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Conditions  []RuleCondition  `json:"conditions" yaml:"conditions"`
	AccountCode string           `json:"account_code" yaml:"account_code"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty" yaml:"-"`
	IsActive    bool             `json:"is_active" yaml:"is_active"`
	CreatedAt   time.Time        `json:"created_at" yaml:"-"`
}

// RuleDraft holds the user-supplied fields of a new rule.
type RuleDraft struct {
	Name        string
	AccountID   string
	Conditions  []RuleCondition
	AccountCode string
	TaxRate     *decimal.Decimal
}

// Band is the confidence bucket of an auto-match suggestion.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// AutoMatchSuggestion is a bank rule that matches a transaction.
type AutoMatchSuggestion struct {
	RuleID       string `json:"rule_id"`
	RuleName     string `json:"rule_name"`
	AccountCode  string `json:"account_code"`
	Confidence   int    `json:"confidence"`
	MatchedField string `json:"matched_field"`
}

// BucketedSuggestion is an auto-match suggestion with its band.
type BucketedSuggestion struct {
	AutoMatchSuggestion
	Band Band `json:"band"`
}
