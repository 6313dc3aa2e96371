package models

import "github.com/shopspring/decimal"

// SummaryStatus describes how far an account is from being reconciled.
type SummaryStatus string

const (
	SummaryReconciled  SummaryStatus = "reconciled"
	SummaryPartial     SummaryStatus = "partial"
	SummaryDiscrepancy SummaryStatus = "discrepancy"
)

// DiscrepancyThreshold is the difference above which an account is flagged.
var DiscrepancyThreshold = decimal.NewFromInt(100)

// AccountSummary compares the statement balance with the ledger balance.
type AccountSummary struct {
	AccountID         string          `json:"account_id" csv:"Account"`
	StatementBalance  decimal.Decimal `json:"statement_balance" csv:"-"`
	LedgerBalance     decimal.Decimal `json:"ledger_balance" csv:"-"`
	Difference        decimal.Decimal `json:"difference" csv:"-"`
	ReconciledCount   int             `json:"reconciled_count" csv:"Reconciled"`
	UnreconciledCount int             `json:"unreconciled_count" csv:"Unreconciled"`
}

// Status derives the reconciliation status of the account.
func (s AccountSummary) Status() SummaryStatus {
	diff := s.Difference.Abs()
	if diff.LessThan(Cent) && s.UnreconciledCount == 0 {
		return SummaryReconciled
	}
	if diff.GreaterThan(DiscrepancyThreshold) {
		return SummaryDiscrepancy
	}
	return SummaryPartial
}
