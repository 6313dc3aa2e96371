// Package models defines the data structures shared by the import, matching
// and reconciliation packages.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayoutISO is the canonical date layout of imported rows.
const DateLayoutISO = "2006-01-02"

// ColumnMapping assigns field roles to zero-based column indices.
// When Debit or Credit is set the amount is derived as credit - debit and
// Amount is ignored.
type ColumnMapping struct {
	Date        int  `json:"date" yaml:"date"`
	Description int  `json:"description" yaml:"description"`
	Amount      int  `json:"amount" yaml:"amount"`
	Reference   *int `json:"reference,omitempty" yaml:"reference,omitempty"`
	Debit       *int `json:"debit,omitempty" yaml:"debit,omitempty"`
	Credit      *int `json:"credit,omitempty" yaml:"credit,omitempty"`
}

// DefaultColumnMapping is used for header-less files.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{Date: 0, Description: 1, Amount: 2}
}

// HasDebitCredit reports whether the amount comes from separate columns.
func (m ColumnMapping) HasDebitCredit() bool {
	return m.Debit != nil || m.Credit != nil
}

// ImportTransactionRow is one normalized statement line.
// Amount.Valid is false when the source amount could not be read as a number.
type ImportTransactionRow struct {
	Date        string              `json:"date" csv:"Date"`
	Description string              `json:"description" csv:"Description"`
	Amount      decimal.NullDecimal `json:"amount" csv:"-"`
	Reference   string              `json:"reference,omitempty" csv:"Reference"`
}

// NewImportRow builds a row with a valid amount.
func NewImportRow(date, description string, amount decimal.Decimal, reference string) ImportTransactionRow {
	return ImportTransactionRow{
		Date:        date,
		Description: description,
		Amount:      decimal.NewNullDecimal(amount),
		Reference:   reference,
	}
}

// BankTransaction is a persisted statement line.
type BankTransaction struct {
	ID               string          `json:"id" csv:"ID"`
	AccountID        string          `json:"account_id" csv:"Account"`
	Date             time.Time       `json:"date" csv:"-"`
	Description      string          `json:"description" csv:"Description"`
	Reference        string          `json:"reference,omitempty" csv:"Reference"`
	Amount           decimal.Decimal `json:"amount" csv:"-"`
	IsReconciled     bool            `json:"is_reconciled" csv:"Reconciled"`
	MatchedInvoiceID string          `json:"matched_invoice_id,omitempty" csv:"Invoice"`
	MatchedBillID    string          `json:"matched_bill_id,omitempty" csv:"Bill"`
	MatchedPaymentID string          `json:"matched_payment_id,omitempty" csv:"Payment"`
	Category         string          `json:"category,omitempty" csv:"Category"`
	CreatedAt        time.Time       `json:"created_at" csv:"-"`
}

// IsInflow reports whether money came into the account.
func (t BankTransaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// MatchRef returns the entity type and id the transaction is matched to.
// ok is false unless exactly one match reference is set.
func (t BankTransaction) MatchRef() (entityType, id string, ok bool) {
	count := 0
	if t.MatchedInvoiceID != "" {
		entityType, id = EntityInvoice, t.MatchedInvoiceID
		count++
	}
	if t.MatchedBillID != "" {
		entityType, id = EntityBill, t.MatchedBillID
		count++
	}
	if t.MatchedPaymentID != "" {
		entityType, id = EntityPayment, t.MatchedPaymentID
		count++
	}
	if count != 1 {
		return "", "", false
	}
	return entityType, id, true
}

// IsMatched reports whether the transaction is reconciled against exactly one
// invoice, bill or payment.
func (t BankTransaction) IsMatched() bool {
	_, _, ok := t.MatchRef()
	return ok && t.IsReconciled
}

// ImportResult is returned by an import sink.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// BulkResult is returned by bulk reconciliation.
type BulkResult struct {
	Reconciled int `json:"reconciled"`
	Failed     int `json:"failed"`
}
