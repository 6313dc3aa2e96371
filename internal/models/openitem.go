package models

import "github.com/shopspring/decimal"

// OpenItem is an open receivable (invoice) or payable (bill).
type OpenItem struct {
	ID          string          `json:"id" csv:"id" yaml:"id"`
	Number      string          `json:"number" csv:"number" yaml:"number"`
	ContactName string          `json:"contact_name" csv:"contact_name" yaml:"contact_name"`
	AmountDue   decimal.Decimal `json:"amount_due" csv:"amount_due" yaml:"amount_due"`
	Status      string          `json:"status" csv:"status" yaml:"status"`
}

// Eligible reports whether the item can be proposed as a match.
func (o OpenItem) Eligible() bool {
	if !o.AmountDue.IsPositive() {
		return false
	}
	return o.Status != StatusDraft && o.Status != StatusVoided
}

// Label renders "NUMBER - CONTACT".
func (o OpenItem) Label() string {
	return o.Number + " - " + o.ContactName
}
