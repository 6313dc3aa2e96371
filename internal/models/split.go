package models

import "github.com/shopspring/decimal"

// SplitLine allocates part of a transaction to an account code.
type SplitLine struct {
	ID          string          `json:"id,omitempty"`
	AccountCode string          `json:"account_code"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     string          `json:"tax_rate,omitempty"`
	Description string          `json:"description,omitempty"`
}
