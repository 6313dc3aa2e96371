package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing bank transactions
type TransactionBuilder struct {
	tx  BankTransaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with default values
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: BankTransaction{
			Amount: decimal.Zero,
		},
	}
}

// WithID sets the transaction ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = id
	return b
}

// WithAccount sets the bank account the transaction belongs to
func (b *TransactionBuilder) WithAccount(accountID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.AccountID = accountID
	return b
}

// WithDate sets the date from an ISO string. A time part is accepted and dropped.
func (b *TransactionBuilder) WithDate(dateStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(dateStr) == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	date, err := ParseISODate(dateStr)
	if err != nil {
		b.err = fmt.Errorf("invalid date %q: %w", dateStr, err)
		return b
	}
	b.tx.Date = date
	return b
}

// WithDateFromTime sets the date from a time.Time
func (b *TransactionBuilder) WithDateFromTime(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("date cannot be zero")
		return b
	}
	y, m, d := date.Date()
	b.tx.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return b
}

// WithDescription sets the statement description
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = strings.TrimSpace(description)
	return b
}

// WithReference sets the bank reference
func (b *TransactionBuilder) WithReference(reference string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Reference = strings.TrimSpace(reference)
	return b
}

// WithAmount sets the signed amount
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithAmountFromString sets the signed amount from a string
func (b *TransactionBuilder) WithAmountFromString(amountStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Amount = amount
	return b
}

// FromImportRow copies the fields of a validated import row
func (b *TransactionBuilder) FromImportRow(row ImportTransactionRow) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !row.Amount.Valid {
		b.err = errors.New("import row has no valid amount")
		return b
	}
	return b.WithDate(row.Date).
		WithDescription(row.Description).
		WithReference(row.Reference).
		WithAmount(row.Amount.Decimal)
}

// WithCreatedAt sets the creation timestamp
func (b *TransactionBuilder) WithCreatedAt(createdAt time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.CreatedAt = createdAt
	return b
}

// Build validates and returns the constructed transaction
func (b *TransactionBuilder) Build() (BankTransaction, error) {
	if b.err != nil {
		return BankTransaction{}, b.err
	}

	if b.tx.AccountID == "" {
		return BankTransaction{}, errors.New("account is required")
	}
	if b.tx.Date.IsZero() {
		return BankTransaction{}, errors.New("date is required")
	}
	if b.tx.Description == "" {
		return BankTransaction{}, errors.New("description is required")
	}

	if b.tx.ID == "" {
		b.tx.ID = uuid.New().String()
	}
	if b.tx.CreatedAt.IsZero() {
		b.tx.CreatedAt = time.Now().UTC()
	}
	return b.tx, nil
}

// Clone creates a copy of the current builder state
func (b *TransactionBuilder) Clone() *TransactionBuilder {
	return &TransactionBuilder{tx: b.tx, err: b.err}
}
