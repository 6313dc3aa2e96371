// Package store holds the persistence collaborators of the reconciliation
// core: the interfaces the services depend on and their SQLite, CSV and YAML
// implementations.
package store

import (
	"context"
	"errors"

	"fjacquet/bankrec/internal/models"
)

// ErrNotFound is returned when a transaction or rule id is unknown.
var ErrNotFound = errors.New("not found")

// Match is the target a transaction is reconciled against.
type Match struct {
	EntityType string
	EntityID   string
	// Category is written as the coding category when not empty.
	Category string
}

// TransactionSource reads persisted bank transactions.
type TransactionSource interface {
	// FetchTransactions lists the transactions of accountID, or of every
	// account when accountID is empty, oldest first.
	FetchTransactions(ctx context.Context, accountID string) ([]models.BankTransaction, error)
	FetchTransaction(ctx context.Context, id string) (models.BankTransaction, error)
}

// OpenBalanceSource lists open receivables and payables. Implementations
// exclude draft and voided items and those with nothing left to pay.
type OpenBalanceSource interface {
	FetchOpenInvoices(ctx context.Context) ([]models.OpenItem, error)
	FetchOpenBills(ctx context.Context) ([]models.OpenItem, error)
}

// ImportSink persists validated statement rows.
type ImportSink interface {
	ImportTransactions(ctx context.Context, accountID string, rows []models.ImportTransactionRow) (models.ImportResult, error)
}

// ReconciliationSink applies reconciliation state changes.
type ReconciliationSink interface {
	Reconcile(ctx context.Context, id string, match Match) (models.BankTransaction, error)
	UndoReconcile(ctx context.Context, id string) (models.BankTransaction, error)
	MarkReconciled(ctx context.Context, id string) error
	// SaveSplit replaces the split lines of a transaction.
	SaveSplit(ctx context.Context, id string, lines []models.SplitLine) error
	SplitLines(ctx context.Context, id string) ([]models.SplitLine, error)
}

// RuleSink stores bank rules and codes transactions with them.
type RuleSink interface {
	CreateRule(ctx context.Context, rule models.BankRule) error
	Rules(ctx context.Context) ([]models.BankRule, error)
	ActiveRules(ctx context.Context) ([]models.BankRule, error)
	Rule(ctx context.Context, id string) (models.BankRule, error)
	// ApplyRule sets the coding category of a transaction without
	// reconciling it.
	ApplyRule(ctx context.Context, transactionID, accountCode string) error
}

// Store is everything the reconciliation service needs.
type Store interface {
	TransactionSource
	OpenBalanceSource
	ImportSink
	ReconciliationSink
	RuleSink
}

// EligibleOnly filters out items that cannot be matched.
func EligibleOnly(items []models.OpenItem) []models.OpenItem {
	out := make([]models.OpenItem, 0, len(items))
	for _, it := range items {
		if it.Eligible() {
			out = append(out, it)
		}
	}
	return out
}
