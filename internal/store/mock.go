package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fjacquet/bankrec/internal/models"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store for tests. The *Error fields make the
// matching operation fail.
type MockStore struct {
	mu           sync.Mutex
	Transactions map[string]models.BankTransaction
	Splits       map[string][]models.SplitLine
	BankRules    []models.BankRule
	Invoices     []models.OpenItem
	Bills        []models.OpenItem

	FetchError     error
	ImportError    error
	ReconcileError error
	SplitError     error
	RuleError      error
	OpenItemsError error
}

// NewMockStore seeds a store with transactions.
func NewMockStore(txs ...models.BankTransaction) *MockStore {
	m := &MockStore{
		Transactions: make(map[string]models.BankTransaction),
		Splits:       make(map[string][]models.SplitLine),
	}
	for _, t := range txs {
		m.Transactions[t.ID] = t
	}
	return m
}

func (m *MockStore) get(id string) (models.BankTransaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return t, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// FetchTransactions returns stored transactions ordered by date then id.
func (m *MockStore) FetchTransactions(_ context.Context, accountID string) ([]models.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	out := []models.BankTransaction{}
	for _, t := range m.Transactions {
		if accountID == "" || t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FetchTransaction returns one transaction.
func (m *MockStore) FetchTransaction(_ context.Context, id string) (models.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchError != nil {
		return models.BankTransaction{}, m.FetchError
	}
	return m.get(id)
}

// ImportTransactions stores rows as new transactions.
func (m *MockStore) ImportTransactions(_ context.Context, accountID string, rows []models.ImportTransactionRow) (models.ImportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportError != nil {
		return models.ImportResult{}, m.ImportError
	}
	for i, row := range rows {
		t, err := models.NewTransactionBuilder().WithAccount(accountID).FromImportRow(row).Build()
		if err != nil {
			return models.ImportResult{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		m.Transactions[t.ID] = t
	}
	return models.ImportResult{Imported: len(rows)}, nil
}

// Reconcile applies match to the transaction.
func (m *MockStore) Reconcile(_ context.Context, id string, match Match) (models.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReconcileError != nil {
		return models.BankTransaction{}, m.ReconcileError
	}
	t, err := m.get(id)
	if err != nil {
		return t, err
	}
	t.MatchedInvoiceID, t.MatchedBillID, t.MatchedPaymentID = "", "", ""
	switch match.EntityType {
	case models.EntityInvoice:
		t.MatchedInvoiceID = match.EntityID
	case models.EntityBill:
		t.MatchedBillID = match.EntityID
	case models.EntityPayment:
		t.MatchedPaymentID = match.EntityID
	default:
		return models.BankTransaction{}, fmt.Errorf("unknown match type %q", match.EntityType)
	}
	t.IsReconciled = true
	if match.Category != "" {
		t.Category = match.Category
	}
	m.Transactions[id] = t
	return t, nil
}

// UndoReconcile clears the reconciliation state.
func (m *MockStore) UndoReconcile(_ context.Context, id string) (models.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReconcileError != nil {
		return models.BankTransaction{}, m.ReconcileError
	}
	t, err := m.get(id)
	if err != nil {
		return t, err
	}
	t.IsReconciled = false
	t.MatchedInvoiceID, t.MatchedBillID, t.MatchedPaymentID, t.Category = "", "", "", ""
	m.Transactions[id] = t
	return t, nil
}

// MarkReconciled sets the reconciled flag.
func (m *MockStore) MarkReconciled(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReconcileError != nil {
		return m.ReconcileError
	}
	t, err := m.get(id)
	if err != nil {
		return err
	}
	t.IsReconciled = true
	m.Transactions[id] = t
	return nil
}

// SaveSplit replaces the split lines.
func (m *MockStore) SaveSplit(_ context.Context, id string, lines []models.SplitLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SplitError != nil {
		return m.SplitError
	}
	if _, err := m.get(id); err != nil {
		return err
	}
	m.Splits[id] = append([]models.SplitLine(nil), lines...)
	return nil
}

// SplitLines returns the saved split lines.
func (m *MockStore) SplitLines(_ context.Context, id string) ([]models.SplitLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SplitLine{}, m.Splits[id]...), nil
}

// CreateRule appends a rule.
func (m *MockStore) CreateRule(_ context.Context, rule models.BankRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RuleError != nil {
		return m.RuleError
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	m.BankRules = append(m.BankRules, rule)
	return nil
}

// Rules returns every rule.
func (m *MockStore) Rules(_ context.Context) ([]models.BankRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RuleError != nil {
		return nil, m.RuleError
	}
	return append([]models.BankRule{}, m.BankRules...), nil
}

// ActiveRules returns the active rules.
func (m *MockStore) ActiveRules(_ context.Context) ([]models.BankRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RuleError != nil {
		return nil, m.RuleError
	}
	out := []models.BankRule{}
	for _, r := range m.BankRules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

// Rule returns a rule by id.
func (m *MockStore) Rule(_ context.Context, id string) (models.BankRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RuleError != nil {
		return models.BankRule{}, m.RuleError
	}
	for _, r := range m.BankRules {
		if r.ID == id {
			return r, nil
		}
	}
	return models.BankRule{}, fmt.Errorf("rule %s: %w", id, ErrNotFound)
}

// ApplyRule sets the category of a transaction.
func (m *MockStore) ApplyRule(_ context.Context, transactionID, accountCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RuleError != nil {
		return m.RuleError
	}
	t, err := m.get(transactionID)
	if err != nil {
		return err
	}
	t.Category = accountCode
	m.Transactions[transactionID] = t
	return nil
}

// FetchOpenInvoices returns the eligible invoices.
func (m *MockStore) FetchOpenInvoices(_ context.Context) ([]models.OpenItem, error) {
	if m.OpenItemsError != nil {
		return nil, m.OpenItemsError
	}
	return EligibleOnly(m.Invoices), nil
}

// FetchOpenBills returns the eligible bills.
func (m *MockStore) FetchOpenBills(_ context.Context) ([]models.OpenItem, error) {
	if m.OpenItemsError != nil {
		return nil, m.OpenItemsError
	}
	return EligibleOnly(m.Bills), nil
}
