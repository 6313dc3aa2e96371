// Package reconcile applies reconciliation state changes to bank
// transactions: matching, undo, bulk reconcile, splits and bank rules.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/matching"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/rules"
	"fjacquet/bankrec/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleAmountMargin is the relative margin of the amount range of a rule
// derived from a transaction.
var RuleAmountMargin = decimal.NewFromFloat(0.10)

// ErrInvalidMatch is returned when reconcile parameters do not name a known
// match type and id.
var ErrInvalidMatch = errors.New("invalid match")

// Operations reported in Change.
const (
	OpImport        = "import"
	OpReconcile     = "reconcile"
	OpUndo          = "undo"
	OpBulkReconcile = "bulk-reconcile"
	OpSplit         = "split"
	OpApplyRule     = "apply-rule"
)

// Change tells listeners that cached views of these transactions are stale.
type Change struct {
	Operation      string
	AccountID      string
	TransactionIDs []string
}

// ReconcileParams describes the match being accepted.
type ReconcileParams struct {
	MatchType      string
	MatchID        string
	MatchReference string
	Amount         decimal.Decimal
	Date           string
}

// Service orchestrates the reconciliation workflow over the store
// collaborators.
type Service struct {
	transactions store.TransactionSource
	openItems    store.OpenBalanceSource
	imports      store.ImportSink
	sink         store.ReconciliationSink
	rules        store.RuleSink

	logger          logging.Logger
	onChange        func(Change)
	suggestionLimit int
}

// NewService creates a service backed by st.
func NewService(st store.Store, logger logging.Logger) *Service {
	return &Service{
		transactions:    st,
		openItems:       st,
		imports:         st,
		sink:            st,
		rules:           st,
		logger:          logging.OrDefault(logger),
		suggestionLimit: matching.DefaultSuggestionLimit,
	}
}

// SetOpenItems replaces the source of open invoices and bills.
func (s *Service) SetOpenItems(src store.OpenBalanceSource) {
	if src != nil {
		s.openItems = src
	}
}

// SetOnChange registers the listener called after every successful mutation.
func (s *Service) SetOnChange(fn func(Change)) {
	s.onChange = fn
}

// SetSuggestionLimit caps the ranked suggestion list.
func (s *Service) SetSuggestionLimit(n int) {
	if n > 0 {
		s.suggestionLimit = n
	}
}

func (s *Service) notify(c Change) {
	if s.onChange != nil {
		s.onChange(c)
	}
}

// Import validates rows and persists the valid ones. Row errors are returned
// in the result and do not fail the import.
func (s *Service) Import(ctx context.Context, accountID string, rows []models.ImportTransactionRow) (models.ImportResult, error) {
	if strings.TrimSpace(accountID) == "" {
		return models.ImportResult{}, errors.New("account id is required")
	}
	validation := csvimport.ValidateRows(rows)
	result := models.ImportResult{Errors: validation.Errors}
	for _, msg := range validation.Errors {
		s.logger.Warn("Skipping invalid row",
			logging.F(logging.FieldAccountID, accountID),
			logging.F(logging.FieldReason, msg))
	}
	if len(validation.Valid) == 0 {
		return result, nil
	}

	res, err := s.imports.ImportTransactions(ctx, accountID, validation.Valid)
	if err != nil {
		return result, fmt.Errorf("import into %s: %w", accountID, err)
	}
	result.Imported = res.Imported

	s.logger.Info("Imported transactions",
		logging.F(logging.FieldAccountID, accountID),
		logging.F(logging.FieldCount, result.Imported),
		logging.F(logging.FieldFailed, len(result.Errors)))
	s.notify(Change{Operation: OpImport, AccountID: accountID})
	return result, nil
}

// Transactions lists the transactions of an account, or of all accounts.
func (s *Service) Transactions(ctx context.Context, accountID string) ([]models.BankTransaction, error) {
	return s.transactions.FetchTransactions(ctx, accountID)
}

func (s *Service) openBalances(ctx context.Context) (invoices, bills []models.OpenItem, err error) {
	if invoices, err = s.openItems.FetchOpenInvoices(ctx); err != nil {
		return nil, nil, fmt.Errorf("fetch open invoices: %w", err)
	}
	if bills, err = s.openItems.FetchOpenBills(ctx); err != nil {
		return nil, nil, fmt.Errorf("fetch open bills: %w", err)
	}
	return invoices, bills, nil
}

// MatchCandidates runs the rule based candidate engine for a transaction.
func (s *Service) MatchCandidates(ctx context.Context, id string) ([]models.MatchCandidate, error) {
	tx, err := s.transactions.FetchTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.IsReconciled {
		return []models.MatchCandidate{}, nil
	}
	invoices, bills, err := s.openBalances(ctx)
	if err != nil {
		return nil, err
	}
	return matching.FindMatches(matching.InputFrom(tx), invoices, bills), nil
}

// Suggestions ranks open items for a transaction on the 0-1 scale.
func (s *Service) Suggestions(ctx context.Context, id string) ([]models.RankedSuggestion, error) {
	tx, err := s.transactions.FetchTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	invoices, bills, err := s.openBalances(ctx)
	if err != nil {
		return nil, err
	}
	return matching.SuggestionsForTransaction(tx, invoices, bills, s.suggestionLimit), nil
}

// SuggestionsForAmount ranks open items against a bare amount.
func (s *Service) SuggestionsForAmount(ctx context.Context, amount decimal.Decimal) ([]models.RankedSuggestion, error) {
	invoices, bills, err := s.openBalances(ctx)
	if err != nil {
		return nil, err
	}
	return matching.SuggestionsForAmount(amount, invoices, bills), nil
}

func validMatchType(t string) bool {
	return t == models.EntityInvoice || t == models.EntityBill || t == models.EntityPayment
}

// Reconcile marks a transaction reconciled against one invoice, bill or
// payment. The reference, when given, becomes the coding category.
func (s *Service) Reconcile(ctx context.Context, id string, p ReconcileParams) (models.BankTransaction, error) {
	if !validMatchType(p.MatchType) {
		return models.BankTransaction{}, fmt.Errorf("%w: unknown match type %q", ErrInvalidMatch, p.MatchType)
	}
	if strings.TrimSpace(p.MatchID) == "" {
		return models.BankTransaction{}, fmt.Errorf("%w: match id is required", ErrInvalidMatch)
	}

	tx, err := s.sink.Reconcile(ctx, id, store.Match{
		EntityType: p.MatchType,
		EntityID:   p.MatchID,
		Category:   p.MatchReference,
	})
	if err != nil {
		return models.BankTransaction{}, err
	}

	s.logger.Info("Reconciled transaction",
		logging.F(logging.FieldTransactionID, id),
		logging.F(logging.FieldEntityType, p.MatchType),
		logging.F(logging.FieldEntityID, p.MatchID))
	s.notify(Change{Operation: OpReconcile, AccountID: tx.AccountID, TransactionIDs: []string{id}})
	return tx, nil
}

// Undo clears the reconciliation state of a transaction.
func (s *Service) Undo(ctx context.Context, id string) (models.BankTransaction, error) {
	tx, err := s.sink.UndoReconcile(ctx, id)
	if err != nil {
		return models.BankTransaction{}, err
	}
	s.logger.Info("Undid reconciliation", logging.F(logging.FieldTransactionID, id))
	s.notify(Change{Operation: OpUndo, AccountID: tx.AccountID, TransactionIDs: []string{id}})
	return tx, nil
}

// BulkReconcile marks each transaction reconciled in turn. Missing or already
// reconciled transactions and store failures are counted, never fatal.
func (s *Service) BulkReconcile(ctx context.Context, ids []string) models.BulkResult {
	var result models.BulkResult
	var done []string
	for _, id := range ids {
		log := s.logger.WithField(logging.FieldTransactionID, id)

		tx, err := s.transactions.FetchTransaction(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Bulk reconcile failed")
			result.Failed++
			continue
		}
		if tx.IsReconciled {
			log.Warn("Bulk reconcile skipped", logging.F(logging.FieldReason, "already reconciled"))
			result.Failed++
			continue
		}
		if err := s.sink.MarkReconciled(ctx, id); err != nil {
			log.WithError(err).Warn("Bulk reconcile failed")
			result.Failed++
			continue
		}
		result.Reconciled++
		done = append(done, id)
	}

	s.logger.Info("Bulk reconcile finished",
		logging.F(logging.FieldCount, result.Reconciled),
		logging.F(logging.FieldFailed, result.Failed))
	if len(done) > 0 {
		s.notify(Change{Operation: OpBulkReconcile, TransactionIDs: done})
	}
	return result
}

// Split validates lines against the stored amount and replaces the split of
// the transaction. Reconciliation state is left untouched.
func (s *Service) Split(ctx context.Context, id string, lines []models.SplitLine) error {
	tx, err := s.transactions.FetchTransaction(ctx, id)
	if err != nil {
		return err
	}
	if msg := ValidateSplitTotal(lines, tx.Amount); msg != "" {
		return &SplitError{Message: msg}
	}
	if err := s.sink.SaveSplit(ctx, id, lines); err != nil {
		return err
	}
	s.logger.Info("Split transaction",
		logging.F(logging.FieldTransactionID, id),
		logging.F(logging.FieldCount, len(lines)))
	s.notify(Change{Operation: OpSplit, AccountID: tx.AccountID, TransactionIDs: []string{id}})
	return nil
}

// GenerateRuleConditions pre-fills the conditions of a rule created from tx:
// the description, the amount within RuleAmountMargin and the reference when
// there is one.
func GenerateRuleConditions(tx models.BankTransaction) []models.RuleCondition {
	low := tx.Amount.Mul(decimal.NewFromInt(1).Sub(RuleAmountMargin))
	high := tx.Amount.Mul(decimal.NewFromInt(1).Add(RuleAmountMargin))

	conds := []models.RuleCondition{
		{Field: models.FieldDescription, Operator: models.OperatorContains, Value: tx.Description},
		{Field: models.FieldAmount, Operator: models.OperatorBetween, Value: rules.FormatBetween(low, high)},
	}
	if tx.Reference != "" {
		conds = append(conds, models.RuleCondition{
			Field: models.FieldReference, Operator: models.OperatorContains, Value: tx.Reference,
		})
	}
	return conds
}

// CreateRule validates and stores a new active rule.
func (s *Service) CreateRule(ctx context.Context, draft models.RuleDraft) (models.BankRule, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return models.BankRule{}, errors.New("rule name is required")
	}
	if strings.TrimSpace(draft.AccountCode) == "" {
		return models.BankRule{}, errors.New("rule account code is required")
	}
	if err := rules.ValidateConditions(draft.Conditions); err != nil {
		return models.BankRule{}, err
	}

	rule := models.BankRule{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(draft.Name),
		AccountID:   draft.AccountID,
		Conditions:  draft.Conditions,
		AccountCode: strings.TrimSpace(draft.AccountCode),
		TaxRate:     draft.TaxRate,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.rules.CreateRule(ctx, rule); err != nil {
		return models.BankRule{}, fmt.Errorf("create rule: %w", err)
	}
	s.logger.Info("Created rule",
		logging.F(logging.FieldRuleID, rule.ID),
		logging.F("name", rule.Name))
	return rule, nil
}

// Rules lists every stored rule.
func (s *Service) Rules(ctx context.Context) ([]models.BankRule, error) {
	return s.rules.Rules(ctx)
}

// ApplyRule codes a transaction with the account code of a rule without
// reconciling it.
func (s *Service) ApplyRule(ctx context.Context, transactionID, ruleID string) error {
	rule, err := s.rules.Rule(ctx, ruleID)
	if err != nil {
		return err
	}
	if err := s.rules.ApplyRule(ctx, transactionID, rule.AccountCode); err != nil {
		return err
	}
	s.logger.Info("Applied rule",
		logging.F(logging.FieldTransactionID, transactionID),
		logging.F(logging.FieldRuleID, ruleID))
	s.notify(Change{Operation: OpApplyRule, TransactionIDs: []string{transactionID}})
	return nil
}

// AutoMatchSuggestions evaluates the active rules against a transaction.
func (s *Service) AutoMatchSuggestions(ctx context.Context, transactionID string) ([]models.AutoMatchSuggestion, error) {
	tx, err := s.transactions.FetchTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	active, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active rules: %w", err)
	}
	return rules.Suggest(active, tx), nil
}

// Summaries compares the statement balance of each account with its ledger
// balance. Accounts missing from ledger compare against zero.
func (s *Service) Summaries(ctx context.Context, ledger map[string]decimal.Decimal) ([]models.AccountSummary, error) {
	txs, err := s.transactions.FetchTransactions(ctx, "")
	if err != nil {
		return nil, err
	}

	byAccount := make(map[string]*models.AccountSummary)
	for _, tx := range txs {
		sum, ok := byAccount[tx.AccountID]
		if !ok {
			sum = &models.AccountSummary{AccountID: tx.AccountID}
			byAccount[tx.AccountID] = sum
		}
		sum.StatementBalance = sum.StatementBalance.Add(tx.Amount)
		if tx.IsReconciled {
			sum.ReconciledCount++
		} else {
			sum.UnreconciledCount++
		}
	}
	for accountID := range ledger {
		if _, ok := byAccount[accountID]; !ok {
			byAccount[accountID] = &models.AccountSummary{AccountID: accountID}
		}
	}

	out := make([]models.AccountSummary, 0, len(byAccount))
	for accountID, sum := range byAccount {
		sum.LedgerBalance = ledger[accountID]
		sum.Difference = sum.StatementBalance.Sub(sum.LedgerBalance)
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}
