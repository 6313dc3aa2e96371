package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const transactionColumns = `id, account_id, date, description, reference, amount, is_reconciled,
	matched_invoice_id, matched_bill_id, matched_payment_id, category, created_at`

const ruleColumns = `id, name, account_id, conditions, account_code, tax_rate, is_active, created_at`

// SQLiteStore implements Store on top of a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path. Call
// Migrate before first use.
func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, path: path, logger: logging.OrDefault(logger)}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.BankTransaction, error) {
	var (
		t                           models.BankTransaction
		date, created               string
		ref, invoice, bill, payment sql.NullString
		category                    sql.NullString
	)
	err := row.Scan(&t.ID, &t.AccountID, &date, &t.Description, &ref, &t.Amount, &t.IsReconciled,
		&invoice, &bill, &payment, &category, &created)
	if err != nil {
		return t, err
	}

	if t.Date, err = models.ParseISODate(date); err != nil {
		return t, fmt.Errorf("transaction %s has invalid date %q: %w", t.ID, date, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return t, fmt.Errorf("transaction %s has invalid created_at %q: %w", t.ID, created, err)
	}
	t.Reference = ref.String
	t.MatchedInvoiceID = invoice.String
	t.MatchedBillID = bill.String
	t.MatchedPaymentID = payment.String
	t.Category = category.String
	return t, nil
}

// FetchTransactions lists transactions ordered by date.
func (s *SQLiteStore) FetchTransactions(ctx context.Context, accountID string) ([]models.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions`
	var args []interface{}
	if accountID != "" {
		query += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY date, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.BankTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FetchTransaction returns one transaction or ErrNotFound.
func (s *SQLiteStore) FetchTransaction(ctx context.Context, id string) (models.BankTransaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM bank_transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return t, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ImportTransactions inserts rows as new unreconciled transactions in one
// database transaction. Rows must already be validated.
func (s *SQLiteStore) ImportTransactions(ctx context.Context, accountID string, rows []models.ImportTransactionRow) (models.ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bank_transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL, NULL, NULL, NULL, ?)`)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		t, err := models.NewTransactionBuilder().
			WithAccount(accountID).
			FromImportRow(row).
			Build()
		if err != nil {
			return models.ImportResult{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.AccountID, t.Date.Format(models.DateLayoutISO),
			t.Description, nullString(t.Reference), t.Amount, formatTime(t.CreatedAt)); err != nil {
			return models.ImportResult{}, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}
	s.logger.Debug("Imported transactions",
		logging.F(logging.FieldAccountID, accountID),
		logging.F(logging.FieldCount, len(rows)))
	return models.ImportResult{Imported: len(rows)}, nil
}

func (s *SQLiteStore) execOne(ctx context.Context, what, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// Reconcile marks the transaction reconciled against match and clears the
// other match references.
func (s *SQLiteStore) Reconcile(ctx context.Context, id string, match Match) (models.BankTransaction, error) {
	var invoice, bill, payment sql.NullString
	switch match.EntityType {
	case models.EntityInvoice:
		invoice = nullString(match.EntityID)
	case models.EntityBill:
		bill = nullString(match.EntityID)
	case models.EntityPayment:
		payment = nullString(match.EntityID)
	default:
		return models.BankTransaction{}, fmt.Errorf("unknown match type %q", match.EntityType)
	}

	err := s.execOne(ctx, "reconcile transaction", id, `UPDATE bank_transactions
		SET is_reconciled = 1, matched_invoice_id = ?, matched_bill_id = ?, matched_payment_id = ?,
			category = COALESCE(?, category)
		WHERE id = ?`, invoice, bill, payment, nullString(match.Category), id)
	if err != nil {
		return models.BankTransaction{}, err
	}
	return s.FetchTransaction(ctx, id)
}

// UndoReconcile clears the reconciled flag, every match reference and the
// category in one statement.
func (s *SQLiteStore) UndoReconcile(ctx context.Context, id string) (models.BankTransaction, error) {
	err := s.execOne(ctx, "undo reconciliation", id, `UPDATE bank_transactions
		SET is_reconciled = 0, matched_invoice_id = NULL, matched_bill_id = NULL,
			matched_payment_id = NULL, category = NULL
		WHERE id = ?`, id)
	if err != nil {
		return models.BankTransaction{}, err
	}
	return s.FetchTransaction(ctx, id)
}

// MarkReconciled sets the reconciled flag only.
func (s *SQLiteStore) MarkReconciled(ctx context.Context, id string) error {
	return s.execOne(ctx, "mark transaction reconciled", id,
		`UPDATE bank_transactions SET is_reconciled = 1 WHERE id = ?`, id)
}

// SaveSplit replaces the split lines of a transaction.
func (s *SQLiteStore) SaveSplit(ctx context.Context, id string, lines []models.SplitLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM bank_transactions WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM split_lines WHERE transaction_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear split lines: %w", err)
	}
	for i, l := range lines {
		lineID := l.ID
		if lineID == "" {
			lineID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO split_lines
			(id, transaction_id, position, account_code, amount, tax_rate, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			lineID, id, i, l.AccountCode, l.Amount, nullString(l.TaxRate), nullString(l.Description))
		if err != nil {
			return fmt.Errorf("failed to insert split line %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// SplitLines returns the split lines of a transaction in entry order.
func (s *SQLiteStore) SplitLines(ctx context.Context, id string) ([]models.SplitLine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, account_code, amount, tax_rate, description
		FROM split_lines WHERE transaction_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query split lines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.SplitLine{}
	for rows.Next() {
		var l models.SplitLine
		var tax, desc sql.NullString
		if err := rows.Scan(&l.ID, &l.AccountCode, &l.Amount, &tax, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan split line: %w", err)
		}
		l.TaxRate = tax.String
		l.Description = desc.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateRule inserts a rule. ID and CreatedAt are filled when empty.
func (s *SQLiteStore) CreateRule(ctx context.Context, rule models.BankRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode rule conditions: %w", err)
	}
	var tax decimal.NullDecimal
	if rule.TaxRate != nil {
		tax = decimal.NewNullDecimal(*rule.TaxRate)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO bank_rules (`+ruleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.Name, nullString(rule.AccountID), string(conditions), rule.AccountCode, tax,
		rule.IsActive, formatTime(rule.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}

func scanRule(row rowScanner) (models.BankRule, error) {
	var (
		r          models.BankRule
		accountID  sql.NullString
		conditions string
		tax        decimal.NullDecimal
		created    string
	)
	if err := row.Scan(&r.ID, &r.Name, &accountID, &conditions, &r.AccountCode, &tax, &r.IsActive, &created); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(conditions), &r.Conditions); err != nil {
		return r, fmt.Errorf("rule %s has invalid conditions: %w", r.ID, err)
	}
	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return r, fmt.Errorf("rule %s has invalid created_at %q: %w", r.ID, created, err)
	}
	r.AccountID = accountID.String
	if tax.Valid {
		rate := tax.Decimal
		r.TaxRate = &rate
	}
	return r, nil
}

func (s *SQLiteStore) queryRules(ctx context.Context, where string) ([]models.BankRule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM bank_rules`+where+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.BankRule{}
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Rules lists every rule, oldest first.
func (s *SQLiteStore) Rules(ctx context.Context) ([]models.BankRule, error) {
	return s.queryRules(ctx, "")
}

// ActiveRules lists the active rules, oldest first.
func (s *SQLiteStore) ActiveRules(ctx context.Context) ([]models.BankRule, error) {
	return s.queryRules(ctx, " WHERE is_active = 1")
}

// Rule returns one rule or ErrNotFound.
func (s *SQLiteStore) Rule(ctx context.Context, id string) (models.BankRule, error) {
	r, err := scanRule(s.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM bank_rules WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("failed to get rule: %w", err)
	}
	return r, nil
}

// ApplyRule codes the transaction with accountCode.
func (s *SQLiteStore) ApplyRule(ctx context.Context, transactionID, accountCode string) error {
	return s.execOne(ctx, "apply rule", transactionID,
		`UPDATE bank_transactions SET category = ? WHERE id = ?`, accountCode, transactionID)
}

// SaveOpenItems upserts invoices or bills.
func (s *SQLiteStore) SaveOpenItems(ctx context.Context, entityType string, items []models.OpenItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO open_items
			(id, entity_type, number, contact_name, amount_due, status) VALUES (?, ?, ?, ?, ?, ?)`,
			it.ID, entityType, it.Number, nullString(it.ContactName), it.AmountDue, nullString(it.Status))
		if err != nil {
			return fmt.Errorf("failed to save %s %s: %w", entityType, it.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) openItems(ctx context.Context, entityType string) ([]models.OpenItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, number, contact_name, amount_due, status
		FROM open_items WHERE entity_type = ? ORDER BY number, id`, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to query open items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []models.OpenItem
	for rows.Next() {
		var it models.OpenItem
		var contact, status sql.NullString
		if err := rows.Scan(&it.ID, &it.Number, &contact, &it.AmountDue, &status); err != nil {
			return nil, fmt.Errorf("failed to scan open item: %w", err)
		}
		it.ContactName = contact.String
		it.Status = status.String
		all = append(all, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return EligibleOnly(all), nil
}

// FetchOpenInvoices lists eligible invoices.
func (s *SQLiteStore) FetchOpenInvoices(ctx context.Context) ([]models.OpenItem, error) {
	return s.openItems(ctx, models.EntityInvoice)
}

// FetchOpenBills lists eligible bills.
func (s *SQLiteStore) FetchOpenBills(ctx context.Context) ([]models.OpenItem, error) {
	return s.openItems(ctx, models.EntityBill)
}
