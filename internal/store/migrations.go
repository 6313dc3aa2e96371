package store

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/bankrec/internal/logging"
)

// SchemaVersion is the schema version this build expects.
const SchemaVersion = 2

type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Bank transactions and split lines",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS bank_transactions (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					reference TEXT,
					amount TEXT NOT NULL,
					is_reconciled INTEGER NOT NULL DEFAULT 0,
					matched_invoice_id TEXT,
					matched_bill_id TEXT,
					matched_payment_id TEXT,
					category TEXT,
					created_at TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_bank_transactions_account ON bank_transactions(account_id, date)`,
				`CREATE TABLE IF NOT EXISTS split_lines (
					id TEXT PRIMARY KEY,
					transaction_id TEXT NOT NULL REFERENCES bank_transactions(id),
					position INTEGER NOT NULL,
					account_code TEXT NOT NULL,
					amount TEXT NOT NULL,
					tax_rate TEXT,
					description TEXT
				)`,
				`CREATE INDEX IF NOT EXISTS idx_split_lines_transaction ON split_lines(transaction_id)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Bank rules and open items",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS bank_rules (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					account_id TEXT,
					conditions TEXT NOT NULL,
					account_code TEXT NOT NULL,
					tax_rate TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS open_items (
					id TEXT NOT NULL,
					entity_type TEXT NOT NULL,
					number TEXT NOT NULL,
					contact_name TEXT,
					amount_due TEXT NOT NULL,
					status TEXT,
					PRIMARY KEY (entity_type, id)
				)`,
			})
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		s.logger.Info("Applied migration",
			logging.F("version", m.Version),
			logging.F("description", m.Description))
	}

	var final int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&final); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if final != SchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", SchemaVersion, final)
	}
	return nil
}
