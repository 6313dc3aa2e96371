// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/parser"

	"github.com/shopspring/decimal"
)

// ReadStatementFile reads a bank export with r.
func ReadStatementFile(r parser.Reader, path string, log logging.Logger) ([]models.ImportTransactionRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := r.Read(file)
	if err != nil {
		return nil, err
	}
	log.Info("Read statement",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput returns a writer for path, or stdout when path is empty.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, nil
}

// ParseSplitLine reads "ACCOUNT:AMOUNT[:TAX[:DESCRIPTION]]".
func ParseSplitLine(s string) (models.SplitLine, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 2 {
		return models.SplitLine{}, fmt.Errorf("split line %q must be ACCOUNT:AMOUNT[:TAX[:DESCRIPTION]]", s)
	}
	amount, err := models.ParseAmount(parts[1])
	if err != nil {
		return models.SplitLine{}, fmt.Errorf("split line %q: %w", s, err)
	}
	line := models.SplitLine{AccountCode: strings.TrimSpace(parts[0]), Amount: amount}
	if len(parts) > 2 {
		line.TaxRate = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		line.Description = strings.TrimSpace(parts[3])
	}
	return line, nil
}

// ParseLedgerBalances reads "ACCOUNT=BALANCE" pairs.
func ParseLedgerBalances(pairs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(pairs))
	for _, p := range pairs {
		account, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(account) == "" {
			return nil, fmt.Errorf("ledger balance %q must be ACCOUNT=BALANCE", p)
		}
		amount, err := models.ParseAmount(value)
		if err != nil {
			return nil, fmt.Errorf("ledger balance %q: %w", p, err)
		}
		out[strings.TrimSpace(account)] = amount
	}
	return out, nil
}

// PrintRows writes a preview of import rows, one per line.
func PrintRows(w io.Writer, rows []models.ImportTransactionRow) {
	for i, r := range rows {
		amount := "invalid"
		if r.Amount.Valid {
			amount = models.FormatAmount(r.Amount.Decimal)
		}
		line := fmt.Sprintf("%3d  %-10s  %12s  %s", i+1, r.Date, amount, r.Description)
		if r.Reference != "" {
			line += "  [" + r.Reference + "]"
		}
		fmt.Fprintln(w, line)
	}
}
