// Package report renders transactions and account summaries as CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"

	"github.com/gocarina/gocsv"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

type transactionRow struct {
	ID          string `csv:"ID"`
	AccountID   string `csv:"Account"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Reference   string `csv:"Reference"`
	Amount      string `csv:"Amount"`
	Reconciled  bool   `csv:"Reconciled"`
	MatchType   string `csv:"MatchType"`
	MatchID     string `csv:"MatchID"`
	Category    string `csv:"Category"`
}

type summaryRow struct {
	AccountID         string `csv:"Account"`
	StatementBalance  string `csv:"StatementBalance"`
	LedgerBalance     string `csv:"LedgerBalance"`
	Difference        string `csv:"Difference"`
	ReconciledCount   int    `csv:"Reconciled"`
	UnreconciledCount int    `csv:"Unreconciled"`
	Status            string `csv:"Status"`
}

type summaryJSON struct {
	models.AccountSummary
	Status models.SummaryStatus `json:"status"`
}

// Generator writes reports.
type Generator struct {
	logger    logging.Logger
	delimiter rune
}

// NewGenerator creates a report generator. A zero delimiter means comma.
func NewGenerator(logger logging.Logger, delimiter rune) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{logger: logging.OrDefault(logger), delimiter: delimiter}
}

func toTransactionRow(t models.BankTransaction) transactionRow {
	matchType, matchID, _ := t.MatchRef()
	return transactionRow{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Date:        t.Date.Format(models.DateLayoutISO),
		Description: t.Description,
		Reference:   t.Reference,
		Amount:      models.FormatAmount(t.Amount),
		Reconciled:  t.IsReconciled,
		MatchType:   matchType,
		MatchID:     matchID,
		Category:    t.Category,
	}
}

// WriteTransactions renders transactions in format.
func (g *Generator) WriteTransactions(w io.Writer, txs []models.BankTransaction, format string) error {
	switch format {
	case FormatCSV:
		rows := make([]transactionRow, 0, len(txs))
		for _, t := range txs {
			rows = append(rows, toTransactionRow(t))
		}
		return g.writeCSV(w, &rows, len(rows))
	case FormatJSON:
		if txs == nil {
			txs = []models.BankTransaction{}
		}
		return g.writeJSON(w, txs)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteSummaries renders account summaries in format.
func (g *Generator) WriteSummaries(w io.Writer, sums []models.AccountSummary, format string) error {
	switch format {
	case FormatCSV:
		rows := make([]summaryRow, 0, len(sums))
		for _, s := range sums {
			rows = append(rows, summaryRow{
				AccountID:         s.AccountID,
				StatementBalance:  models.FormatAmount(s.StatementBalance),
				LedgerBalance:     models.FormatAmount(s.LedgerBalance),
				Difference:        models.FormatAmount(s.Difference),
				ReconciledCount:   s.ReconciledCount,
				UnreconciledCount: s.UnreconciledCount,
				Status:            string(s.Status()),
			})
		}
		return g.writeCSV(w, &rows, len(rows))
	case FormatJSON:
		out := make([]summaryJSON, 0, len(sums))
		for _, s := range sums {
			out = append(out, summaryJSON{AccountSummary: s, Status: s.Status()})
		}
		return g.writeJSON(w, out)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) writeCSV(w io.Writer, rows interface{}, count int) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	g.logger.Debug("Wrote CSV report", logging.F(logging.FieldCount, count))
	return nil
}

func (g *Generator) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return nil
}
