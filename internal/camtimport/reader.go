// Package camtimport reads ISO 20022 CAMT.053 bank-to-customer statements.
package camtimport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/parser"
	"fjacquet/bankrec/internal/parsererror"
	"fjacquet/bankrec/internal/xmlutils"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"
)

const expectedFormat = "CAMT.053"

// Statement is one Stmt element of a CAMT.053 document.
type Statement struct {
	AccountID string
	Rows      []models.ImportTransactionRow
}

// Reader implements parser.Reader for CAMT.053 XML.
type Reader struct {
	parser.BaseParser
	paths xmlutils.CAMT053
}

// NewReader creates a CAMT.053 reader.
func NewReader(logger logging.Logger) *Reader {
	return &Reader{
		BaseParser: parser.NewBaseParser(logger),
		paths:      xmlutils.DefaultCamt053XPaths(),
	}
}

// Read returns the entries of every statement in the document.
func (rd *Reader) Read(r io.Reader) ([]models.ImportTransactionRow, error) {
	statements, err := rd.ReadStatements(r)
	if err != nil {
		return nil, err
	}
	var rows []models.ImportTransactionRow
	for _, s := range statements {
		rows = append(rows, s.Rows...)
	}
	return rows, nil
}

// ReadStatements parses the document and keeps entries grouped by account.
func (rd *Reader) ReadStatements(r io.Reader) ([]Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CAMT input: %w", err)
	}

	root, err := xmlutils.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       expectedFormat,
			Msg:                  "not well-formed XML",
			ActualContentSnippet: parsererror.Snippet(content, 40),
			Err:                  err,
		}
	}

	stmtNodes := xmlutils.Nodes(root, rd.paths.Statements)
	if len(stmtNodes) == 0 {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: expectedFormat,
			Msg:            "no BkToCstmrStmt/Stmt element",
		}
	}

	statements := make([]Statement, 0, len(stmtNodes))
	for _, stmt := range stmtNodes {
		s := Statement{AccountID: xmlutils.First(stmt, rd.paths.Statement.IBAN, rd.paths.Statement.OtherID)}
		for _, entry := range xmlutils.Nodes(stmt, rd.paths.Statement.Entries) {
			s.Rows = append(s.Rows, rd.convertEntry(entry))
		}
		statements = append(statements, s)
	}

	rd.GetLogger().Info("Parsed CAMT.053 document",
		logging.F("statements", len(statements)),
		logging.F(logging.FieldFormat, parser.FormatCAMT))
	return statements, nil
}

func (rd *Reader) convertEntry(entry *xmlpath.Node) models.ImportTransactionRow {
	p := rd.paths

	row := models.ImportTransactionRow{
		Date:      entryDate(entry, p),
		Reference: entryReference(entry, p),
	}
	if row.Date == "" {
		rd.GetLogger().WithError(&parsererror.DataExtractionError{
			FilePath:  "<input>",
			FieldName: "BookgDt",
			Reason:    "entry has neither a booking date nor a value date",
		}).Warn("CAMT entry without date")
	}

	rawAmount := xmlutils.First(entry, p.Entry.Amount)
	if amount, err := decimal.NewFromString(rawAmount); err == nil {
		if strings.EqualFold(xmlutils.First(entry, p.Entry.CreditDebitInd), "DBIT") {
			amount = amount.Abs().Neg()
		}
		row.Amount = decimal.NewNullDecimal(amount)
	} else {
		rd.GetLogger().WithError(&parsererror.ParseError{
			Parser: "camt",
			Field:  "Amt",
			Value:  rawAmount,
			Err:    err,
		}).Warn("Unreadable CAMT entry amount")
	}

	row.Description = entryDescription(entry, p, row.Amount.Decimal.IsNegative())
	return row
}

func entryDate(entry *xmlpath.Node, p xmlutils.CAMT053) string {
	d := xmlutils.First(entry, p.Entry.BookingDate, p.Entry.BookingDateTm, p.Entry.ValueDate)
	if len(d) > len(models.DateLayoutISO) && d[len(models.DateLayoutISO)] == 'T' {
		d = d[:len(models.DateLayoutISO)]
	}
	return d
}

// entryDescription joins the counterparty name with the remittance text. For
// outgoing payments the counterparty is the creditor.
func entryDescription(entry *xmlpath.Node, p xmlutils.CAMT053, outgoing bool) string {
	party := xmlutils.First(entry, p.Details.DebtorName, p.Details.CreditorName)
	if outgoing {
		party = xmlutils.First(entry, p.Details.CreditorName, p.Details.DebtorName)
	}

	parts := []string{}
	if party != "" {
		parts = append(parts, party)
	}
	parts = append(parts, xmlutils.All(entry, p.Details.Remittance)...)
	if len(parts) == 0 {
		if info := xmlutils.First(entry, p.Details.AdditionalTx, p.Entry.AddEntryInfo); info != "" {
			parts = append(parts, info)
		}
	}
	return strings.Join(parts, " ")
}

func entryReference(entry *xmlpath.Node, p xmlutils.CAMT053) string {
	if ref := xmlutils.First(entry, p.Details.EndToEndID); ref != "" && !strings.EqualFold(ref, "NOTPROVIDED") {
		return ref
	}
	return xmlutils.First(entry, p.Details.TransactionID, p.Entry.AccountSvcRef)
}
