// Package ofximport reads OFX and QFX statement downloads into import rows.
package ofximport

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/parser"
	"fjacquet/bankrec/internal/parsererror"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Statement is one account statement found in an OFX file.
type Statement struct {
	AccountID string
	Rows      []models.ImportTransactionRow
}

// Reader implements parser.Reader for OFX/QFX files.
type Reader struct {
	parser.BaseParser
}

// NewReader creates an OFX reader.
func NewReader(logger logging.Logger) *Reader {
	return &Reader{BaseParser: parser.NewBaseParser(logger)}
}

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	unclosedTag     = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess repairs formatting mistakes common in bank-generated SGML.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTag.ReplaceAllString(content, "$1>")
}

// Read returns the rows of every statement in the file.
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

// ReadStatements parses the file and keeps rows grouped by account.
func (rd *Reader) ReadStatements(r io.Reader) ([]Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX input: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       "OFX/QFX",
			Msg:                  "unparseable OFX document",
			ActualContentSnippet: parsererror.Snippet(content, 40),
			Err:                  err,
		}
	}

	var statements []Statement
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			statements = append(statements, rd.convert(string(stmt.BankAcctFrom.AcctID), stmt.BankTranList))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			statements = append(statements, rd.convert(string(stmt.CCAcctFrom.AcctID), stmt.BankTranList))
		}
	}

	if len(statements) == 0 {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "OFX/QFX",
			Msg:            "no bank or credit card statement found",
		}
	}

	rd.GetLogger().Info("Parsed OFX file",
		logging.F("statements", len(statements)),
		logging.F(logging.FieldFormat, parser.FormatOFX))
	return statements, nil
}

func (rd *Reader) convert(accountID string, list *ofxgo.TransactionList) Statement {
	s := Statement{AccountID: accountID}
	if list == nil {
		return s
	}
	for _, tx := range list.Transactions {
		s.Rows = append(s.Rows, rd.convertTransaction(tx))
	}
	rd.GetLogger().Debug("Converted OFX statement",
		logging.F(logging.FieldAccountID, accountID),
		logging.F(logging.FieldCount, len(s.Rows)))
	return s
}

// convertTransaction maps an OFX transaction. An amount that cannot be
// represented is left invalid so that validation reports the row.
func (rd *Reader) convertTransaction(tx ofxgo.Transaction) models.ImportTransactionRow {
	row := models.ImportTransactionRow{
		Date:        tx.DtPosted.Time.Format(models.DateLayoutISO),
		Description: description(tx),
		Reference:   reference(tx),
	}
	if amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(4)); err == nil {
		row.Amount = decimal.NewNullDecimal(amount)
	} else {
		rd.GetLogger().Warn("Unreadable OFX amount",
			logging.F(logging.FieldTransactionID, string(tx.FiTID)),
			logging.F(logging.FieldError, err.Error()))
	}
	return row
}

func description(tx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Payee != nil {
		name = strings.TrimSpace(string(tx.Payee.Name))
	}
	memo := strings.TrimSpace(string(tx.Memo))
	switch {
	case name == "":
		return memo
	case memo != "" && !strings.EqualFold(memo, name):
		return name + " " + memo
	default:
		return name
	}
}

func reference(tx ofxgo.Transaction) string {
	for _, v := range []ofxgo.String{tx.CheckNum, tx.RefNum, tx.FiTID} {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}
