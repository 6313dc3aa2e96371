package ofximport

import (
	"errors"
	"strings"
	"testing"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

const sampleBankOFX = ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>CHF
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>CH9300762011623852957
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101120000[0:GMT]
<DTEND>20260131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260115120000[0:GMT]
<TRNAMT>1500.00
<FITID>2026011501
<NAME>Acme Corp
<MEMO>INV-0001
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20260125120000[0:GMT]
<TRNAMT>-500.25
<FITID>2026012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>CHF
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101120000[0:GMT]
<DTEND>20260131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2026011001
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20260131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestReader_BankStatement(t *testing.T) {
	rd := NewReader(logging.NewMockLogger())
	statements, err := rd.ReadStatements(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, statements, 1)

	s := statements[0]
	assert.Equal(t, "CH9300762011623852957", s.AccountID)
	require.Len(t, s.Rows, 2)

	assert.Equal(t, "2026-01-15", s.Rows[0].Date)
	assert.Equal(t, "Acme Corp INV-0001", s.Rows[0].Description)
	assert.Equal(t, "1500", s.Rows[0].Amount.Decimal.String())
	assert.Equal(t, "2026011501", s.Rows[0].Reference)

	assert.Equal(t, "-500.25", s.Rows[1].Amount.Decimal.String())
	assert.Equal(t, "1234", s.Rows[1].Reference)
}

func TestReader_CreditCardStatement(t *testing.T) {
	rows, err := NewReader(nil).Read(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NETFLIX.COM", rows[0].Description)
	assert.True(t, rows[0].Amount.Valid)
	assert.Equal(t, "-45.99", rows[0].Amount.Decimal.String())
}

func TestReader_Invalid(t *testing.T) {
	for _, input := range []string{"", "not valid OFX", ofxHeader + "</OFX>"} {
		_, err := NewReader(logging.NewMockLogger()).Read(strings.NewReader(input))
		require.Error(t, err)

		var formatErr *parsererror.InvalidFormatError
		assert.True(t, errors.As(err, &formatErr))
	}
}

func TestPreprocess(t *testing.T) {
	in := "\n\n<OFX>\n<SEVERITY>Info</SEVERITY>\n<CODE\n"
	out := preprocess(in)
	assert.True(t, strings.HasPrefix(out, "<OFX>"))
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, out, "<CODE>")
}
