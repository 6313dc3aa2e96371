package csvimport

import (
	"strings"
	"testing"

	"fjacquet/bankrec/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	text, err := Decode([]byte("\xEF\xBB\xBFDate,Description"), "")
	require.NoError(t, err)
	assert.Equal(t, "Date,Description", text)

	text, err = Decode([]byte("Caf\xe9"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "Café", text)

	text, err = Decode([]byte("\xa4"), "ISO-8859-15")
	require.NoError(t, err)
	assert.Equal(t, "€", text)

	_, err = Decode([]byte("Caf\xe9"), "utf-8")
	assert.Error(t, err)

	_, err = Decode([]byte("x"), "klingon")
	assert.EqualError(t, err, "unsupported encoding: klingon")
}

func TestReader_Read(t *testing.T) {
	logger := logging.NewMockLogger()
	rd := NewReader(logger, "windows-1252", ParseOptions{DateFormat: DateFormatDMY})

	rows, err := rd.Read(strings.NewReader("Date;Description;Amount\n15/01/2026;Caf\xe9 Z\xfcrich;-4.50\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-01-15", rows[0].Date)
	assert.Equal(t, "Café Zürich", rows[0].Description)
	assert.Len(t, logger.GetEntriesByLevel("DEBUG"), 1)
}

func TestDelimiterFromString(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', ";": ';', "\t": '\t', "tab": '\t'} {
		got, err := DelimiterFromString(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := DelimiterFromString("|")
	assert.Error(t, err)
}
