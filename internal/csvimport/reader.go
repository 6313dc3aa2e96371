package csvimport

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/parser"
)

// Reader implements parser.Reader for delimited exports.
type Reader struct {
	parser.BaseParser
	encoding string
	options  ParseOptions
}

// NewReader creates a CSV reader. encoding follows Decode.
func NewReader(logger logging.Logger, encoding string, opts ParseOptions) *Reader {
	return &Reader{
		BaseParser: parser.NewBaseParser(logger),
		encoding:   encoding,
		options:    opts,
	}
}

// Read decodes r and parses it into import rows.
func (rd *Reader) Read(r io.Reader) ([]models.ImportTransactionRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading CSV input: %w", err)
	}
	text, err := rd.Decode(data)
	if err != nil {
		return nil, err
	}

	rows := Parse(text, &rd.options)
	rd.GetLogger().Debug("Parsed CSV export",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldEncoding, rd.encodingName()))
	return rows, nil
}

// Decode converts data using the reader's configured encoding.
func (rd *Reader) Decode(data []byte) (string, error) {
	return Decode(data, rd.encoding)
}

func (rd *Reader) encodingName() string {
	if strings.TrimSpace(rd.encoding) == "" {
		return "utf-8"
	}
	return rd.encoding
}

// DelimiterFromString maps a configured delimiter to a rune. Empty means detect.
func DelimiterFromString(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", ";", "\t":
		return rune(s[0]), nil
	case "tab", `\t`:
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter %q", s)
	}
}
