// Package factory creates statement readers by format.
package factory

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/bankrec/internal/camtimport"
	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/ofximport"
	"fjacquet/bankrec/internal/parser"
)

// CSVSettings configures the CSV reader. They are ignored for other formats.
type CSVSettings struct {
	Encoding string
	Options  csvimport.ParseOptions
}

// GetReader returns a new reader for format using logger.
func GetReader(format parser.Format, logger logging.Logger, csv CSVSettings) (parser.Reader, error) {
	switch format {
	case parser.FormatCSV:
		return csvimport.NewReader(logger, csv.Encoding, csv.Options), nil
	case parser.FormatOFX:
		return ofximport.NewReader(logger), nil
	case parser.FormatCAMT:
		return camtimport.NewReader(logger), nil
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (parser.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return parser.FormatCSV, nil
	case ".ofx", ".qfx":
		return parser.FormatOFX, nil
	case ".xml", ".camt", ".053":
		return parser.FormatCAMT, nil
	default:
		return "", fmt.Errorf("cannot infer import format from %q", path)
	}
}
