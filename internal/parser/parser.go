// Package parser defines the statement reader abstraction shared by the CSV,
// OFX and CAMT importers.
package parser

import (
	"io"

	"fjacquet/bankrec/internal/models"
)

// Reader turns a bank export into canonical import rows. Implementations
// return parsererror types for unreadable input.
type Reader interface {
	Read(r io.Reader) ([]models.ImportTransactionRow, error)
}

// Format names the statement formats bankrec can import.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatOFX  Format = "ofx"
	FormatCAMT Format = "camt"
)
