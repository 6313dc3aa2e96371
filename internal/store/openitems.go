package store

import (
	"context"
	"fmt"
	"io"
	"os"

	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"

	"github.com/gocarina/gocsv"
)

// CSVOpenItems reads open invoices and bills from CSV exports with the
// columns id,number,contact_name,amount_due,status.
type CSVOpenItems struct {
	InvoicesFile string
	BillsFile    string
	logger       logging.Logger
}

// NewCSVOpenItems creates a CSV backed OpenBalanceSource. An empty file name
// yields no items.
func NewCSVOpenItems(invoicesFile, billsFile string, logger logging.Logger) *CSVOpenItems {
	return &CSVOpenItems{
		InvoicesFile: invoicesFile,
		BillsFile:    billsFile,
		logger:       logging.OrDefault(logger),
	}
}

// ReadOpenItems decodes open items from CSV and keeps the eligible ones.
func ReadOpenItems(r io.Reader) ([]models.OpenItem, error) {
	var items []models.OpenItem
	if err := gocsv.Unmarshal(r, &items); err != nil {
		return nil, fmt.Errorf("error parsing open items: %w", err)
	}
	return EligibleOnly(items), nil
}

func (c *CSVOpenItems) load(path, entityType string) ([]models.OpenItem, error) {
	if path == "" {
		return []models.OpenItem{}, nil
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		c.logger.Warn("Open items file not found",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldEntityType, entityType))
		return []models.OpenItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening %s file: %w", entityType, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	items, err := ReadOpenItems(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.logger.Debug("Loaded open items",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldEntityType, entityType),
		logging.F(logging.FieldCount, len(items)))
	return items, nil
}

// FetchOpenInvoices reads the invoices file.
func (c *CSVOpenItems) FetchOpenInvoices(_ context.Context) ([]models.OpenItem, error) {
	return c.load(c.InvoicesFile, models.EntityInvoice)
}

// FetchOpenBills reads the bills file.
func (c *CSVOpenItems) FetchOpenBills(_ context.Context) ([]models.OpenItem, error) {
	return c.load(c.BillsFile, models.EntityBill)
}
