// Package testutil builds containers backed by a temporary database for
// command tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"fjacquet/bankrec/internal/config"
	"fjacquet/bankrec/internal/container"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/models"

	"github.com/stretchr/testify/require"
)

// Config returns a valid configuration whose database lives in a temp dir.
func Config(t testing.TB) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Encoding = "utf-8"
	cfg.Store.Path = filepath.Join(t.TempDir(), "bankrec.db")
	cfg.Matching.SuggestionLimit = 5
	return cfg
}

// NewContainer wires a container with a mock logger and closes it when the
// test ends.
func NewContainer(t testing.TB) (*container.Container, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(Config(t), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, logger
}

// Seed imports rows into accountID and returns the stored transactions in
// date order.
func Seed(t testing.TB, c *container.Container, accountID string, rows ...models.ImportTransactionRow) []models.BankTransaction {
	t.Helper()
	ctx := context.Background()
	res, err := c.GetService().Import(ctx, accountID, rows)
	require.NoError(t, err)
	require.Equal(t, len(rows), res.Imported)

	txs, err := c.GetStore().FetchTransactions(ctx, accountID)
	require.NoError(t, err)
	return txs
}

// SeedOpenItems stores open invoices or bills.
func SeedOpenItems(t testing.TB, c *container.Container, entityType string, items ...models.OpenItem) {
	t.Helper()
	require.NoError(t, c.GetStore().SaveOpenItems(context.Background(), entityType, items))
}
