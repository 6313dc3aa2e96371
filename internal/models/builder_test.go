package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilder_WithDate(t *testing.T) {
	tests := []struct {
		name         string
		dateStr      string
		expectError  bool
		expectedDate time.Time
	}{
		{
			name:         "plain ISO date",
			dateStr:      "2026-01-15",
			expectedDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "ISO date time drops the time part",
			dateStr:      "2026-01-15T13:45:00",
			expectedDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "empty date",
			dateStr:     "",
			expectError: true,
		},
		{
			name:        "impossible date",
			dateStr:     "2026-02-30",
			expectError: true,
		},
		{
			name:        "european format is not accepted",
			dateStr:     "15.01.2026",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewTransactionBuilder().WithDate(tt.dateStr)
			if tt.expectError {
				assert.Error(t, builder.err)
				return
			}
			require.NoError(t, builder.err)
			assert.Equal(t, tt.expectedDate, builder.tx.Date)
		})
	}
}

func TestTransactionBuilder_Build(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithAccount("acc-1").
		WithDate("2026-03-01").
		WithDescription("  Payment from Acme  ").
		WithAmountFromString("+150.25").
		Build()

	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "acc-1", tx.AccountID)
	assert.Equal(t, "Payment from Acme", tx.Description)
	assert.True(t, decimal.RequireFromString("150.25").Equal(tx.Amount))
	assert.False(t, tx.CreatedAt.IsZero())
	assert.False(t, tx.IsReconciled)
}

func TestTransactionBuilder_BuildMissingFields(t *testing.T) {
	_, err := NewTransactionBuilder().WithDate("2026-03-01").WithDescription("x").Build()
	assert.EqualError(t, err, "account is required")

	_, err = NewTransactionBuilder().WithAccount("a").WithDescription("x").Build()
	assert.EqualError(t, err, "date is required")

	_, err = NewTransactionBuilder().WithAccount("a").WithDate("2026-03-01").Build()
	assert.EqualError(t, err, "description is required")
}

func TestTransactionBuilder_FromImportRow(t *testing.T) {
	row := NewImportRow("2026-03-02", "Card purchase", decimal.NewFromFloat(-12.5), "REF9")
	tx, err := NewTransactionBuilder().WithAccount("acc").FromImportRow(row).Build()
	require.NoError(t, err)
	assert.Equal(t, "REF9", tx.Reference)
	assert.True(t, decimal.NewFromFloat(-12.5).Equal(tx.Amount))

	_, err = NewTransactionBuilder().WithAccount("acc").
		FromImportRow(ImportTransactionRow{Date: "2026-03-02", Description: "x"}).Build()
	assert.Error(t, err)
}

func TestTransactionBuilder_ErrorShortCircuits(t *testing.T) {
	b := NewTransactionBuilder().WithAmountFromString("abc").WithID("keep-out")
	assert.Error(t, b.err)
	assert.Empty(t, b.tx.ID)

	clone := b.Clone()
	assert.Equal(t, b.err, clone.err)
}
