package csvimport

import (
	"testing"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date, desc, amount string) models.ImportTransactionRow {
	r := models.ImportTransactionRow{Date: date, Description: desc}
	if d, err := decimal.NewFromString(amount); err == nil {
		r.Amount = decimal.NewNullDecimal(d)
	}
	return r
}

func TestValidateRows_AllValid(t *testing.T) {
	result := ValidateRows([]models.ImportTransactionRow{
		row("2026-01-15", "Payment", "1500"),
		row("2026-01-16T10:30:00", "Supplies", "-250.5"),
	})
	assert.Len(t, result.Valid, 2)
	assert.Empty(t, result.Errors)
}

func TestValidateRows_Messages(t *testing.T) {
	tests := []struct {
		name string
		row  models.ImportTransactionRow
		want []string
	}{
		{"invalid date", row("not-a-date", "Payment", "1"), []string{`Row 1: Invalid date "not-a-date"`}},
		{"impossible date", row("2026-02-30", "Payment", "1"), []string{`Row 1: Invalid date "2026-02-30"`}},
		{"empty date", row("", "Payment", "1"), []string{`Row 1: Invalid date ""`}},
		{"invalid amount", row("2026-01-15", "Payment", "NaN"), []string{"Row 1: Invalid amount"}},
		{"blank description", row("2026-01-15", "   ", "1"), []string{"Row 1: Empty description"}},
		{"everything wrong", row("x", "", "?"), []string{
			`Row 1: Invalid date "x"`,
			"Row 1: Invalid amount",
			"Row 1: Empty description",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRows([]models.ImportTransactionRow{tt.row})
			assert.Empty(t, result.Valid)
			assert.Equal(t, tt.want, result.Errors)
		})
	}
}

func TestValidateRows_KeepsBatchAndNumbersRows(t *testing.T) {
	result := ValidateRows([]models.ImportTransactionRow{
		row("2026-01-15", "Payment", "1500"),
		row("2026-01-16", "", "20"),
		row("2026-01-17", "Fee", "-3"),
	})
	require.Len(t, result.Valid, 2)
	assert.Equal(t, "Fee", result.Valid[1].Description)
	assert.Equal(t, []string{"Row 2: Empty description"}, result.Errors)
}

// Every parsed row either passes validation or produces at least one message
// carrying its row number.
func TestParseThenValidate_Partition(t *testing.T) {
	text := "Date,Description,Amount\n2026-01-15,Payment,1500\n15/01/2026,Wrong date,3\n2026-01-17,,9\n2026-01-18,Fee,-2\n"
	rows := Parse(text, nil)
	require.Len(t, rows, 4)

	result := ValidateRows(rows)
	assert.Len(t, result.Valid, 2)
	assert.Equal(t, []string{
		`Row 2: Invalid date "15/01/2026"`,
		"Row 3: Empty description",
	}, result.Errors)
	for _, v := range result.Valid {
		assert.True(t, models.IsISODate(v.Date))
		assert.True(t, v.Amount.Valid)
		assert.NotEmpty(t, v.Description)
	}
}
