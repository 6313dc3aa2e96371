package match

import (
	"bytes"
	"testing"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) []models.BankTransaction {
	t.Helper()
	c, _ := testutil.NewContainer(t)
	root.SetContainer(c)
	t.Cleanup(func() { root.AppContainer = nil })

	testutil.SeedOpenItems(t, c, models.EntityInvoice,
		models.OpenItem{ID: "inv-1", Number: "INV-1", ContactName: "ACME", AmountDue: decimal.NewFromInt(100), Status: "authorised"},
		models.OpenItem{ID: "inv-2", Number: "INV-2", ContactName: "Globex", AmountDue: decimal.NewFromInt(102), Status: "authorised"},
		models.OpenItem{ID: "inv-3", Number: "INV-3", ContactName: "Draft Co", AmountDue: decimal.NewFromInt(100), Status: models.StatusDraft},
	)
	return testutil.Seed(t, c, "acc-1",
		models.NewImportRow("2024-03-01", "Payment ACME INV-1", decimal.NewFromInt(100), ""),
		models.NewImportRow("2024-03-02", "Unrelated", decimal.NewFromInt(5000), ""),
	)
}

func TestMatchCommand(t *testing.T) {
	txs := setup(t)

	tests := []struct {
		name     string
		id       string
		contains []string
		excludes []string
	}{
		{
			name:     "candidates found",
			id:       txs[0].ID,
			contains: []string{"inv-1", "INV-1 - ACME", "inv-2"},
			excludes: []string{"inv-3"},
		},
		{
			name:     "no candidates",
			id:       txs[1].ID,
			contains: []string{"No matches found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			Cmd.SetOut(&out)
			require.NoError(t, matchFunc(Cmd, []string{tt.id}))
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestMatchCommand_UnknownTransaction(t *testing.T) {
	setup(t)
	assert.Error(t, matchFunc(Cmd, []string{"missing"}))
}

func TestSuggestCommand(t *testing.T) {
	txs := setup(t)

	tests := []struct {
		name     string
		args     []string
		amount   string
		contains []string
		wantErr  bool
	}{
		{
			name:     "by transaction",
			args:     []string{txs[0].ID},
			contains: []string{"1.00  invoice inv-1", "inv-2"},
		},
		{
			name:     "by amount",
			amount:   "102",
			contains: []string{"1.00  invoice inv-2"},
		},
		{
			name:     "nothing close",
			amount:   "9999",
			contains: []string{"No suggestions"},
		},
		{
			name:    "bad amount",
			amount:  "abc",
			wantErr: true,
		},
		{
			name:    "no target",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amountFlag = tt.amount
			defer func() { amountFlag = "" }()

			var out bytes.Buffer
			SuggestCmd.SetOut(&out)
			err := suggestFunc(SuggestCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}
