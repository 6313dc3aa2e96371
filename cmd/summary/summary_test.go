package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	c, _ := testutil.NewContainer(t)
	root.SetContainer(c)
	root.SharedFlags.Format = "csv"
	t.Cleanup(func() {
		root.AppContainer = nil
		root.SharedFlags = root.CommonFlags{}
		ledgerBalances = nil
	})

	txs := testutil.Seed(t, c, "acc-1",
		models.NewImportRow("2024-03-01", "Deposit", decimal.NewFromInt(100), ""),
		models.NewImportRow("2024-03-02", "Fees", decimal.NewFromInt(-40), ""),
	)
	res := c.GetService().BulkReconcile(context.Background(), []string{txs[0].ID})
	require.Equal(t, 1, res.Reconciled)
}

func TestSummaryCommand_CSV(t *testing.T) {
	setup(t)
	ledgerBalances = []string{"acc-1=60", "acc-2=10"}

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.NoError(t, summaryFunc(Cmd, nil))

	assert.Equal(t,
		"Account,StatementBalance,LedgerBalance,Difference,Reconciled,Unreconciled,Status\n"+
			"acc-1,60.00,60.00,0.00,1,1,partial\n"+
			"acc-2,0.00,10.00,-10.00,0,0,partial\n",
		out.String())
}

func TestSummaryCommand_JSONForAccount(t *testing.T) {
	setup(t)
	ledgerBalances = []string{"acc-1=60"}
	root.SharedFlags.Format = "json"
	root.SharedFlags.Account = "acc-1"

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.NoError(t, summaryFunc(Cmd, nil))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "acc-1", got[0]["account_id"])
	assert.Equal(t, "partial", got[0]["status"])
}

func TestSummaryCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		ledger []string
		format string
		want   string
	}{
		{"bad ledger pair", []string{"acc-1"}, "csv", "must be ACCOUNT=BALANCE"},
		{"bad ledger amount", []string{"acc-1=lots"}, "csv", "ledger balance"},
		{"bad format", nil, "xml", "unsupported report format: xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			ledgerBalances = tt.ledger
			root.SharedFlags.Format = tt.format
			err := summaryFunc(Cmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
