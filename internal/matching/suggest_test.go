package matching

import (
	"testing"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuggestions(t *testing.T) {
	invoices := []models.OpenItem{
		item("far", "INV-1", "A", 2000),
		item("close", "INV-2", "B", 1530),
		item("exact", "INV-3", "C", 1500),
		item("edge", "INV-4", "D", 1575),
	}
	out := GenerateSuggestions(input("Deposit", 1500), invoices, sampleBills)

	require.Len(t, out, 3)
	assert.Equal(t, "exact", out[0].EntityID)
	assert.Equal(t, 1.0, out[0].Confidence)
	assert.Equal(t, "close", out[1].EntityID)
	assert.Equal(t, 0.98, out[1].Confidence)
	assert.Equal(t, "edge", out[2].EntityID)
	assert.Equal(t, 0.95, out[2].Confidence)
	assert.Equal(t, "INV-2", out[1].Reference)
	assert.Equal(t, "B", out[1].Contact)

	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i].Confidence, out[i-1].Confidence)
	}
}

func TestGenerateSuggestions_BillsAndIneligible(t *testing.T) {
	bills := []models.OpenItem{
		item("bill-1", "BILL-1", "X", 500),
		{ID: "draft", Number: "BILL-2", AmountDue: decimal.NewFromInt(500), Status: models.StatusDraft},
		{ID: "void", Number: "BILL-3", AmountDue: decimal.NewFromInt(500), Status: models.StatusVoided},
	}
	out := GenerateSuggestions(input("Payment", -500), sampleInvoices, bills)
	require.Len(t, out, 1)
	assert.Equal(t, models.EntityBill, out[0].EntityType)
	assert.Equal(t, "bill-1", out[0].EntityID)

	assert.Empty(t, GenerateSuggestions(input("Zero", 0), sampleInvoices, bills))
}

func TestSuggestionsForAmount(t *testing.T) {
	out := SuggestionsForAmount(decimal.NewFromInt(750), sampleInvoices, sampleBills)
	require.Len(t, out, 1)
	assert.Equal(t, "inv-3", out[0].EntityID)
}

func TestScoreSuggestions(t *testing.T) {
	invoices := []models.OpenItem{
		item("amount-only", "INV-1", "Zeta", 1500),
		item("both", "INV-2", "Acme", 1500),
		item("contact-only", "INV-3", "Acme", 9000),
		item("nothing", "INV-4", "Nobody", 9000),
	}
	out := ScoreSuggestions(input("Payment from ACME", 1500), invoices, nil, 0)

	require.Len(t, out, 3)
	assert.Equal(t, "both", out[0].EntityID)
	assert.Equal(t, 1.0, out[0].Confidence)
	assert.Equal(t, "amount-only", out[1].EntityID)
	assert.Equal(t, 0.6, out[1].Confidence)
	assert.Equal(t, "contact-only", out[2].EntityID)
	assert.Equal(t, 0.4, out[2].Confidence)
}

func TestScoreSuggestions_Limit(t *testing.T) {
	var invoices []models.OpenItem
	for i := 0; i < 8; i++ {
		invoices = append(invoices, item(string(rune('a'+i)), "N", "Acme", 100))
	}
	assert.Len(t, ScoreSuggestions(input("Acme", 100), invoices, nil, 0), DefaultSuggestionLimit)
	assert.Len(t, ScoreSuggestions(input("Acme", 100), invoices, nil, 2), 2)
}

func TestSuggestionsForTransaction(t *testing.T) {
	tx := models.BankTransaction{Amount: decimal.NewFromInt(1500), Description: "Deposit"}
	assert.NotEmpty(t, SuggestionsForTransaction(tx, sampleInvoices, sampleBills, 5))

	tx.IsReconciled = true
	assert.Empty(t, SuggestionsForTransaction(tx, sampleInvoices, sampleBills, 5))
}
