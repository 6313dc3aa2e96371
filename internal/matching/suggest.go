package matching

import (
	"sort"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultSuggestionLimit caps ScoreSuggestions when no limit is given.
const DefaultSuggestionLimit = 5

var (
	amountWeight  = decimal.RequireFromString("0.6")
	contactWeight = decimal.RequireFromString("0.4")
	minScore      = decimal.RequireFromString("0.1")
	one           = decimal.NewFromInt(1)
)

func ranked(entityType string, item models.OpenItem, score decimal.Decimal) models.RankedSuggestion {
	return models.RankedSuggestion{
		EntityType: entityType,
		EntityID:   item.ID,
		Reference:  item.Number,
		Contact:    item.ContactName,
		Amount:     item.AmountDue,
		Confidence: score.Round(2).InexactFloat64(),
	}
}

func sortByConfidence(s []models.RankedSuggestion) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Confidence > s[j].Confidence })
}

// amountScore returns 1 - diff/basis when the relative difference is within
// NearAmountTolerance.
func amountScore(amount, due decimal.Decimal) (decimal.Decimal, bool) {
	_, ratio, ok := relativeDiff(amount, due)
	if !ok || ratio.GreaterThan(NearAmountTolerance) {
		return decimal.Zero, false
	}
	return one.Sub(ratio), true
}

// GenerateSuggestions ranks eligible items whose amount is within 5% of the
// transaction amount. Confidence is 1 - diff/max(|amount|, due), rounded to
// two decimals, highest first.
func GenerateSuggestions(tx MatchInput, invoices, bills []models.OpenItem) []models.RankedSuggestion {
	entityType, items := candidatesFor(tx.Amount, invoices, bills)
	out := []models.RankedSuggestion{}
	for _, item := range items {
		if !item.Eligible() {
			continue
		}
		if score, ok := amountScore(tx.Amount, item.AmountDue); ok {
			out = append(out, ranked(entityType, item, score))
		}
	}
	sortByConfidence(out)
	return out
}

// SuggestionsForAmount is GenerateSuggestions driven by a bare amount.
func SuggestionsForAmount(amount decimal.Decimal, invoices, bills []models.OpenItem) []models.RankedSuggestion {
	return GenerateSuggestions(MatchInput{Amount: amount}, invoices, bills)
}

// ScoreSuggestions blends amount proximity (weight 0.6) with a contact name
// hit in the description (weight 0.4). Items scoring 0.1 or less are dropped
// and at most limit suggestions are returned.
func ScoreSuggestions(tx MatchInput, invoices, bills []models.OpenItem, limit int) []models.RankedSuggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	entityType, items := candidatesFor(tx.Amount, invoices, bills)
	out := []models.RankedSuggestion{}
	for _, item := range items {
		if !item.Eligible() {
			continue
		}
		score := decimal.Zero
		if s, ok := amountScore(tx.Amount, item.AmountDue); ok {
			score = score.Add(s.Mul(amountWeight))
		}
		if containsFold(tx.Description, item.ContactName) {
			score = score.Add(contactWeight)
		}
		if score.GreaterThan(minScore) {
			if score.GreaterThan(one) {
				score = one
			}
			out = append(out, ranked(entityType, item, score))
		}
	}
	sortByConfidence(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SuggestionsForTransaction scores a stored transaction. Reconciled
// transactions get no suggestions.
func SuggestionsForTransaction(tx models.BankTransaction, invoices, bills []models.OpenItem, limit int) []models.RankedSuggestion {
	if tx.IsReconciled {
		return []models.RankedSuggestion{}
	}
	return ScoreSuggestions(InputFrom(tx), invoices, bills, limit)
}
