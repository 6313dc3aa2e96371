// Package matching proposes open invoices and bills for bank transactions.
//
// Two scales are produced. FindMatches returns discrete high/medium/low
// candidates for rule-style review, while GenerateSuggestions and
// ScoreSuggestions return numerically ranked proposals in [0, 1].
package matching

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// NearAmountTolerance is the largest relative difference still proposed.
	NearAmountTolerance = decimal.RequireFromString("0.05")
	// nearAmountFloor excludes differences small enough to be rounding noise.
	nearAmountFloor = decimal.RequireFromString("0.001")
	hundred         = decimal.NewFromInt(100)
)

// MatchInput is the part of a transaction the matcher looks at.
type MatchInput struct {
	Amount      decimal.Decimal
	Description string
}

// InputFrom builds a MatchInput from a stored transaction.
func InputFrom(tx models.BankTransaction) MatchInput {
	return MatchInput{Amount: tx.Amount, Description: tx.Description}
}

// candidatesFor returns the items a signed amount may be matched against:
// invoices for money in, bills for money out, nothing for zero.
func candidatesFor(amount decimal.Decimal, invoices, bills []models.OpenItem) (string, []models.OpenItem) {
	switch amount.Sign() {
	case 1:
		return models.EntityInvoice, invoices
	case -1:
		return models.EntityBill, bills
	default:
		return "", nil
	}
}

// relativeDiff returns |due - |amount|| divided by the larger of the two.
// ok is false when both are zero.
func relativeDiff(amount, due decimal.Decimal) (diff, ratio decimal.Decimal, ok bool) {
	abs := amount.Abs()
	diff = models.AbsDiff(due, abs)
	basis := models.MaxDecimal(abs, due)
	if !basis.IsPositive() {
		return diff, decimal.Zero, false
	}
	return diff, diff.Div(basis), true
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// candidateSet keeps one candidate per entity in first-seen order.
type candidateSet struct {
	order []string
	byID  map[string]*models.MatchCandidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byID: make(map[string]*models.MatchCandidate)}
}

// offer records c unless a candidate of equal or better rank already exists.
func (s *candidateSet) offer(c models.MatchCandidate) {
	existing, ok := s.byID[c.EntityID]
	if !ok {
		s.order = append(s.order, c.EntityID)
		s.byID[c.EntityID] = &c
		return
	}
	if c.Confidence.Rank() < existing.Confidence.Rank() {
		*existing = c
	}
}

func (s *candidateSet) sorted() []models.MatchCandidate {
	out := make([]models.MatchCandidate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence.Rank() < out[j].Confidence.Rank()
	})
	return out
}

// FindMatches evaluates every eligible item against four rules and keeps
// the best hit per item:
//
//  1. due equals |amount| within a cent (high)
//  2. the item number appears in the description (high)
//  3. the contact name appears in the description (medium)
//  4. the relative difference is in (0.1%, 5%] (low)
//
// Candidates are ordered high, medium, low; ties keep input order.
func FindMatches(tx MatchInput, invoices, bills []models.OpenItem) []models.MatchCandidate {
	entityType, items := candidatesFor(tx.Amount, invoices, bills)
	set := newCandidateSet()

	for _, item := range items {
		if !item.AmountDue.IsPositive() {
			continue
		}
		base := models.MatchCandidate{
			EntityType: entityType,
			EntityID:   item.ID,
			Label:      item.Label(),
			Amount:     item.AmountDue,
		}

		diff, ratio, ok := relativeDiff(tx.Amount, item.AmountDue)
		if diff.LessThan(models.Cent) {
			set.offer(withReason(base, models.ConfidenceHigh, "amount matches exactly"))
		}
		if containsFold(tx.Description, item.Number) {
			set.offer(withReason(base, models.ConfidenceHigh,
				fmt.Sprintf("description contains %s number %s", entityType, item.Number)))
		}
		if containsFold(tx.Description, item.ContactName) {
			set.offer(withReason(base, models.ConfidenceMedium,
				fmt.Sprintf("description contains contact name %s", item.ContactName)))
		}
		if ok && ratio.GreaterThan(nearAmountFloor) && ratio.LessThanOrEqual(NearAmountTolerance) {
			set.offer(withReason(base, models.ConfidenceLow,
				fmt.Sprintf("amount is close (%s%% difference)", ratio.Mul(hundred).StringFixed(1))))
		}
	}
	return set.sorted()
}

func withReason(c models.MatchCandidate, conf models.Confidence, reason string) models.MatchCandidate {
	c.Confidence = conf
	c.Reason = reason
	return c
}
