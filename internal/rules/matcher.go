// Package rules evaluates saved bank rules against transactions and groups
// the resulting auto-match suggestions into confidence bands.
package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
)

// Band limits on the 0-100 confidence scale.
const (
	HighBandFloor   = 80
	MediumBandFloor = 50
)

var (
	validFields = map[string]bool{
		models.FieldDescription: true,
		models.FieldPayee:       true,
		models.FieldAmount:      true,
		models.FieldReference:   true,
	}
	validOperators = map[string]bool{
		models.OperatorContains: true,
		models.OperatorEquals:   true,
		models.OperatorBetween:  true,
	}
)

// ErrNoConditions is returned for a rule without conditions.
var ErrNoConditions = errors.New("a rule needs at least one condition")

// ValidateConditions checks fields, operators and between ranges.
func ValidateConditions(conds []models.RuleCondition) error {
	if len(conds) == 0 {
		return ErrNoConditions
	}
	for i, c := range conds {
		if !validFields[c.Field] {
			return fmt.Errorf("condition %d: unknown field %q", i+1, c.Field)
		}
		if !validOperators[c.Operator] {
			return fmt.Errorf("condition %d: unknown operator %q", i+1, c.Operator)
		}
		if c.Operator == models.OperatorBetween {
			if c.Field != models.FieldAmount {
				return fmt.Errorf("condition %d: between only applies to amount", i+1)
			}
			if _, _, err := ParseBetween(c.Value); err != nil {
				return fmt.Errorf("condition %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// FormatBetween renders an inclusive range as "low,high" with two decimals.
func FormatBetween(low, high decimal.Decimal) string {
	if low.GreaterThan(high) {
		low, high = high, low
	}
	return low.StringFixed(2) + "," + high.StringFixed(2)
}

// ParseBetween reads a "low,high" range. Reversed bounds are swapped.
func ParseBetween(value string) (low, high decimal.Decimal, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return low, high, fmt.Errorf("range %q must be \"low,high\"", value)
	}
	if low, err = models.ParseAmount(parts[0]); err != nil {
		return low, high, fmt.Errorf("range %q: %w", value, err)
	}
	if high, err = models.ParseAmount(parts[1]); err != nil {
		return low, high, fmt.Errorf("range %q: %w", value, err)
	}
	if low.GreaterThan(high) {
		low, high = high, low
	}
	return low, high, nil
}

// fieldValue returns the transaction text a condition field reads. Bank rows
// carry no separate payee, so payee reads the description.
func fieldValue(tx models.BankTransaction, field string) string {
	switch field {
	case models.FieldDescription, models.FieldPayee:
		return tx.Description
	case models.FieldReference:
		return tx.Reference
	case models.FieldAmount:
		return tx.Amount.String()
	}
	return ""
}

// MatchesCondition reports whether tx satisfies c.
func MatchesCondition(c models.RuleCondition, tx models.BankTransaction) bool {
	switch c.Operator {
	case models.OperatorContains:
		needle := strings.TrimSpace(c.Value)
		if needle == "" {
			return false
		}
		return strings.Contains(strings.ToLower(fieldValue(tx, c.Field)), strings.ToLower(needle))
	case models.OperatorEquals:
		if c.Field == models.FieldAmount {
			want, err := models.ParseAmount(c.Value)
			return err == nil && want.Equal(tx.Amount)
		}
		return strings.EqualFold(strings.TrimSpace(fieldValue(tx, c.Field)), strings.TrimSpace(c.Value))
	case models.OperatorBetween:
		if c.Field != models.FieldAmount {
			return false
		}
		low, high, err := ParseBetween(c.Value)
		if err != nil {
			return false
		}
		return tx.Amount.GreaterThanOrEqual(low) && tx.Amount.LessThanOrEqual(high)
	}
	return false
}

// Evaluate scores rule against tx. Confidence is the rounded share of
// conditions that match, on a 0-100 scale. ok is false when no condition
// matches.
func Evaluate(rule models.BankRule, tx models.BankTransaction) (models.AutoMatchSuggestion, bool) {
	if len(rule.Conditions) == 0 {
		return models.AutoMatchSuggestion{}, false
	}
	matched := 0
	firstField := ""
	for _, c := range rule.Conditions {
		if MatchesCondition(c, tx) {
			if matched == 0 {
				firstField = c.Field
			}
			matched++
		}
	}
	if matched == 0 {
		return models.AutoMatchSuggestion{}, false
	}
	confidence := int(math.Round(100 * float64(matched) / float64(len(rule.Conditions))))
	return models.AutoMatchSuggestion{
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		AccountCode:  rule.AccountCode,
		Confidence:   confidence,
		MatchedField: firstField,
	}, true
}

// Suggest evaluates the active rules, highest confidence first. Rules scoped
// to another bank account are skipped.
func Suggest(rules []models.BankRule, tx models.BankTransaction) []models.AutoMatchSuggestion {
	out := []models.AutoMatchSuggestion{}
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.AccountID != "" && tx.AccountID != "" && r.AccountID != tx.AccountID {
			continue
		}
		if s, ok := Evaluate(r, tx); ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// Bucket maps a 0-100 confidence to its band: above 80 is high, 50 to 80 is
// medium, below 50 is low.
func Bucket(confidence int) models.Band {
	switch {
	case confidence > HighBandFloor:
		return models.BandHigh
	case confidence >= MediumBandFloor:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

// Groups holds suggestions split by band, each in input order.
type Groups struct {
	High   []models.BucketedSuggestion `json:"high"`
	Medium []models.BucketedSuggestion `json:"medium"`
	Low    []models.BucketedSuggestion `json:"low"`
}

// Group buckets suggestions.
func Group(suggestions []models.AutoMatchSuggestion) Groups {
	g := Groups{
		High:   []models.BucketedSuggestion{},
		Medium: []models.BucketedSuggestion{},
		Low:    []models.BucketedSuggestion{},
	}
	for _, s := range suggestions {
		b := models.BucketedSuggestion{AutoMatchSuggestion: s, Band: Bucket(s.Confidence)}
		switch b.Band {
		case models.BandHigh:
			g.High = append(g.High, b)
		case models.BandMedium:
			g.Medium = append(g.Medium, b)
		default:
			g.Low = append(g.Low, b)
		}
	}
	return g
}
