package reconcile

import (
	"fmt"
	"strings"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
)

// MaxSplitLines caps the number of lines of one split.
const MaxSplitLines = 10

// SplitError carries the single user-facing message of a rejected split.
type SplitError struct {
	Message string
}

func (e *SplitError) Error() string {
	return e.Message
}

// ValidateSplitTotal checks lines against the original transaction amount and
// returns the first problem found, or "" when the split is valid.
func ValidateSplitTotal(lines []models.SplitLine, original decimal.Decimal) string {
	if len(lines) == 0 {
		return "At least one split line is required"
	}
	if len(lines) > MaxSplitLines {
		return fmt.Sprintf("Maximum %d split lines allowed", MaxSplitLines)
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	if models.AbsDiff(total, original).GreaterThan(models.Cent) {
		return fmt.Sprintf("Split total (%s) does not match transaction amount (%s)",
			total.StringFixed(2), original.StringFixed(2))
	}

	for _, l := range lines {
		if strings.TrimSpace(l.AccountCode) == "" {
			return "All split lines require an account code"
		}
	}
	for _, l := range lines {
		if l.Amount.IsZero() {
			return "Split line amounts cannot be zero"
		}
	}
	return ""
}
