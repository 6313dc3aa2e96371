package csvimport

import (
	"fmt"
	"strings"

	"fjacquet/bankrec/internal/models"
)

// ValidationResult partitions rows into importable rows and error messages.
type ValidationResult struct {
	Valid  []models.ImportTransactionRow `json:"valid"`
	Errors []string                      `json:"errors"`
}

// ValidateRows checks every row and collects one message per problem. Row
// numbers are 1-based. A row is valid only if it produced no message.
func ValidateRows(rows []models.ImportTransactionRow) ValidationResult {
	result := ValidationResult{
		Valid:  []models.ImportTransactionRow{},
		Errors: []string{},
	}

	for i, row := range rows {
		n := i + 1
		var problems []string

		if row.Date == "" || !models.IsISODate(row.Date) {
			problems = append(problems, fmt.Sprintf("Row %d: Invalid date %q", n, row.Date))
		}
		if !row.Amount.Valid {
			problems = append(problems, fmt.Sprintf("Row %d: Invalid amount", n))
		}
		if strings.TrimSpace(row.Description) == "" {
			problems = append(problems, fmt.Sprintf("Row %d: Empty description", n))
		}

		if len(problems) > 0 {
			result.Errors = append(result.Errors, problems...)
			continue
		}
		result.Valid = append(result.Valid, row)
	}
	return result
}
