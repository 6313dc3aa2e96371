package csvimport

import (
	"regexp"
	"strings"

	"fjacquet/bankrec/internal/models"

	"github.com/shopspring/decimal"
)

// Supported source date layouts.
const (
	DateFormatISO = "YYYY-MM-DD"
	DateFormatDMY = "DD/MM/YYYY"
	DateFormatMDY = "MM/DD/YYYY"
)

// ParseOptions overrides detection. Zero values mean "detect".
type ParseOptions struct {
	Delimiter     rune
	HasHeader     *bool
	DateFormat    string
	ColumnMapping *models.ColumnMapping
}

var (
	descriptionHeader = regexp.MustCompile(`desc|memo|payee|detail|narrat`)
	dateSeparators    = regexp.MustCompile(`[/\-.]`)
)

// AutoDetectMapping derives a column mapping from header names. Headers that
// match nothing keep the default positions.
func AutoDetectMapping(headers []string) models.ColumnMapping {
	mapping := models.DefaultColumnMapping()
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		idx := i
		switch {
		case strings.Contains(h, "date"):
			mapping.Date = idx
		case descriptionHeader.MatchString(h):
			mapping.Description = idx
		case h == "amount":
			mapping.Amount = idx
		case strings.Contains(h, "ref"):
			mapping.Reference = &idx
		case strings.Contains(h, "debit"):
			mapping.Debit = &idx
		case strings.Contains(h, "credit"):
			mapping.Credit = &idx
		}
	}
	return mapping
}

// ConvertDate rewrites a DD/MM/YYYY or MM/DD/YYYY date as YYYY-MM-DD. Other
// formats, and values that do not split into three parts, pass through
// trimmed.
func ConvertDate(raw, format string) string {
	s := strings.TrimSpace(raw)
	if format != DateFormatDMY && format != DateFormatMDY {
		return s
	}
	parts := dateSeparators.Split(s, -1)
	if len(parts) != 3 {
		return s
	}
	day, month, year := parts[0], parts[1], parts[2]
	if format == DateFormatMDY {
		day, month = month, day
	}
	return year + "-" + padTwo(month) + "-" + padTwo(day)
}

func padTwo(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// Parse converts delimited text into import rows. Rows with fewer than two
// fields or an unreadable amount are skipped.
func Parse(text string, opts *ParseOptions) []models.ImportTransactionRow {
	lines := splitLines(text)
	if len(lines) == 0 {
		return []models.ImportTransactionRow{}
	}

	detected := DetectFormat(text)
	delimiter := detected.Delimiter
	hasHeader := detected.HasHeader
	dateFormat := ""
	var explicitMapping *models.ColumnMapping
	if opts != nil {
		if opts.Delimiter != 0 {
			delimiter = opts.Delimiter
		}
		if opts.HasHeader != nil {
			hasHeader = *opts.HasHeader
		}
		dateFormat = opts.DateFormat
		explicitMapping = opts.ColumnMapping
	}

	parsed := make([][]string, len(lines))
	for i, line := range lines {
		parsed[i] = SplitLine(line, delimiter)
	}

	var mapping models.ColumnMapping
	switch {
	case explicitMapping != nil:
		mapping = *explicitMapping
	case hasHeader:
		mapping = AutoDetectMapping(parsed[0])
	default:
		mapping = models.DefaultColumnMapping()
	}

	start := 0
	if hasHeader {
		start = 1
	}

	rows := make([]models.ImportTransactionRow, 0, len(parsed)-start)
	for _, fields := range parsed[start:] {
		if len(fields) < 2 {
			continue
		}

		amount, ok := rowAmount(fields, mapping)
		if !ok {
			continue
		}

		row := models.ImportTransactionRow{
			Date:        ConvertDate(field(fields, mapping.Date), dateFormat),
			Description: field(fields, mapping.Description),
			Amount:      decimal.NewNullDecimal(amount),
		}
		if mapping.Reference != nil {
			row.Reference = strings.TrimSpace(field(fields, *mapping.Reference))
		}
		rows = append(rows, row)
	}
	return rows
}

// rowAmount returns credit - debit in debit/credit mode, where unreadable
// cells count as zero, and the parsed amount column otherwise. Trailing text
// such as a currency code ("1500.00 CHF") makes the amount unreadable and the
// row is skipped.
func rowAmount(fields []string, mapping models.ColumnMapping) (decimal.Decimal, bool) {
	if mapping.HasDebitCredit() {
		debit, credit := decimal.Zero, decimal.Zero
		if mapping.Debit != nil {
			debit = models.ParseAmountOrZero(field(fields, *mapping.Debit))
		}
		if mapping.Credit != nil {
			credit = models.ParseAmountOrZero(field(fields, *mapping.Credit))
		}
		return credit.Sub(debit), true
	}
	amount, err := models.ParseAmount(field(fields, mapping.Amount))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
