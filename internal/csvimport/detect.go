// Package csvimport detects the layout of delimited bank exports and turns
// their lines into canonical import rows.
package csvimport

import (
	"regexp"
	"strings"
)

// MaxSampleRows is the number of rows returned for previews.
const MaxSampleRows = 5

// candidateDelimiters are tried in order; earlier entries win ties.
var candidateDelimiters = []rune{',', ';', '\t'}

var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^date$`),
	regexp.MustCompile(`(?i)^description$`),
	regexp.MustCompile(`(?i)^amount$`),
	regexp.MustCompile(`(?i)^debit$`),
	regexp.MustCompile(`(?i)^credit$`),
	regexp.MustCompile(`(?i)^reference$`),
	regexp.MustCompile(`(?i)^memo$`),
	regexp.MustCompile(`(?i)^payee$`),
	regexp.MustCompile(`(?i)^transaction`),
	regexp.MustCompile(`(?i)^balance$`),
	regexp.MustCompile(`(?i)^ref`),
	regexp.MustCompile(`(?i)^type$`),
	regexp.MustCompile(`(?i)^category$`),
	regexp.MustCompile(`(?i)^account$`),
	regexp.MustCompile(`(?i)^note`),
	regexp.MustCompile(`(?i)^detail`),
}

// Format is the detected layout of a delimited export.
type Format struct {
	Delimiter  rune
	HasHeader  bool
	SampleRows [][]string
}

// DetectFormat guesses the delimiter and header presence of text and returns
// up to MaxSampleRows split rows.
func DetectFormat(text string) Format {
	lines := splitLines(text)
	if len(lines) == 0 {
		return Format{Delimiter: ',', SampleRows: [][]string{}}
	}

	delimiter := ','
	best := 0
	for _, d := range candidateDelimiters {
		if n := countUnquoted(lines[0], d); n > best {
			best = n
			delimiter = d
		}
	}

	n := min(len(lines), MaxSampleRows)
	samples := make([][]string, 0, n)
	for _, line := range lines[:n] {
		samples = append(samples, SplitLine(line, delimiter))
	}

	hasHeader := false
	for _, cell := range samples[0] {
		if looksLikeHeader(cell) {
			hasHeader = true
			break
		}
	}

	return Format{Delimiter: delimiter, HasHeader: hasHeader, SampleRows: samples}
}

// SplitLine splits one line on delimiter. Delimiters inside double quotes do
// not split, a doubled quote inside quotes yields one quote, and every field
// is trimmed.
func SplitLine(line string, delimiter rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

func splitLines(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(trimmed, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func countUnquoted(line string, delimiter rune) int {
	count := 0
	inQuotes := false
	for _, ch := range line {
		if ch == '"' {
			inQuotes = !inQuotes
		} else if ch == delimiter && !inQuotes {
			count++
		}
	}
	return count
}

func looksLikeHeader(cell string) bool {
	cell = strings.TrimSpace(cell)
	for _, p := range headerPatterns {
		if p.MatchString(cell) {
			return true
		}
	}
	return false
}
