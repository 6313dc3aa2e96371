package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat_Delimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "Date,Description,Amount\n2026-01-15,Payment,1500", ','},
		{"semicolon", "Date;Description;Amount\n2026-01-15;Payment;1500", ';'},
		{"tab", "Date\tDescription\tAmount\n2026-01-15\tPayment\t1500", '\t'},
		{"tie prefers comma", "a,b;c\n", ','},
		{"no delimiter falls back to comma", "just one cell", ','},
		{"quoted commas are ignored", `"a,b,c";d;e` + "\n", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.text).Delimiter)
		})
	}
}

func TestDetectFormat_Header(t *testing.T) {
	assert.True(t, DetectFormat("Date,Description,Amount\n2026-01-15,Payment,1500").HasHeader)
	assert.True(t, DetectFormat("Posted,Transaction ID,Value\n").HasHeader)
	assert.True(t, DetectFormat(" DATE ,x,y").HasHeader)
	assert.False(t, DetectFormat("2026-01-15,Payment,1500\n2026-01-16,Fee,-5").HasHeader)
	assert.False(t, DetectFormat("Dates,Descriptions,Amounts").HasHeader)
}

func TestDetectFormat_SampleRows(t *testing.T) {
	text := "Date,Description,Amount\n1,a,1\n2,b,2\n\n3,c,3\n4,d,4\n5,e,5\n"
	f := DetectFormat(text)
	assert.Len(t, f.SampleRows, MaxSampleRows)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, f.SampleRows[0])
	assert.Equal(t, []string{"3", "c", "3"}, f.SampleRows[3])
}

func TestDetectFormat_Empty(t *testing.T) {
	for _, text := range []string{"", "   \n\n  "} {
		f := DetectFormat(text)
		assert.Equal(t, ',', f.Delimiter)
		assert.False(t, f.HasHeader)
		assert.Empty(t, f.SampleRows)
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{"plain", "a,b,c", ',', []string{"a", "b", "c"}},
		{"trims fields", " a , b ,c\r", ',', []string{"a", "b", "c"}},
		{"quoted delimiter", `2026-01-15,"Payment, from Client",1500`, ',', []string{"2026-01-15", "Payment, from Client", "1500"}},
		{"escaped quote", `"He said ""hi""",x`, ',', []string{`He said "hi"`, "x"}},
		{"empty trailing field", "a;b;", ';', []string{"a", "b", ""}},
		{"unterminated quote swallows rest", `"a,b`, ',', []string{"a,b"}},
		{"non-ascii text", "Café;Zürich", ';', []string{"Café", "Zürich"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line, tt.delim))
		})
	}
}
