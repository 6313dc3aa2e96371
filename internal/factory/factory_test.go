package factory_test

import (
	"testing"

	"fjacquet/bankrec/internal/camtimport"
	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/factory"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/ofximport"
	"fjacquet/bankrec/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReader(t *testing.T) {
	logger := logging.NewMockLogger()

	tests := []struct {
		name   string
		format parser.Format
		want   interface{}
	}{
		{"CSV", parser.FormatCSV, &csvimport.Reader{}},
		{"OFX", parser.FormatOFX, &ofximport.Reader{}},
		{"CAMT", parser.FormatCAMT, &camtimport.Reader{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := factory.GetReader(tt.format, logger, factory.CSVSettings{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}

	_, err := factory.GetReader("pdf", logger, factory.CSVSettings{})
	assert.EqualError(t, err, "unknown import format: pdf")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    parser.Format
		wantErr bool
	}{
		{"export.CSV", parser.FormatCSV, false},
		{"dir/statement.qfx", parser.FormatOFX, false},
		{"camt053.xml", parser.FormatCAMT, false},
		{"scan.pdf", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := factory.FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
}
