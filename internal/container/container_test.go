package container

import (
	"path/filepath"
	"testing"

	"fjacquet/bankrec/internal/camtimport"
	"fjacquet/bankrec/internal/config"
	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Encoding = "utf-8"
	cfg.Store.Path = filepath.Join(t.TempDir(), "bankrec.db")
	cfg.Matching.SuggestionLimit = 5
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Config) *config.Config
		errorMsg string
	}{
		{
			name:     "nil config",
			mutate:   func(*config.Config) *config.Config { return nil },
			errorMsg: "configuration cannot be nil",
		},
		{
			name:   "valid config",
			mutate: func(cfg *config.Config) *config.Config { return cfg },
		},
		{
			name: "csv open items",
			mutate: func(cfg *config.Config) *config.Config {
				cfg.OpenItems.InvoicesFile = "invoices.csv"
				return cfg
			},
		},
		{
			name: "bad delimiter",
			mutate: func(cfg *config.Config) *config.Config {
				cfg.CSV.Delimiter = "|"
				return cfg
			},
			errorMsg: "unsupported delimiter",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainerWithLogger(tt.mutate(testConfig(t)), logging.NewMockLogger())
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetStore())
			assert.NotNil(t, c.GetService())
			assert.NotNil(t, c.GetReportGenerator())
			assert.NotNil(t, c.GetSession())
		})
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.EqualError(t, err, "configuration cannot be nil")
}

func TestContainer_GetReader(t *testing.T) {
	cfg := testConfig(t)
	cfg.CSV.Delimiter = ";"
	logger := logging.NewMockLogger()
	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.True(t, logger.HasEntry("INFO", "Container initialized successfully"))

	r, err := c.GetReader(parser.FormatCSV, csvimport.ParseOptions{})
	require.NoError(t, err)
	assert.IsType(t, &csvimport.Reader{}, r)

	r, err = c.GetReader(parser.FormatCAMT, csvimport.ParseOptions{})
	require.NoError(t, err)
	assert.IsType(t, &camtimport.Reader{}, r)

	_, err = c.GetReader("qif", csvimport.ParseOptions{})
	assert.Error(t, err)
}
