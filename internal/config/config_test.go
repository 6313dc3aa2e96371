package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"BANKREC_LOG_LEVEL",
	"BANKREC_LOG_FORMAT",
	"BANKREC_CSV_DELIMITER",
	"BANKREC_CSV_DATE_FORMAT",
	"BANKREC_CSV_ENCODING",
	"BANKREC_STORE_PATH",
	"BANKREC_MATCHING_SUGGESTION_LIMIT",
	"BANKREC_OPENITEMS_INVOICES_FILE",
	"BANKREC_OPENITEMS_BILLS_FILE",
}

// isolate clears overrides and runs the test from an empty directory so no
// stray config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdirForTest(t, dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "", cfg.CSV.Delimiter)
	assert.Equal(t, "utf-8", cfg.CSV.Encoding)
	assert.Equal(t, "bankrec.db", cfg.Store.Path)
	assert.Equal(t, 5, cfg.Matching.SuggestionLimit)
	assert.Empty(t, cfg.OpenItems.InvoicesFile)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("BANKREC_LOG_LEVEL", "debug")
	t.Setenv("BANKREC_LOG_FORMAT", "json")
	t.Setenv("BANKREC_CSV_DELIMITER", "tab")
	t.Setenv("BANKREC_CSV_ENCODING", "Windows-1252")
	t.Setenv("BANKREC_MATCHING_SUGGESTION_LIMIT", "8")
	t.Setenv("BANKREC_STORE_PATH", "/tmp/x.db")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "\t", cfg.CSV.Delimiter)
	assert.Equal(t, "windows-1252", cfg.CSV.Encoding)
	assert.Equal(t, 8, cfg.Matching.SuggestionLimit)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `
log:
  level: warn
csv:
  delimiter: ";"
store:
  path: books.db
openitems:
  invoices_file: invoices.csv
  bills_file: bills.csv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "books.db", cfg.Store.Path)
	assert.Equal(t, "invoices.csv", cfg.OpenItems.InvoicesFile)
	assert.Equal(t, "bills.csv", cfg.OpenItems.BillsFile)

	t.Setenv("BANKREC_LOG_LEVEL", "error")
	cfg, err = InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level, "environment overrides the file")
}

func TestInitializeConfigFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matching:\n  suggestion_limit: 3\n"), 0600))

	cfg, err := InitializeConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Matching.SuggestionLimit)

	_, err = InitializeConfigFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = InitializeConfigFromFile("")
	assert.Error(t, err)
}

func TestInitializeConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bad level", "BANKREC_LOG_LEVEL", "chatty", "invalid log level"},
		{"bad format", "BANKREC_LOG_FORMAT", "xml", "invalid log format"},
		{"bad delimiter", "BANKREC_CSV_DELIMITER", "|", "csv.delimiter"},
		{"bad encoding", "BANKREC_CSV_ENCODING", "ebcdic", "unsupported csv.encoding"},
		{"limit too high", "BANKREC_MATCHING_SUGGESTION_LIMIT", "500", "suggestion_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			_, err := InitializeConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := isolate(t)
	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BANKREC_TEST_VALUE=hello\n"), 0600))
	t.Setenv("BANKREC_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("BANKREC_TEST_VALUE"))

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "hello", os.Getenv("BANKREC_TEST_VALUE"))
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
