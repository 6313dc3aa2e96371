// Package config loads bankrec configuration with viper: defaults, then an
// optional config.yaml, then BANKREC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. BANKREC_LOG_LEVEL.
const EnvPrefix = "BANKREC"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		// Delimiter is empty for auto-detection.
		Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat string `mapstructure:"date_format" yaml:"date_format"`
		Encoding   string `mapstructure:"encoding" yaml:"encoding"`
	} `mapstructure:"csv" yaml:"csv"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Matching struct {
		SuggestionLimit int `mapstructure:"suggestion_limit" yaml:"suggestion_limit"`
	} `mapstructure:"matching" yaml:"matching"`

	OpenItems struct {
		InvoicesFile string `mapstructure:"invoices_file" yaml:"invoices_file"`
		BillsFile    string `mapstructure:"bills_file" yaml:"bills_file"`
	} `mapstructure:"openitems" yaml:"openitems"`
}

// supportedEncodings lists the values accepted by csv.encoding.
var supportedEncodings = map[string]bool{
	"utf-8":        true,
	"windows-1252": true,
	"iso-8859-1":   true,
	"iso-8859-15":  true,
}

// InitializeConfig loads configuration from the standard search paths.
func InitializeConfig() (*Config, error) {
	return load("")
}

// InitializeConfigFromFile loads configuration from an explicit yaml file.
// Environment variables still take precedence over the file.
func InitializeConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}
	return load(path)
}

func load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bankrec")
		v.AddConfigPath(".bankrec")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CSV.Encoding = strings.ToLower(cfg.CSV.Encoding)
	if strings.EqualFold(cfg.CSV.Delimiter, "tab") || cfg.CSV.Delimiter == `\t` {
		cfg.CSV.Delimiter = "\t"
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", "")
	v.SetDefault("csv.date_format", "")
	v.SetDefault("csv.encoding", "utf-8")

	v.SetDefault("store.path", "bankrec.db")

	v.SetDefault("matching.suggestion_limit", 5)

	v.SetDefault("openitems.invoices_file", "")
	v.SetDefault("openitems.bills_file", "")
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	switch cfg.CSV.Delimiter {
	case "", ",", ";", "\t":
	default:
		return fmt.Errorf("csv.delimiter must be ',', ';', 'tab' or empty, got: %q", cfg.CSV.Delimiter)
	}

	if !supportedEncodings[cfg.CSV.Encoding] {
		return fmt.Errorf("unsupported csv.encoding: %s", cfg.CSV.Encoding)
	}

	if strings.TrimSpace(cfg.Store.Path) == "" {
		return errors.New("store.path must not be empty")
	}

	if cfg.Matching.SuggestionLimit < 1 || cfg.Matching.SuggestionLimit > 50 {
		return fmt.Errorf("matching.suggestion_limit must be between 1 and 50, got: %d", cfg.Matching.SuggestionLimit)
	}
	return nil
}

// LoadEnv loads a .env file from the working directory or its parent.
// It returns the file that was loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", nil
}
