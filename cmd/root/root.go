// Package root contains the root command for the application
package root

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/bankrec/internal/config"
	"fjacquet/bankrec/internal/container"
	"fjacquet/bankrec/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	Account    string
	Output     string
	Format     string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is wired in PersistentPreRunE and closed after the command.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bankrec",
		Short: "Import bank statements and reconcile them against open invoices and bills.",
		Long: `bankrec imports CSV, OFX and CAMT.053 bank statements, suggests matches
against open invoices and bills, and records reconciliation, splits and
bank rule coding in a local SQLite database.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if AppContainer != nil {
				return nil
			}
			c, err := buildContainer()
			if err != nil {
				return err
			}
			SetContainer(c)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
			AppContainer = nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.bankrec, .bankrec or .)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Override the configured log level")
	flags.StringVarP(&SharedFlags.Account, "account", "a", "", "Bank account id")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	flags.StringVarP(&SharedFlags.Format, "format", "f", "csv", "Output format: csv or json")
}

func buildContainer() (*container.Container, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if SharedFlags.ConfigFile != "" {
		cfg, err = config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return nil, err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	return container.NewContainer(cfg)
}

// SetContainer installs c and its logger as the command dependencies.
func SetContainer(c *container.Container) {
	AppContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// GetContainer returns the wired container.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, errors.New("application container is not initialized")
	}
	return AppContainer, nil
}

// RequireAccount returns the --account value or an error naming the command.
func RequireAccount(cmd *cobra.Command) (string, error) {
	if SharedFlags.Account == "" {
		return "", fmt.Errorf("%s: --account is required", cmd.Name())
	}
	return SharedFlags.Account, nil
}

// Context returns the command context, or a background context when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
