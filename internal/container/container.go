// Package container provides dependency injection for the bankrec
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/bankrec/internal/config"
	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/factory"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/parser"
	"fjacquet/bankrec/internal/reconcile"
	"fjacquet/bankrec/internal/report"
	"fjacquet/bankrec/internal/rules"
	"fjacquet/bankrec/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; dependencies are reached through getters.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	store   *store.SQLiteStore
	service *reconcile.Service
	reports *report.Generator
	session *rules.Session
}

// NewContainer creates and wires all application dependencies, logging with
// the level and format from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	delimiter, err := csvimport.DelimiterFromString(cfg.CSV.Delimiter)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	svc := reconcile.NewService(st, logger)
	svc.SetSuggestionLimit(cfg.Matching.SuggestionLimit)
	if cfg.OpenItems.InvoicesFile != "" || cfg.OpenItems.BillsFile != "" {
		svc.SetOpenItems(store.NewCSVOpenItems(cfg.OpenItems.InvoicesFile, cfg.OpenItems.BillsFile, logger))
		logger.Info("Reading open items from CSV files",
			logging.F("invoices_file", cfg.OpenItems.InvoicesFile),
			logging.F("bills_file", cfg.OpenItems.BillsFile))
	}
	svc.SetOnChange(func(c reconcile.Change) {
		logger.Debug("Transactions changed",
			logging.F(logging.FieldOperation, c.Operation),
			logging.F(logging.FieldAccountID, c.AccountID),
			logging.F(logging.FieldCount, len(c.TransactionIDs)))
	})

	logger.Info("Container initialized successfully",
		logging.F("store_path", cfg.Store.Path))

	return &Container{
		logger:  logger,
		config:  cfg,
		store:   st,
		service: svc,
		reports: report.NewGenerator(logger, delimiter),
		session: rules.NewSession(),
	}, nil
}

// GetReader returns a statement reader for format. CSV options left at their
// zero value fall back to the configured delimiter and date format.
func (c *Container) GetReader(format parser.Format, opts csvimport.ParseOptions) (parser.Reader, error) {
	if opts.Delimiter == 0 {
		d, err := csvimport.DelimiterFromString(c.config.CSV.Delimiter)
		if err != nil {
			return nil, err
		}
		opts.Delimiter = d
	}
	if opts.DateFormat == "" {
		opts.DateFormat = c.config.CSV.DateFormat
	}
	return factory.GetReader(format, c.logger, factory.CSVSettings{
		Encoding: c.config.CSV.Encoding,
		Options:  opts,
	})
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the SQLite store.
func (c *Container) GetStore() *store.SQLiteStore {
	return c.store
}

// GetService returns the reconciliation service.
func (c *Container) GetService() *reconcile.Service {
	return c.service
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetSession returns the auto-match session of this process.
func (c *Container) GetSession() *rules.Session {
	return c.session
}

// Close releases the database connection.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
