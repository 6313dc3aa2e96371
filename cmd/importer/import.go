// Package importer implements the import command
package importer

import (
	"fmt"

	"fjacquet/bankrec/cmd/common"
	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/csvimport"
	"fjacquet/bankrec/internal/factory"
	"fjacquet/bankrec/internal/logging"
	"fjacquet/bankrec/internal/parser"

	"github.com/spf13/cobra"
)

var (
	formatFlag    string
	delimiterFlag string
	dateFormat    string
	noHeader      bool
	dryRun        bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a CSV, OFX or CAMT.053 bank statement",
	Long: `Import reads a bank export, validates every row and stores the valid rows
as unreconciled transactions of --account. Use --dry-run to preview the rows
and the row-level errors without writing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&formatFlag, "type", "t", "", "Statement format: csv, ofx or camt (default: from file extension)")
	Cmd.Flags().StringVar(&delimiterFlag, "delimiter", "", "CSV delimiter: ',', ';' or 'tab' (default: detect)")
	Cmd.Flags().StringVar(&dateFormat, "date-format", "", "CSV date format: DD/MM/YYYY, MM/DD/YYYY or YYYY-MM-DD")
	Cmd.Flags().BoolVar(&noHeader, "no-header", false, "The CSV file has no header row")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview rows and errors without importing")
}

func readerFor(path string) (parser.Reader, error) {
	c, err := root.GetContainer()
	if err != nil {
		return nil, err
	}

	format := parser.Format(formatFlag)
	if format == "" {
		if format, err = factory.FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	var opts csvimport.ParseOptions
	if opts.Delimiter, err = csvimport.DelimiterFromString(delimiterFlag); err != nil {
		return nil, err
	}
	opts.DateFormat = dateFormat
	if noHeader {
		hasHeader := false
		opts.HasHeader = &hasHeader
	}
	return c.GetReader(format, opts)
}

func importFunc(cmd *cobra.Command, args []string) error {
	path := args[0]
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger()

	reader, err := readerFor(path)
	if err != nil {
		return err
	}
	rows, err := common.ReadStatementFile(reader, path, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		validation := csvimport.ValidateRows(rows)
		common.PrintRows(out, validation.Valid)
		for _, msg := range validation.Errors {
			fmt.Fprintln(out, msg)
		}
		fmt.Fprintf(out, "%d valid rows, %d errors (dry run, nothing imported)\n",
			len(validation.Valid), len(validation.Errors))
		return nil
	}

	account, err := root.RequireAccount(cmd)
	if err != nil {
		return err
	}
	result, err := c.GetService().Import(root.Context(cmd), account, rows)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(out, msg)
	}
	fmt.Fprintf(out, "Imported %d transactions into %s\n", result.Imported, account)
	log.Info("Import completed",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, result.Imported))
	return nil
}
