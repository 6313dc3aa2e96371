// Package detect implements the detect command
package detect

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/csvimport"

	"github.com/spf13/cobra"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Detect the delimiter, header and column mapping of a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  detectFunc,
}

func delimiterName(d rune) string {
	if d == '\t' {
		return "tab"
	}
	return string(d)
}

func detectFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	text, err := csvimport.Decode(data, c.GetConfig().CSV.Encoding)
	if err != nil {
		return err
	}

	format := csvimport.DetectFormat(text)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "delimiter: %s\n", delimiterName(format.Delimiter))
	fmt.Fprintf(out, "header:    %t\n", format.HasHeader)

	if format.HasHeader && len(format.SampleRows) > 0 {
		m := csvimport.AutoDetectMapping(format.SampleRows[0])
		fmt.Fprintf(out, "mapping:   date=%d description=%d amount=%d", m.Date, m.Description, m.Amount)
		if m.Reference != nil {
			fmt.Fprintf(out, " reference=%d", *m.Reference)
		}
		if m.Debit != nil {
			fmt.Fprintf(out, " debit=%d", *m.Debit)
		}
		if m.Credit != nil {
			fmt.Fprintf(out, " credit=%d", *m.Credit)
		}
		fmt.Fprintln(out)
	}
	for _, row := range format.SampleRows {
		fmt.Fprintf(out, "  %s\n", strings.Join(row, " | "))
	}
	return nil
}
