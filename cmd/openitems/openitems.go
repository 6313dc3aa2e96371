// Package openitems implements the open-items command
package openitems

import (
	"fmt"
	"os"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/store"

	"github.com/spf13/cobra"
)

var entityType string

// Cmd loads open invoices or bills into the database
var Cmd = &cobra.Command{
	Use:   "open-items FILE",
	Short: "Load open invoices or bills from a CSV file",
	Long: `Load open invoices or bills from a CSV file.

The file has the columns id, number, contact_name, amount_due and status. Rows
with an existing id replace the stored item.`,
	Args: cobra.ExactArgs(1),
	RunE: loadFunc,
}

func init() {
	Cmd.Flags().StringVarP(&entityType, "type", "t", models.EntityInvoice, "Item type: invoice or bill")
}

func loadFunc(cmd *cobra.Command, args []string) error {
	if entityType != models.EntityInvoice && entityType != models.EntityBill {
		return fmt.Errorf("unknown open item type: %s", entityType)
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("error opening open items file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close open items file")
		}
	}()

	items, err := store.ReadOpenItems(f)
	if err != nil {
		return err
	}
	if err := c.GetStore().SaveOpenItems(root.Context(cmd), entityType, items); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d %ss\n", len(items), entityType)
	return nil
}
