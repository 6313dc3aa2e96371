// Package transactions implements the transactions and export commands
package transactions

import (
	"fmt"

	"fjacquet/bankrec/cmd/common"
	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"

	"github.com/spf13/cobra"
)

var unreconciledOnly bool

// Cmd lists stored transactions
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "List stored bank transactions",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

// ExportCmd writes transactions as CSV or JSON
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bank transactions as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE:  exportFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&unreconciledOnly, "unreconciled", "u", false, "Only show unreconciled transactions")
	ExportCmd.Flags().BoolVarP(&unreconciledOnly, "unreconciled", "u", false, "Only export unreconciled transactions")
}

func fetch(cmd *cobra.Command) ([]models.BankTransaction, error) {
	c, err := root.GetContainer()
	if err != nil {
		return nil, err
	}
	txs, err := c.GetService().Transactions(root.Context(cmd), root.SharedFlags.Account)
	if err != nil {
		return nil, err
	}
	if !unreconciledOnly {
		return txs, nil
	}
	out := txs[:0]
	for _, t := range txs {
		if !t.IsReconciled {
			out = append(out, t)
		}
	}
	return out, nil
}

func status(t models.BankTransaction) string {
	if !t.IsReconciled {
		return "open"
	}
	if entityType, id, ok := t.MatchRef(); ok {
		return entityType + ":" + id
	}
	return "reconciled"
}

func listFunc(cmd *cobra.Command, args []string) error {
	txs, err := fetch(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range txs {
		fmt.Fprintf(out, "%s  %s  %12s  %-18s  %s\n",
			t.ID, t.Date.Format(models.DateLayoutISO), models.FormatAmount(t.Amount), status(t), t.Description)
	}
	fmt.Fprintf(out, "%d transactions\n", len(txs))
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	txs, err := fetch(cmd)
	if err != nil {
		return err
	}
	w, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := c.GetReportGenerator().WriteTransactions(w, txs, root.SharedFlags.Format); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
