// Package summary implements the summary command
package summary

import (
	"fjacquet/bankrec/cmd/common"
	"fjacquet/bankrec/cmd/root"

	"github.com/spf13/cobra"
)

var ledgerBalances []string

// Cmd compares statement balances with ledger balances
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Compare statement and ledger balances per account",
	Long: `Compare statement and ledger balances per account.

Ledger balances are given with --ledger ACCOUNT=BALANCE, once per account.
Accounts without a ledger balance are compared against zero.`,
	Args: cobra.NoArgs,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().StringArrayVar(&ledgerBalances, "ledger", nil, "Ledger balance ACCOUNT=BALANCE")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ledger, err := common.ParseLedgerBalances(ledgerBalances)
	if err != nil {
		return err
	}
	summaries, err := c.GetService().Summaries(root.Context(cmd), ledger)
	if err != nil {
		return err
	}
	if account := root.SharedFlags.Account; account != "" {
		filtered := summaries[:0]
		for _, s := range summaries {
			if s.AccountID == account {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	w, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := c.GetReportGenerator().WriteSummaries(w, summaries, root.SharedFlags.Format); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
