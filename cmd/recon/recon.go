// Package recon implements the reconcile, undo, bulk-reconcile and split
// commands.
package recon

import (
	"errors"
	"fmt"

	"fjacquet/bankrec/cmd/common"
	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/reconcile"

	"github.com/spf13/cobra"
)

var (
	matchType      string
	matchID        string
	matchReference string
	splitLines     []string
)

// Cmd accepts a match for a transaction
var Cmd = &cobra.Command{
	Use:   "reconcile TRANSACTION_ID",
	Short: "Reconcile a transaction against an invoice, bill or payment",
	Args:  cobra.ExactArgs(1),
	RunE:  reconcileFunc,
}

// UndoCmd clears the reconciliation of a transaction
var UndoCmd = &cobra.Command{
	Use:   "undo TRANSACTION_ID",
	Short: "Undo the reconciliation of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  undoFunc,
}

// BulkCmd marks several transactions reconciled
var BulkCmd = &cobra.Command{
	Use:   "bulk-reconcile TRANSACTION_ID...",
	Short: "Mark several transactions as reconciled",
	Args:  cobra.MinimumNArgs(1),
	RunE:  bulkFunc,
}

// SplitCmd allocates a transaction across account codes
var SplitCmd = &cobra.Command{
	Use:   "split TRANSACTION_ID",
	Short: "Split a transaction across account codes",
	Long: `Split a transaction across account codes.

Each --line has the form ACCOUNT:AMOUNT[:TAX_RATE[:DESCRIPTION]] and the
lines must add up to the transaction amount.`,
	Args: cobra.ExactArgs(1),
	RunE: splitFunc,
}

func init() {
	Cmd.Flags().StringVarP(&matchType, "type", "t", "", "Match type: invoice, bill or payment")
	Cmd.Flags().StringVar(&matchID, "id", "", "Id of the matched invoice, bill or payment")
	Cmd.Flags().StringVar(&matchReference, "reference", "", "Reference stored as the transaction category")
	_ = Cmd.MarkFlagRequired("type")
	_ = Cmd.MarkFlagRequired("id")

	SplitCmd.Flags().StringArrayVarP(&splitLines, "line", "l", nil, "Split line ACCOUNT:AMOUNT[:TAX_RATE[:DESCRIPTION]]")
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	tx, err := c.GetService().Reconcile(root.Context(cmd), args[0], reconcile.ReconcileParams{
		MatchType:      matchType,
		MatchID:        matchID,
		MatchReference: matchReference,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %s against %s %s\n", tx.ID, matchType, matchID)
	return nil
}

func undoFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	tx, err := c.GetService().Undo(root.Context(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reconciliation of %s undone\n", tx.ID)
	return nil
}

func bulkFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	res := c.GetService().BulkReconcile(root.Context(cmd), args)
	fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d, failed %d\n", res.Reconciled, res.Failed)
	return nil
}

func splitFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	lines := make([]models.SplitLine, 0, len(splitLines))
	for _, raw := range splitLines {
		line, err := common.ParseSplitLine(raw)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	err = c.GetService().Split(root.Context(cmd), args[0], lines)
	var splitErr *reconcile.SplitError
	if errors.As(err, &splitErr) {
		return errors.New(splitErr.Message)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Split %s into %d lines\n", args[0], len(lines))
	return nil
}
