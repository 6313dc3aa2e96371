// Package match implements the match and suggest commands
package match

import (
	"errors"
	"fmt"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"

	"github.com/spf13/cobra"
)

var amountFlag string

// Cmd lists match candidates for a transaction
var Cmd = &cobra.Command{
	Use:   "match TRANSACTION_ID",
	Short: "List open invoices or bills that match a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  matchFunc,
}

// SuggestCmd ranks open items for a transaction or an amount
var SuggestCmd = &cobra.Command{
	Use:   "suggest [TRANSACTION_ID]",
	Short: "Rank open invoices or bills by match confidence",
	Args:  cobra.MaximumNArgs(1),
	RunE:  suggestFunc,
}

func init() {
	SuggestCmd.Flags().StringVar(&amountFlag, "amount", "", "Rank against a bare amount instead of a transaction")
}

func matchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	candidates, err := c.GetService().MatchCandidates(root.Context(cmd), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No matches found")
		return nil
	}
	for _, m := range candidates {
		fmt.Fprintf(out, "%-6s  %-7s %-12s  %12s  %s (%s)\n",
			m.Confidence, m.EntityType, m.EntityID, models.FormatAmount(m.Amount), m.Label, m.Reason)
	}
	return nil
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := root.Context(cmd)

	var suggestions []models.RankedSuggestion
	switch {
	case amountFlag != "":
		amount, err := models.ParseAmount(amountFlag)
		if err != nil {
			return err
		}
		suggestions, err = c.GetService().SuggestionsForAmount(ctx, amount)
		if err != nil {
			return err
		}
	case len(args) == 1:
		if suggestions, err = c.GetService().Suggestions(ctx, args[0]); err != nil {
			return err
		}
	default:
		return errors.New("suggest needs a transaction id or --amount")
	}

	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintf(out, "%.2f  %-7s %-12s  %12s  %s - %s\n",
			s.Confidence, s.EntityType, s.EntityID, models.FormatAmount(s.Amount), s.Reference, s.Contact)
	}
	return nil
}
