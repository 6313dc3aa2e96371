// Package rule implements the rules command and its subcommands
package rule

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/internal/models"
	"fjacquet/bankrec/internal/reconcile"
	"fjacquet/bankrec/internal/rules"
	"fjacquet/bankrec/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	ruleName    string
	accountCode string
	taxRate     string
	fromTx      string
	conditions  []string
	ignored     []string
)

// Cmd groups the bank rule subcommands
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage bank rules that code recurring transactions",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a bank rule",
	Long: `Create a bank rule.

Conditions are given as FIELD:OPERATOR:VALUE, for example
description:contains:SWISSCOM or amount:between:90,110. With --from-tx the
conditions are derived from a stored transaction.`,
	Args: cobra.NoArgs,
	RunE: createFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank rules",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var applyCmd = &cobra.Command{
	Use:   "apply TRANSACTION_ID RULE_ID",
	Short: "Code a transaction with the account code of a rule",
	Args:  cobra.ExactArgs(2),
	RunE:  applyFunc,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest TRANSACTION_ID",
	Short: "Show the rules that match a transaction, grouped by confidence",
	Args:  cobra.ExactArgs(1),
	RunE:  suggestFunc,
}

var loadCmd = &cobra.Command{
	Use:   "load FILE",
	Short: "Create the rules listed in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  loadFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the stored rules to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  exportFunc,
}

func init() {
	createCmd.Flags().StringVarP(&ruleName, "name", "n", "", "Rule name")
	createCmd.Flags().StringVar(&accountCode, "account-code", "", "Account code applied by the rule")
	createCmd.Flags().StringVar(&taxRate, "tax-rate", "", "Optional tax rate")
	createCmd.Flags().StringVar(&fromTx, "from-tx", "", "Derive the conditions from this transaction")
	createCmd.Flags().StringArrayVar(&conditions, "condition", nil, "Condition FIELD:OPERATOR:VALUE")

	suggestCmd.Flags().StringArrayVar(&ignored, "ignore", nil, "Rule id to ignore for this transaction")

	Cmd.AddCommand(createCmd, listCmd, applyCmd, suggestCmd, loadCmd, exportCmd)
}

// ParseCondition reads "FIELD:OPERATOR:VALUE". The value may contain colons.
func ParseCondition(s string) (models.RuleCondition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return models.RuleCondition{}, fmt.Errorf("condition %q must be FIELD:OPERATOR:VALUE", s)
	}
	return models.RuleCondition{
		Field:    strings.ToLower(strings.TrimSpace(parts[0])),
		Operator: strings.ToLower(strings.TrimSpace(parts[1])),
		Value:    strings.TrimSpace(parts[2]),
	}, nil
}

func createFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := root.Context(cmd)

	draft := models.RuleDraft{
		Name:        ruleName,
		AccountID:   root.SharedFlags.Account,
		AccountCode: accountCode,
	}
	if fromTx != "" {
		tx, err := c.GetStore().FetchTransaction(ctx, fromTx)
		if err != nil {
			return err
		}
		draft.Conditions = reconcile.GenerateRuleConditions(tx)
		if draft.Name == "" {
			draft.Name = tx.Description
		}
	}
	for _, raw := range conditions {
		cond, err := ParseCondition(raw)
		if err != nil {
			return err
		}
		draft.Conditions = append(draft.Conditions, cond)
	}
	if taxRate != "" {
		rate, err := decimal.NewFromString(taxRate)
		if err != nil {
			return fmt.Errorf("invalid tax rate %q: %w", taxRate, err)
		}
		draft.TaxRate = &rate
	}

	rule, err := c.GetService().CreateRule(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created rule %s (%s)\n", rule.ID, rule.Name)
	return nil
}

func printRule(w io.Writer, r models.BankRule) {
	state := "active"
	if !r.IsActive {
		state = "inactive"
	}
	fmt.Fprintf(w, "%s  %-8s  %-10s  %s\n", r.ID, state, r.AccountCode, r.Name)
	for _, cond := range r.Conditions {
		fmt.Fprintf(w, "    %s %s %q\n", cond.Field, cond.Operator, cond.Value)
	}
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	all, err := c.GetService().Rules(root.Context(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "No rules")
		return nil
	}
	for _, r := range all {
		printRule(out, r)
	}
	return nil
}

func applyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if err := c.GetService().ApplyRule(root.Context(cmd), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied rule %s to %s\n", args[1], args[0])
	return nil
}

func printBand(w io.Writer, title string, band []models.BucketedSuggestion) {
	if len(band) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, s := range band {
		fmt.Fprintf(w, "  %3d%%  %-10s  %s (%s)  [%s]\n", s.Confidence, s.AccountCode, s.RuleName, s.MatchedField, s.RuleID)
	}
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	txID := args[0]
	session := c.GetSession()
	for _, id := range ignored {
		session.Ignore(txID, id)
	}

	suggestions, err := c.GetService().AutoMatchSuggestions(root.Context(cmd), txID)
	if err != nil {
		return err
	}
	groups := rules.Group(session.Filter(txID, suggestions))

	out := cmd.OutOrStdout()
	if len(groups.High)+len(groups.Medium)+len(groups.Low) == 0 {
		fmt.Fprintln(out, "No matching rules")
		return nil
	}
	printBand(out, "High confidence", groups.High)
	printBand(out, "Medium confidence", groups.Medium)
	printBand(out, "Low confidence", groups.Low)
	return nil
}

func loadFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	defs, err := store.LoadRulesYAML(args[0])
	if err != nil {
		return err
	}

	ctx := root.Context(cmd)
	var errs []error
	created := 0
	for _, def := range defs {
		accountID := def.AccountID
		if accountID == "" {
			accountID = root.SharedFlags.Account
		}
		_, err := c.GetService().CreateRule(ctx, models.RuleDraft{
			Name:        def.Name,
			AccountID:   accountID,
			Conditions:  def.Conditions,
			AccountCode: def.AccountCode,
			TaxRate:     def.TaxRate,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", def.Name, err))
			continue
		}
		created++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d rules\n", created, len(defs))
	return errors.Join(errs...)
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	all, err := c.GetService().Rules(root.Context(cmd))
	if err != nil {
		return err
	}
	if err := store.SaveRulesYAML(args[0], all); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rules to %s\n", len(all), args[0])
	return nil
}
