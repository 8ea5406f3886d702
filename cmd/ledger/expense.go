package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/diewo77/go-revenue/internal/services"
)

func newExpenseCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "expense", Short: "Record and list expenses"}

	add := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record an expense dated today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			if !amount.IsPositive() {
				return fmt.Errorf("amount must be greater than zero")
			}
			id, err := c.store.AddExpense(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expense %d recorded\n", id)
			return nil
		},
	}

	var rf rangeFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := rf.parse()
			if err != nil {
				return err
			}
			rows, err := c.store.Expenses(cmd.Context())
			if err != nil {
				return err
			}
			rows = services.ExpensesBetween(rows, from, to)
			return table(cmd.OutOrStdout(), "ID\tDATE\tDESCRIPTION\tAMOUNT", func(tw io.Writer) {
				for _, e := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Date, e.Description, e.Amount.StringFixed(2))
				}
			})
		},
	}
	rf.bind(list)

	cmd.AddCommand(add, list)
	return cmd
}
