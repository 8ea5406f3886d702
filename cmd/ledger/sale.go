package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/validation"
)

func newSaleCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "sale", Short: "Record and inspect sales"}

	add := &cobra.Command{
		Use:   "add <product-id> <quantity> <price>",
		Short: "Record a sale dated today",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := validation.ParseDecimalInt(args[0])
			if err != nil {
				return fmt.Errorf("product id: %w", err)
			}
			quantity, err := validation.ParseDecimalInt(args[1])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("price: %w", err)
			}
			id, err := c.store.AddSale(cmd.Context(), productID, int(quantity), price)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sale %d recorded\n", id)
			return nil
		},
	}

	var rf rangeFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List sales joined with their product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := rf.parse()
			if err != nil {
				return err
			}
			rows, err := c.store.SalesData(cmd.Context())
			if err != nil {
				return err
			}
			rows = services.SalesBetween(rows, from, to)
			err = table(cmd.OutOrStdout(), "ID\tDATE\tNAME\tCATEGORY\tQTY\tPRICE", func(tw io.Writer) {
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", r.SaleID, r.Date, r.Name, r.Category, r.Quantity, r.SalePrice.StringFixed(2))
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total %s\n", services.Revenue(rows).StringFixed(2))
			return nil
		},
	}
	rf.bind(list)

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParseDecimalInt(args[0])
			if err != nil {
				return fmt.Errorf("id: %w", err)
			}
			if err := c.store.RemoveSale(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sale %d removed\n", id)
			return nil
		},
	}

	orphans := &cobra.Command{
		Use:   "orphans",
		Short: "List sales whose product no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := c.store.OrphanedSales(cmd.Context())
			if err != nil {
				return err
			}
			return table(cmd.OutOrStdout(), "ID\tDATE\tPRODUCT\tQTY\tPRICE", func(tw io.Writer) {
				for _, s := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", s.ID, s.Date, s.ProductID, s.Quantity, s.Price.StringFixed(2))
				}
			})
		},
	}

	cmd.AddCommand(add, list, rm, orphans)
	return cmd
}
