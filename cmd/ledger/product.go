package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/validation"
)

func newProductCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Manage the product catalog"}

	var notes string
	add := &cobra.Command{
		Use:   "add <name> <category> <price>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := models.Category(args[1])
			if !category.Valid() {
				return fmt.Errorf("unknown category %q (one of: %s)", args[1], categoryList())
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("price: %w", err)
			}
			id, err := c.store.AddProduct(cmd.Context(), args[0], category, price, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d added\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&notes, "notes", "", "free-form notes")

	var query string
	var categories []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := c.store.Products(cmd.Context())
			if err != nil {
				return err
			}
			cats := make([]models.Category, len(categories))
			for i, s := range categories {
				cats[i] = models.Category(s)
			}
			products = services.FilterProducts(products, query, cats)
			return table(cmd.OutOrStdout(), "ID\tNAME\tCATEGORY\tPRICE\tCREATED", func(tw io.Writer) {
				for _, p := range products {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.CreatedAt)
				}
			})
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "name contains (case-insensitive)")
	list.Flags().StringSliceVar(&categories, "category", nil, "restrict to categories")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a product that has no sales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParseDecimalInt(args[0])
			if err != nil {
				return fmt.Errorf("id: %w", err)
			}
			ok, err := c.store.RemoveProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("product %d has sales and cannot be removed", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d removed\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
