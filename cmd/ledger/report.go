package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/go-revenue/internal/export"
	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/internal/services"
)

// rangeFlags are --from and --to. Without them a listing covers every date.
type rangeFlags struct {
	from, to string
}

func (rf *rangeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.from, "from", "", "first day included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rf.to, "to", "", "last day included (YYYY-MM-DD)")
}

func (rf *rangeFlags) parseOr(defFrom, defTo models.Date) (models.Date, models.Date, error) {
	from, to := defFrom, defTo
	var err error
	if rf.from != "" {
		if from, err = models.ParseDate(rf.from); err != nil {
			return from, to, fmt.Errorf("--from: %w", err)
		}
	}
	if rf.to != "" {
		if to, err = models.ParseDate(rf.to); err != nil {
			return from, to, fmt.Errorf("--to: %w", err)
		}
	}
	if to.Before(from.Time) {
		return from, to, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}

func (rf *rangeFlags) parse() (models.Date, models.Date, error) {
	return rf.parseOr(
		models.NewDate(time.Date(1, 1, 1, 0, 0, 0, 0, time.Local)),
		models.NewDate(time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)),
	)
}

func newReportCmd(c *cli) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print key metrics for a period (default: last 30 days)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := models.NewDate(time.Now())
			from, to, err := rf.parseOr(today.AddDays(-30), today)
			if err != nil {
				return err
			}
			a, err := c.reports.Analytics(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := a.Summary
			fmt.Fprintf(out, "Period          %s to %s\n", s.From, s.To)
			fmt.Fprintf(out, "Total revenue   %s\n", s.Revenue.StringFixed(2))
			fmt.Fprintf(out, "Total expenses  %s\n", s.Expenses.StringFixed(2))
			fmt.Fprintf(out, "Net profit      %s\n", s.NetProfit.StringFixed(2))
			fmt.Fprintf(out, "Profit margin   %s%%\n", s.ProfitMargin.StringFixed(1))
			fmt.Fprintf(out, "Items sold      %d\n", s.ItemsSold)
			if len(a.TopProducts) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			return table(out, "PRODUCT\tREVENUE\tQTY", func(tw io.Writer) {
				for _, p := range a.TopProducts {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Name, p.Revenue.StringFixed(2), p.Quantity)
				}
			})
		},
	}
	rf.bind(cmd)
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		rf     rangeFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sales as csv or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, ok := export.ContentType(format); !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			from, to, err := rf.parse()
			if err != nil {
				return err
			}
			rows, err := c.store.SalesData(cmd.Context())
			if err != nil {
				return err
			}
			rows = services.SalesBetween(rows, from, to)
			if out == "" || out == "-" {
				return export.Write(cmd.OutOrStdout(), format, rows)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Write(f, format, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d sales exported to %s\n", len(rows), out)
			return nil
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
