package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/logging"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/internal/store"
)

// cli carries the store opened by the root command for its subcommands.
type cli struct {
	dataDir  string
	driver   string
	dsn      string
	logLevel string

	store   *store.Store
	reports *services.ReportService
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Record products, sales and expenses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.store == nil {
				return nil
			}
			return c.store.Close()
		},
	}

	cfg := config.Load()
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", cfg.Storage.Root, "directory holding the collections")
	root.PersistentFlags().StringVar(&c.driver, "driver", cfg.Storage.Driver, "storage driver: csv, bolt, sqlite or postgres")
	root.PersistentFlags().StringVar(&c.dsn, "dsn", cfg.Storage.DSN, "database DSN for the sqlite and postgres drivers")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newProductCmd(c),
		newSaleCmd(c),
		newExpenseCmd(c),
		newReportCmd(c),
		newExportCmd(c),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	cfg.Log.Level = c.logLevel
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	if err := logging.SetLocation(cfg.App.Location); err != nil {
		logger.Warn("timezone config error", zap.Error(err))
	}

	sc := config.StorageConfig{Driver: c.driver, Root: c.dataDir, DSN: c.dsn}
	st, err := store.Open(ctx, sc, logger)
	if err != nil {
		return err
	}
	if err := st.Bootstrap(ctx); err != nil {
		st.Close()
		return err
	}
	c.store = st
	c.reports = services.NewReportService(st)
	return nil
}

func table(w io.Writer, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}
