package store

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/db"
	"github.com/diewo77/go-revenue/internal/store/boltdb"
	"github.com/diewo77/go-revenue/internal/store/csvfile"
)

// Open builds the backend named by cfg.Driver and wraps it in a Store logging to
// log. SQL statements are logged when log has debug enabled. The store is not
// bootstrapped; call Bootstrap before the first read.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	debug := log.Core().Enabled(zap.DebugLevel)

	var backend Backend
	switch cfg.Driver {
	case config.DriverCSV:
		backend = csvfile.New(cfg.Root)
	case config.DriverBolt:
		if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", cfg.Root, err)
		}
		b, err := boltdb.Open(cfg.BoltPath())
		if err != nil {
			return nil, err
		}
		backend = b
	case config.DriverSQLite, config.DriverPostgres:
		dsn := cfg.DSN
		if cfg.Driver == config.DriverSQLite {
			if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir %s: %w", cfg.Root, err)
			}
			dsn = cfg.SQLiteDSN()
		}
		gdb, err := db.Connect(ctx, cfg.Driver, dsn, debug, log)
		if err != nil {
			return nil, err
		}
		backend = db.NewBackend(gdb)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	log.Info("storage opened", zap.String("driver", cfg.Driver), zap.String("root", cfg.Root))
	return New(backend, append([]Option{WithLogger(log)}, opts...)...), nil
}
