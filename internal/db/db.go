// Package db is the SQL backend of the record store, on gorm with the sqlite and
// postgres drivers.
package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/models"
)

const connectAttempts = 5

// Connect opens the database for a sqlite or postgres driver. Postgres is retried
// a few times so the server can come up alongside the process.
func Connect(ctx context.Context, driver, dsn string, debug bool, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	attempts := 1
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dsn = NormalizeDSN(dsn)
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_DSN is empty")
		}
		dialector = postgres.Open(dsn)
		attempts = connectAttempts
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	level := logger.Silent
	if debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var (
		gdb *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		gdb, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed", zap.Int("attempt", i), zap.Int("of", attempts), zap.Error(err))
		if i < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := gdb.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Info("database connected", zap.String("driver", driver), zap.String("dsn", MaskDSN(dsn)))
	return gdb, nil
}

// Migrate creates or updates the three tables.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Sale{}, &models.Expense{}); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}
