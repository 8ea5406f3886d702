package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/logging"
	"github.com/diewo77/go-revenue/internal/metrics"
	"github.com/diewo77/go-revenue/internal/store"
)

var bootstrapOnlyFlag = flag.Bool("bootstrap-only", false, "Create missing collections and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := logging.SetLocation(cfg.App.Location); err != nil {
		logger.Warn("timezone config error", zap.Error(err))
	}

	m := metrics.New(cfg.App.MetricsPrefix)
	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Storage, logger, store.WithRecorder(m))
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer st.Close()

	if err := st.Bootstrap(ctx); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	if *bootstrapOnlyFlag {
		logger.Info("storage bootstrapped", zap.String("driver", cfg.Storage.Driver))
		return
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(st, m, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
