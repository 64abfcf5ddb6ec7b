package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"priceScope/internal/config"
	"priceScope/internal/ingest"
	"priceScope/internal/report"
	"priceScope/internal/storage"
	"priceScope/internal/storage/postgres"
	"priceScope/internal/tracker"
)

func main() {
	root := &cobra.Command{
		Use:          "pricescope",
		Short:        "NADAC price change reporter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the top/bottom price change report",
		RunE:  runReport,
	}

	reportCmd.Flags().String("url", config.DefaultURL, "price change data URL")
	reportCmd.Flags().Int("count", 10, "number of top increases and decreases")
	reportCmd.Flags().Int("year", 2023, "price change year to report on")
	reportCmd.Flags().Duration("timeout", 0, "HTTP request timeout, 0 means none")
	reportCmd.Flags().Int("max-retries", 5, "maximum fetch retry attempts")
	reportCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	reportCmd.Flags().String("out", "", "optional report rows JSONL path")
	reportCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for report history")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.URL == "" {
		return fmt.Errorf("url is required")
	}
	if cfg.Count <= 0 {
		return fmt.Errorf("count must be greater than zero")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes, err := tracker.New(cfg.Count)
	if err != nil {
		return err
	}

	sinks := make([]storage.Storage, 0, 2)
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	runner := ingest.NewRunner(ingest.Config{
		URL:          cfg.URL,
		Year:         cfg.Year,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, changes, logger)

	logger.Info("report start",
		zap.String("url", cfg.URL),
		zap.Int("count", cfg.Count),
		zap.Int("year", cfg.Year),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	fmt.Print(report.Build(changes, cfg.Count, cfg.Year))

	if len(sinks) > 0 {
		rows := report.Rows(changes, cfg.Year)
		for _, sink := range sinks {
			if err := sink.PutReportRows(ctx, rows); err != nil {
				return fmt.Errorf("store report rows: %w", err)
			}
		}
		logger.Info("report rows stored", zap.Int("rows", len(rows)), zap.Int("sinks", len(sinks)))
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
