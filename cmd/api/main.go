// Package main is the entry point for the books API server.
// It wires together configuration, the database connection, and the HTTP router.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register the "pgx" driver with database/sql.
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Register the "postgres" driver with database/sql.
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite" // Register the "sqlite" driver with database/sql.

	"github.com/aoideee/books-api/internal/books"
	"github.com/aoideee/books-api/internal/data"
)

// appVersion is the current version of the API, shown in logs and on /status.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config    serverConfig   // Server configuration resolved at startup
	logger    *slog.Logger   // Structured logger injected everywhere
	models    data.Models    // Record store
	books     *books.Service // Business rules on top of the store
	metrics   *httpMetrics   // Prometheus collectors and /metrics handler
	startedAt time.Time
	clock     func() time.Time // Source of "now"; the current year bounds validation
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Running it without a subcommand is the same
// as "serve".
func newRootCommand() *cobra.Command {
	settings := defaultConfig()
	var configPath string

	serve := func(cmd *cobra.Command, _ []string) error {
		if err := resolveConfig(cmd.Flags(), &settings, configPath); err != nil {
			return err
		}
		return runServer(settings)
	}

	root := &cobra.Command{
		Use:          "books-api",
		Short:        "JSON API for managing book records",
		SilenceUsage: true,
		RunE:         serve,
	}

	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv(envPrefix+"_CONFIG"), "Path to a YAML config file")
	bindFlags(root.PersistentFlags(), &settings)

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := resolveConfig(cmd.Flags(), &settings, configPath); err != nil {
					return err
				}
				return runMigrate(settings)
			},
		},
	)

	return root
}

// runServer opens the database, applies the schema if configured to, and
// serves HTTP until a shutdown signal arrives.
func runServer(settings serverConfig) error {
	logger, closeLog, err := newLogger(settings.Log, os.Stdout)
	if err != nil {
		return err
	}
	// Flush and close the log file once the server has stopped.
	defer closeLog()

	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	defer db.Close() // Close the pool cleanly when the server returns.

	logger.Info("database connection pool established", "driver", settings.DB.Driver)

	if settings.DB.AutoMigrate {
		if err := data.Migrate(context.Background(), db); err != nil {
			logger.Error(err.Error())
			return err
		}
	}

	models, err := data.NewModels(db)
	if err != nil {
		logger.Error(err.Error())
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "books"),
	)

	app := newApplication(settings, logger, models, registry)

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
	}
	return err
}

func runMigrate(settings serverConfig) error {
	logger, closeLog, err := newLogger(settings.Log, os.Stdout)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := data.Migrate(ctx, db); err != nil {
		logger.Error(err.Error())
		return err
	}

	logger.Info("schema is up to date", "driver", settings.DB.Driver)
	return nil
}

// newApplication bundles the dependencies shared by every handler.
func newApplication(settings serverConfig, logger *slog.Logger, models data.Models, registry *prometheus.Registry) *applicationDependencies {
	return &applicationDependencies{
		config:    settings,
		logger:    logger,
		models:    models,
		books:     books.NewService(models.Books, logger),
		metrics:   newHTTPMetrics(registry),
		startedAt: time.Now(),
		clock:     time.Now,
	}
}

// newLogger builds the process logger. When cfg.File is set the output is
// duplicated into that file; the returned func closes it.
func newLogger(cfg logConfig, stdout io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	out := stdout
	closeFn := func() {}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(stdout, f)
		closeFn = func() {
			f.Sync()
			f.Close()
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closeFn, nil
}

// openDB opens a connection pool for the configured driver and DSN,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sqlx.DB, error) {
	// Open only validates its arguments; it does not actually connect yet.
	db, err := sqlx.Open(settings.DB.Driver, settings.DB.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(settings.DB.MaxOpenConns)
	db.SetMaxIdleConns(settings.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(settings.DB.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
