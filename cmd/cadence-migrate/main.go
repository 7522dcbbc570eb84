// Package main is the entry point for the Cadence schema administration tool.
// It carries no CLI framework so deploy scripts ship one small static binary.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/config"
	"github.com/mk-hx/cadence/internal/repository"
	"github.com/mk-hx/cadence/internal/repository/postgres"
	"github.com/mk-hx/cadence/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// schemaAdmin is the database surface this tool drives.
type schemaAdmin interface {
	repository.DatabaseHealth
	InitSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Cadence Schema Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "init":
		if err := withDatabase(func(ctx context.Context, db schemaAdmin) error {
			return db.InitSchema(ctx)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema initialized")

	case "drop":
		if len(os.Args) < 3 || os.Args[2] != "--force" {
			fmt.Fprintln(os.Stderr, "refusing to drop all data without --force")
			os.Exit(1)
		}
		if err := withDatabase(func(ctx context.Context, db schemaAdmin) error {
			return db.DropSchema(ctx)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "drop failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema dropped")

	case "ping":
		if err := withDatabase(func(ctx context.Context, db schemaAdmin) error {
			return db.Health(ctx)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "ping failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Database OK")

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// withDatabase loads configuration, opens the configured backend, runs fn
// and closes the handle.
func withDatabase(fn func(context.Context, schemaAdmin) error) error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CADENCE_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	var db schemaAdmin
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.NewDB(ctx, cfg.Database, logger)
	default:
		db, err = sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func printUsage() {
	fmt.Println(`Cadence Schema Tool

Usage:
  cadence-migrate <command> [arguments]

Commands:
  init        Create the schema (idempotent)
  drop        Drop all tables and their data (requires --force)
  ping        Verify database connectivity
  version     Print version information
  help        Show this help message

Environment Variables:
  CADENCE_CONFIG             Path to the configuration file
  CADENCE_DATABASE_DRIVER    Database driver: sqlite (default) or postgres
  CADENCE_DATABASE_PATH      SQLite database file path
  CADENCE_DATABASE_HOST      PostgreSQL host (with the usual PORT, USER,
                             PASSWORD, DATABASE, SSL_MODE companions)

Examples:
  cadence-migrate init
  cadence-migrate ping
  CADENCE_DATABASE_DRIVER=postgres cadence-migrate init
  cadence-migrate drop --force`)
}
