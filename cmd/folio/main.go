// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Folio server and its maintenance
// commands. Every command loads configuration from the environment and
// installs the structured logger before running.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/logging"
)

// cfg is loaded by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Folio blog and CMS server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		level, err := logging.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(os.Stdout, loaded.Env, level))
		cfg = loaded

		slog.Info("configuration loaded", "env", cfg.Env, "db_driver", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, reindexCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// openDB connects to the configured database and applies pending
// migrations.
func openDB() (*sql.DB, database.Dialect, error) {
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	db, err := database.Connect(dialect, cfg.DSN())
	if err != nil {
		return nil, "", err
	}
	if err := database.Migrate(db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}
