// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"folio/internal/search"
	"folio/internal/service"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the on-disk post search index from the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SearchPath == "" {
			return fmt.Errorf("SEARCH_PATH must be set to reindex a persistent search index")
		}
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		idx, err := search.Open(cfg.SearchPath, slog.Default())
		if err != nil {
			return err
		}
		defer idx.Close()

		n, err := service.New(db, service.Options{Index: idx}).ReindexPosts(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("search index rebuilt", "posts", n, "path", cfg.SearchPath)
		return nil
	},
}
