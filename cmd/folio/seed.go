// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"github.com/spf13/cobra"

	"folio/internal/database"
	"folio/internal/fixtures"
	"folio/internal/service"
)

var (
	seedFixtures string
	seedAdmin    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default roles and optional YAML fixtures",
	Long: `Insert the default roles (admin, moderator, user) when the roles table
is empty. With --fixtures, also create the permissions, tags and category
tree listed in a YAML file; records that already exist are left alone.
With --admin, create an admin@folio.local account when no users exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.SeedRoles(ctx, db); err != nil {
			return err
		}
		if seedAdmin {
			if err := database.SeedAdmin(ctx, db); err != nil {
				return err
			}
		}
		if seedFixtures == "" {
			return nil
		}
		_, err = fixtures.LoadFile(ctx, service.New(db, service.Options{}), seedFixtures)
		return err
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFixtures, "fixtures", "", "YAML fixture file to load")
	seedCmd.Flags().BoolVar(&seedAdmin, "admin", false, "create a development admin account")
}
