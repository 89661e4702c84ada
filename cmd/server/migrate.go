package main

import (
	"github.com/Ayash-Bera/mentor/backend/internal/migration"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and apply SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap(cmd)
		if err != nil {
			return err
		}

		dbManager, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer dbManager.Close()

		return migration.NewRunner(dbManager, logger).RunMigrations(cfg.Database.MigrationsDir)
	},
}
