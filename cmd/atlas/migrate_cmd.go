package main

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/atlas-hq/atlas-admin/pkg/configuration"
)

const migrationsDir = "migrations"

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(
		newGooseCmd("up", "Apply all pending migrations", goose.Up),
		newGooseCmd("down", "Roll back the most recent migration", goose.Down),
		newGooseCmd("status", "Print migration status", goose.Status),
	)
	return cmd
}

func newGooseCmd(use, short string, fn func(*sql.DB, string, ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(*cobra.Command, []string) error {
			conf := configuration.Use()
			db, err := goose.OpenDBWithDriver("pgx", conf.Database.ConnectionString())
			if err != nil {
				return errors.Wrap(err, "open database")
			}
			defer func() { _ = db.Close() }()
			return fn(db, migrationsDir)
		},
	}
}
