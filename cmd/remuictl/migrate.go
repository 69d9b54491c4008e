package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	appMigrations "github.com/zakiByline/remui-kids-sub019/internal/app/migrations"
	"github.com/zakiByline/remui-kids-sub019/internal/bootstrap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the plugin tables",
	Long: `Create and/or upgrade the plugin tables.

Runs every pending SQL file of the migrations directory, substituting the
configured Moodle table prefix.

Example:
  remuictl migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, lgr, err := connect()
		if err != nil {
			return err
		}
		defer database.Close()
		return bootstrap.RunMigrations(cmd.Context(), cfg, database, lgr)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, lgr, err := connect()
		if err != nil {
			return err
		}
		defer database.Close()

		statuses, err := appMigrations.NewMigrator(database.Pool, database.Schema, lgr).Status(cmd.Context(), cfg.Database.MigrationsDir)
		if err != nil {
			return err
		}
		return writeMigrationStatus(cmd, statuses)
	},
}

func writeMigrationStatus(cmd *cobra.Command, statuses []appMigrations.Status) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tFILE\tSTATUS")
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, s.File, state)
	}
	return w.Flush()
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
