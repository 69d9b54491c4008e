package main

import (
	"github.com/spf13/cobra"
	appRepos "github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert missing dashboard access toggles and starter training rules",
	Long: `Insert missing dashboard access toggles and starter training rules.

Existing settings and rules are left untouched, so the command can be run
after every deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, lgr, err := connect()
		if err != nil {
			return err
		}
		defer database.Close()

		repos := appRepos.NewRepositories(database.Pool, database.Schema)
		return seed.NewSeeder(repos, database.Pool, lgr).CreateDefaultData(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
