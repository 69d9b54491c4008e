// Command remuictl runs operator tasks against the RemUI Kids database:
//
//	remuictl migrate            # apply pending plugin migrations
//	remuictl migrate status     # list migrations and whether they ran
//	remuictl seed               # insert missing dashboard toggles and starter rules
//	remuictl report overview --company 3
//	remuictl report warnings --company 3
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zakiByline/remui-kids-sub019/internal/bootstrap"
	"github.com/zakiByline/remui-kids-sub019/internal/config"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "remuictl",
	Short:         "Operator commands for the RemUI Kids school admin service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", bootstrap.ConfigPath(), "path to the YAML configuration")
}

// connect loads the configuration and opens the database for one command
func connect() (*config.Config, *db.PostgresDB, zerolog.Logger, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, nil, lgr, err
	}
	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, nil, lgr, err
	}
	return cfg, database, lgr, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
