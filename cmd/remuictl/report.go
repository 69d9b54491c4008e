package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	appRepos "github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	appServices "github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

var reportCompanyID int64

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print school analytics without going through the API",
}

func analyticsService() (appServices.AnalyticsService, func(), error) {
	cfg, database, _, err := connect()
	if err != nil {
		return nil, nil, err
	}
	repos := appRepos.NewRepositories(database.Pool, database.Schema)
	svc := appServices.NewAnalyticsService(
		repos.AnalyticsRepository,
		appServices.NewAnalyticsSettings(cfg),
		nil,
		logger.Component("analytics"),
	)
	return svc, database.Close, nil
}

var reportOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Headline figures of a school as JSON",
	Example: `  remuictl report overview --company 3
  remuictl report overview          # every school`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := analyticsService()
		if err != nil {
			return err
		}
		defer closeDB()

		overview, err := svc.Overview(cmd.Context(), reportCompanyID)
		if err != nil {
			return err
		}
		return writeOverview(cmd, overview)
	},
}

var reportWarningsCmd = &cobra.Command{
	Use:     "warnings",
	Short:   "Students flagged by the early warning rules",
	Example: `  remuictl report warnings --company 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := analyticsService()
		if err != nil {
			return err
		}
		defer closeDB()

		warnings, err := svc.EarlyWarnings(cmd.Context(), reportCompanyID)
		if err != nil {
			return err
		}
		return writeWarnings(cmd, warnings)
	},
}

func writeOverview(cmd *cobra.Command, overview *models.SchoolOverview) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(overview)
}

func writeWarnings(cmd *cobra.Command, resp *dto.EarlyWarningsResponse) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%d students flagged (%d high, %d medium)\n", resp.Total, resp.High, resp.Medium)
	fmt.Fprintln(w, "SEVERITY\tSTUDENT\tGRADE LEVEL\tAVERAGE\tINACTIVE\tFLAGS")
	for _, s := range resp.Students {
		average := "-"
		if s.AverageGrade != nil {
			average = fmt.Sprintf("%.1f%%", *s.AverageGrade)
		}
		inactive := "never"
		if s.DaysInactive >= 0 {
			inactive = fmt.Sprintf("%dd", s.DaysInactive)
		}
		flags := make([]string, 0, len(s.Flags))
		for _, f := range s.Flags {
			flags = append(flags, string(f))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Severity, s.Name, s.GradeLevel, average, inactive, strings.Join(flags, ","))
	}
	return w.Flush()
}

func init() {
	reportCmd.PersistentFlags().Int64Var(&reportCompanyID, "company", 0, "school (IOMAD company) id, 0 for every school")
	reportCmd.AddCommand(reportOverviewCmd, reportWarningsCmd)
	rootCmd.AddCommand(reportCmd)
}
