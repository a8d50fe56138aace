package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pmhscreen/internal/app"
	"pmhscreen/internal/config"
	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/scoring"
)

// NewBaselineCommand creates the 'screenctl baseline' command
func NewBaselineCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Print the historical reference dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, scoring.Baseline())
			}
			fmt.Fprintf(out, "Source: %s\n\n", scoring.BaselineSource)
			printSnapshot(out, scoring.Baseline())
			printNonMissing(out, scoring.BaselineNonMissing())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// NewAnalyticsCommand creates the 'screenctl analytics' command
func NewAnalyticsCommand() *cobra.Command {
	var (
		configPath string
		sqlitePath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print the baseline merged with every stored screening",
		Long: `Open the configured store and print the same snapshot the dashboard shows.
--sqlite reads a SQLite database directly, ignoring the configured driver.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if sqlitePath != "" {
				cfg.Store.Driver = config.DriverSQLite
				cfg.Store.SQLitePath = sqlitePath
			}

			ctx := context.Background()
			stores, err := app.OpenStores(ctx, cfg.Store, logger.Nop())
			if err != nil {
				return err
			}
			defer stores.Close(ctx)

			records, err := stores.Screenings.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("load screenings: %w", err)
			}
			snapshot := scoring.Aggregate(scoring.Baseline(), records)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, snapshot)
			}
			fmt.Fprintf(out, "Stored screenings: %d\n\n", len(records))
			printSnapshot(out, snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSnapshot(out io.Writer, s model.AnalyticsSnapshot) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintf(out, "Total responses: %d\n", s.TotalResponses)

	cyan.Fprintln(out, "\nRisk distribution")
	for _, k := range sortedKeys(s.RiskDistribution) {
		fmt.Fprintf(out, "  %-40s %d\n", k, s.RiskDistribution[k])
	}

	cyan.Fprintln(out, "\nPHQ-2 totals")
	for score := 0; score <= model.PHQ2TotalMax; score++ {
		fmt.Fprintf(out, "  %-40s %d\n", strconv.Itoa(score), s.PHQ2Distribution[score])
	}

	cyan.Fprintln(out, "\nRisk factors")
	for _, k := range model.RiskFactorNames {
		fmt.Fprintf(out, "  %-40s %d\n", k, s.RiskFactors[k])
	}

	cyan.Fprintln(out, "\nCare settings")
	for _, k := range sortedKeys(s.CareSettings) {
		fmt.Fprintf(out, "  %-40s %d\n", k, s.CareSettings[k])
	}
}

func printNonMissing(out io.Writer, counts map[string]int) {
	color.New(color.FgCyan, color.Bold).Fprintln(out, "\nAnswered per item")
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(out, "  %-40s %d\n", k, counts[k])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
