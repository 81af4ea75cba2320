package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// alertsCmd lists countries above the alert threshold.
var alertsCmd = &cobra.Command{
	Use:   "alerts <input-csv>",
	Short: "List countries whose risk score clears the alert threshold",
	Long: `List every country whose risk score clears the alert threshold for one year.

Evaluates the selected year (latest by default) and keeps only rows at or above
the threshold, sorted by score descending. The list is never truncated by
--limit, so downstream consumers always see the full alert count.

Use cases:
- Morning triage - which countries need attention today
- Threshold tuning - inspect what a cutoff actually catches
- Feeding notification pipelines via json output

Examples:
  # Countries above the default threshold of 50
  episense alerts data/indicators.csv

  # Stricter cutoff for a specific year
  episense alerts data/indicators.csv --year 2019 --alert-threshold 75

  # Machine-readable alert list
  episense alerts data/indicators.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAlerts(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run alerts analysis", err)
		}
	},
}
