package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// countriesCmd ranks countries for a single year.
var countriesCmd = &cobra.Command{
	Use:   "countries <input-csv>",
	Short: "Rank countries by risk score for one year",
	Long: `Rank countries by anomaly risk score for a single year.

Scores the full batch, then narrows to the selected year (latest in the table
by default) so countries can be compared side by side, helping you:
- See which countries look most anomalous right now
- Review any historical year with --year
- Track a region's standing across reporting cycles

Examples:
  # Rank countries for the latest year in the table
  episense countries data/indicators.csv

  # Rank countries for a specific year
  episense countries data/indicators.csv --year 2019

  # Export the ranking as JSON
  episense countries data/indicators.csv --output json --output-file ranking.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCountries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run countries ranking", err)
		}
	},
}
