package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// timeseriesCmd tracks one country's scores over the years.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries <input-csv>",
	Short: "Track how one country's risk score evolves year over year",
	Long: `Show the year-ordered series of cases, rates and risk scores for one country.

Scores the full batch first so every point is comparable to the rest of the
table, then extracts the selected country's rows in ascending year order,
helping you:
- Spot the year an outbreak signal first appeared
- Check whether a country's risk is trending up or down
- Compare the raw case curve against the anomaly score

Examples:
  # Brazil's scored history
  episense timeseries data/indicators.csv --country BRA

  # A narrower window of Colombia's series
  episense timeseries data/indicators.csv --country COL --start-year 2015 --end-year 2022

  # Export a country's series for plotting
  episense timeseries data/indicators.csv --country PER --output csv --output-file peru.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := contract.RevalidateCountry(cfg); err != nil {
			contract.LogFatal("Cannot run timeseries analysis", err)
		}
		if err := core.ExecuteTimeseries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run timeseries analysis", err)
		}
	},
}
