package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// tableCmd performs the full risk table analysis.
var tableCmd = &cobra.Command{
	Use:   "table <input-csv>",
	Short: "Show country-years ranked by anomaly risk score.",
	Long: `Run the full scoring pipeline and rank every country-year by risk score.

Builds the per-country/per-year feature table from long-format indicator rows,
scores the whole batch with the selected anomaly scorer, and ranks the result,
helping you:
- Surface outbreak-like years that deviate from a country's history
- Compare anomaly magnitude across countries on one 0-100 scale
- Feed scored rows into dashboards or notebooks via csv/json/parquet
- Build up run history when analysis tracking is enabled

Examples:
  # Score the PAHO dengue extract and show the top 20 rows
  episense table data/indicators.csv --limit 20

  # Use the deterministic z-score baseline
  episense table data/indicators.csv --scorer zscore

  # Delegate scoring to a model service
  episense table data/indicators.csv --scorer remote --remote-url http://scoring.internal/predict

  # Restrict the displayed window without changing the scores
  episense table data/indicators.csv --start-year 2015 --end-year 2023

  # Export findings to Parquet for DuckDB or pandas
  episense table data/indicators.csv --output parquet --output-file risk.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRiskTable(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run risk table analysis", err)
		}
	},
}
