package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <input-csv>",
	Short: "Enforce risk ceilings for automated pipelines (fails on violations)",
	Long: `Score the input and enforce risk ceilings, exiting non-zero on violations.

Designed for scheduled data pipelines and CI jobs - the command fails with a
non-zero exit code when the selected year breaches either ceiling:
- more alerting countries than --max-alerts allows
- a top score at or above --max-risk (0 disables this ceiling)

Use cases:
- Data pipeline gates - halt publication when the picture worsens
- Surveillance SLAs - alert operators when thresholds are crossed
- Regression checks - ensure a revised extract stays within bounds

Examples:
  # Fail when any country alerts
  episense check data/indicators.csv --max-alerts 0

  # Tolerate two alerting countries but cap the top score
  episense check data/indicators.csv --max-alerts 2 --max-risk 90

  # Gate a specific year with a stricter alert threshold
  episense check data/indicators.csv --year 2019 --alert-threshold 60 --max-alerts 1`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Gate evaluation is done in ExecuteCheck
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Risk gate check failed", err)
		}
	},
}
