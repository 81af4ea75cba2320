package cmd

import (
	"errors"

	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd diffs two input snapshots per country.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare risk scores between two input snapshots.",
	Long: `Compare per-country risk between two indicator extracts to track how the picture evolved.

Each snapshot is scored independently against its own batch, then countries are
joined on their latest reported year. Ideal for:
- Reporting-cycle reviews - see what changed between data releases
- Data quality checks - catch countries that dropped out of the feed
- Trend tracking - monitor score deltas release over release
- Onboarding detection - spot countries appearing for the first time

The comparison shows before/after scores, score deltas, case deltas, and a
new/active/inactive status per country.

Examples:
  # Diff two data releases
  episense compare --base data/2023-extract.csv --target data/2024-extract.csv

  # Narrow the diff to the biggest movers
  episense compare --base old.csv --target new.csv --limit 10

  # Export the comparison for tracking
  episense compare --base old.csv --target new.csv --output csv --output-file deltas.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if !cfg.CompareMode {
			contract.LogFatal("Cannot run compare analysis", errors.New("base and target snapshots must be provided"))
		}
		if err := core.ExecuteComparison(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run compare analysis", err)
		}
	},
}
