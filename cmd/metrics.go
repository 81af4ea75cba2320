package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of features and scorers.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display feature definitions and scoring formulas",
	Long: `Show the formal definitions of every feature and scorer.

Provides complete transparency into how rows are scored, including:
- Feature names, sources and null policies
- Scorer purposes and their tunable parameters
- The batch-relative rescaling formula behind the 0-100 score
- Label bands used in table output

No input analysis is performed - this is purely informational.

Use this to:
- Understand what each feature measures
- Explain the scoring methodology to your team
- Document how risk labels map to score ranges

Examples:
  # Show the definitions
  episense metrics

  # Definitions as JSON for docs tooling
  episense metrics --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
