package cmd

import (
	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/spf13/cobra"
)

// centroidsCmd cleans a centroid reference file.
var centroidsCmd = &cobra.Command{
	Use:   "centroids <centroid-csv>",
	Short: "Clean a country centroid reference file",
	Long: `Validate and clean a country centroid reference CSV.

Reads rows with ISO, lat and lon columns and emits a cleaned list:
- ISO2 codes upgraded to ISO3 where a mapping exists
- Rows with unparseable or out-of-range coordinates dropped
- Duplicate codes deduped, keeping the first occurrence
- Output sorted by country code

The cleaned list is what map-based consumers join risk scores against.

Examples:
  # Clean the bundled centroid reference
  episense centroids data/country_centroids.csv

  # Write the cleaned rows as JSON
  episense centroids data/country_centroids.csv --output json --output-file centroids.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCentroids(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot clean centroid file", err)
		}
	},
}
