// Package cmd defines the command-line interface for episense.
package cmd

import (
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(centroidsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("start-year", 0, "Inclusive lower bound on years (0 = unbounded)")
	rootCmd.PersistentFlags().Int("end-year", 0, "Inclusive upper bound on years (0 = unbounded)")
	rootCmd.PersistentFlags().IntP("year", "y", 0, "Year to evaluate for rankings and alerts (0 = latest in table)")
	rootCmd.PersistentFlags().StringP("country", "c", "", "ISO3 country code for timeseries analysis")
	rootCmd.PersistentFlags().String("scorer", string(schema.ForestScorer), "Anomaly scorer: forest or zscore or remote")
	rootCmd.PersistentFlags().Int("trees", contract.DefaultForestTrees, "Number of trees in the isolation forest")
	rootCmd.PersistentFlags().Int("subsample", contract.DefaultForestSubsample, "Subsample size per isolation tree")
	rootCmd.PersistentFlags().Int64("seed", contract.DefaultScorerSeed, "Random seed for the isolation forest")
	rootCmd.PersistentFlags().String("remote-url", "", "Scoring service URL for the remote scorer")
	rootCmd.PersistentFlags().Int("remote-timeout", contract.DefaultRemoteTimeoutSecs, "Remote scoring timeout in seconds")
	rootCmd.PersistentFlags().Float64("alert-threshold", contract.DefaultAlertThreshold, "Risk score threshold for alerts (0-100)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Skip the feature table cache and rebuild from the input")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("base", "", "Path to the BEFORE indicator CSV snapshot")
	compareCmd.Flags().String("target", "", "Path to the AFTER indicator CSV snapshot")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("max-risk", 0, "Fail when the top risk score reaches this ceiling (0 = disabled)")
	checkCmd.Flags().Int("max-alerts", 0, "Fail when more than this many countries alert")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
