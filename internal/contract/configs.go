package contract

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/episense/episense/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 25
	MaxResultLimit        = 1000
	DefaultPrecision      = 1
	DefaultAlertThreshold = 50.0

	DefaultForestTrees     = 200
	DefaultForestSubsample = 256
	DefaultScorerSeed      = 42

	DefaultRemoteTimeoutSecs = 7
	MinRemoteTimeoutSecs     = 1
	MaxRemoteTimeoutSecs     = 15
)

// CacheStaleAfter defines how long a cached feature table stays valid.
// Entries older than this are recomputed even on a key match.
const CacheStaleAfter = 7 * 24 * time.Hour

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string // Absolute path to the indicator CSV
	ResultLimit int
	StartYear   int    // Inclusive lower bound on years (0 = unbounded)
	EndYear     int    // Inclusive upper bound on years (0 = unbounded)
	Year        int    // Year selected for alerts/rankings (0 = latest in table)
	Country     string // ISO3 code selected for timeseries, uppercased

	Scorer          schema.ScorerKind
	ForestTrees     int
	ForestSubsample int
	ScorerSeed      int64
	RemoteURL       string
	RemoteTimeout   time.Duration

	AlertThreshold float64
	MaxRisk        float64 // Check gate: fail when top score >= this (0 = disabled)
	MaxAlerts      int     // Check gate: fail when alert count exceeds this

	CompareMode bool
	BasePath    string
	TargetPath  string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	NoCache bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit             int     `mapstructure:"limit"`
	StartYear         int     `mapstructure:"start-year"`
	EndYear           int     `mapstructure:"end-year"`
	Year              int     `mapstructure:"year"`
	Country           string  `mapstructure:"country"`
	Scorer            string  `mapstructure:"scorer"`
	Trees             int     `mapstructure:"trees"`
	Subsample         int     `mapstructure:"subsample"`
	Seed              int64   `mapstructure:"seed"`
	RemoteURL         string  `mapstructure:"remote-url"`
	RemoteTimeout     int     `mapstructure:"remote-timeout"`
	AlertThreshold    float64 `mapstructure:"alert-threshold"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Width             int     `mapstructure:"width"`
	NoCache           bool    `mapstructure:"no-cache"`
	CacheBackend      string  `mapstructure:"cache-backend"`
	CacheDBConnect    string  `mapstructure:"cache-db-connect"`
	AnalysisBackend   string  `mapstructure:"analysis-backend"`
	AnalysisDBConnect string  `mapstructure:"analysis-db-connect"`
	Emoji             string  `mapstructure:"emoji"`
	Color             string  `mapstructure:"color"`

	// --- Fields from compareCmd.Flags() ---
	Base   string `mapstructure:"base"`
	Target string `mapstructure:"target"`

	// --- Fields from checkCmd.Flags() ---
	MaxRisk   float64 `mapstructure:"max-risk"`
	MaxAlerts int     `mapstructure:"max-alerts"`
}

// Clone returns a copy of the Config struct.
// The config holds no reference types, so a value copy is a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// YearInRange reports whether year passes the configured start/end bounds.
func (c *Config) YearInRange(year int) bool {
	if c.StartYear > 0 && year < c.StartYear {
		return false
	}
	if c.EndYear > 0 && year > c.EndYear {
		return false
	}
	return true
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processYearRange(cfg, input); err != nil {
		return err
	}
	if err := processScorerSettings(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := processCompareInputs(ctx, cfg, input); err != nil {
		return err
	}
	if err := resolveInputPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return err
		}

		// Validate that cache and analysis use different databases
		if cfg.CacheBackend == cfg.AnalysisBackend && cfg.CacheBackend != schema.NoneBackend {
			// For SQLite, resolve to actual file paths to catch default path conflicts
			if cfg.CacheBackend == schema.SQLiteBackend {
				cacheDBPath := cfg.CacheDBConnect
				if cacheDBPath == "" {
					cacheDBPath = GetCacheDBFilePath()
				}
				analysisDBPath := cfg.AnalysisDBConnect
				if analysisDBPath == "" {
					analysisDBPath = GetAnalysisDBFilePath()
				}
				if cacheDBPath == analysisDBPath {
					return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
				}
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.NoCache = input.NoCache
	cfg.Country = strings.ToUpper(strings.TrimSpace(input.Country))

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 3. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	return nil
}

// processYearRange validates the year filters.
func processYearRange(cfg *Config, input *ConfigRawInput) error {
	if input.StartYear < 0 || input.EndYear < 0 || input.Year < 0 {
		return fmt.Errorf("year filters cannot be negative")
	}
	cfg.StartYear = input.StartYear
	cfg.EndYear = input.EndYear
	cfg.Year = input.Year

	if cfg.StartYear > 0 && cfg.EndYear > 0 && cfg.StartYear > cfg.EndYear {
		return fmt.Errorf("start year (%d) cannot be after end year (%d)", cfg.StartYear, cfg.EndYear)
	}
	if cfg.Year > 0 && !cfg.YearInRange(cfg.Year) {
		return fmt.Errorf("selected year %d falls outside the %d-%d range", cfg.Year, cfg.StartYear, cfg.EndYear)
	}

	return nil
}

// processScorerSettings validates the scorer selection and model knobs.
func processScorerSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.Scorer = schema.ScorerKind(strings.ToLower(input.Scorer))
	if _, ok := schema.ValidScorerKinds[cfg.Scorer]; !ok {
		return fmt.Errorf("invalid scorer '%s'. must be forest, zscore, remote", input.Scorer)
	}

	if input.Trees <= 0 {
		return fmt.Errorf("trees must be greater than 0 (received %d)", input.Trees)
	}
	cfg.ForestTrees = input.Trees

	if input.Subsample <= 0 {
		return fmt.Errorf("subsample must be greater than 0 (received %d)", input.Subsample)
	}
	cfg.ForestSubsample = input.Subsample

	cfg.ScorerSeed = input.Seed

	// --- Remote scorer settings ---
	if input.RemoteTimeout < MinRemoteTimeoutSecs || input.RemoteTimeout > MaxRemoteTimeoutSecs {
		return fmt.Errorf("remote-timeout must be between %d and %d seconds (received %d)",
			MinRemoteTimeoutSecs, MaxRemoteTimeoutSecs, input.RemoteTimeout)
	}
	cfg.RemoteTimeout = time.Duration(input.RemoteTimeout) * time.Second

	cfg.RemoteURL = strings.TrimSpace(input.RemoteURL)
	if cfg.Scorer == schema.RemoteScorer {
		if cfg.RemoteURL == "" {
			return fmt.Errorf("remote-url is required when using the remote scorer")
		}
		u, err := url.Parse(cfg.RemoteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote-url must be a valid http(s) URL (received %q)", cfg.RemoteURL)
		}
	}

	return nil
}

// processThresholds validates the alert threshold and check gate limits.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.AlertThreshold < 0.0 || input.AlertThreshold > 100.0 {
		return fmt.Errorf("alert-threshold must be between 0.0 and 100.0 (received %.2f)", input.AlertThreshold)
	}
	cfg.AlertThreshold = input.AlertThreshold

	if input.MaxRisk < 0.0 || input.MaxRisk > 100.0 {
		return fmt.Errorf("max-risk must be between 0.0 and 100.0 (received %.2f)", input.MaxRisk)
	}
	cfg.MaxRisk = input.MaxRisk

	if input.MaxAlerts < 0 {
		return fmt.Errorf("max-alerts cannot be negative (received %d)", input.MaxAlerts)
	}
	cfg.MaxAlerts = input.MaxAlerts

	return nil
}

// processCompareInputs handles the base and target snapshot paths.
func processCompareInputs(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	cfg.BasePath = strings.TrimSpace(input.Base)
	cfg.TargetPath = strings.TrimSpace(input.Target)

	if cfg.BasePath == "" && cfg.TargetPath == "" {
		cfg.CompareMode = false
		return nil
	}
	cfg.CompareMode = true

	if cfg.BasePath == "" {
		return fmt.Errorf("must specify --base when running the compare command")
	}
	if cfg.TargetPath == "" {
		return fmt.Errorf("must specify --target when running the compare command")
	}

	for _, p := range []*string{&cfg.BasePath, &cfg.TargetPath} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		if err := statRegularFile(abs); err != nil {
			return err
		}
		*p = abs
	}

	return nil
}

// RevalidateScorer re-checks the scorer selection after tool-call overrides.
func RevalidateScorer(cfg *Config) error {
	if _, ok := schema.ValidScorerKinds[cfg.Scorer]; !ok {
		return fmt.Errorf("invalid scorer '%s'. must be forest, zscore, remote", cfg.Scorer)
	}
	if cfg.Scorer == schema.RemoteScorer && cfg.RemoteURL == "" {
		return fmt.Errorf("remote-url is required when using the remote scorer")
	}
	return nil
}

// RevalidateYearRange re-checks the year filters after tool-call overrides.
func RevalidateYearRange(cfg *Config) error {
	if cfg.StartYear < 0 || cfg.EndYear < 0 || cfg.Year < 0 {
		return fmt.Errorf("year filters cannot be negative")
	}
	if cfg.StartYear > 0 && cfg.EndYear > 0 && cfg.StartYear > cfg.EndYear {
		return fmt.Errorf("start year (%d) cannot be after end year (%d)", cfg.StartYear, cfg.EndYear)
	}
	return nil
}

// RevalidateAlerts re-checks the alert threshold after tool-call overrides.
func RevalidateAlerts(cfg *Config) error {
	if cfg.AlertThreshold < 0.0 || cfg.AlertThreshold > 100.0 {
		return fmt.Errorf("alert-threshold must be between 0.0 and 100.0 (received %.2f)", cfg.AlertThreshold)
	}
	return nil
}

// RevalidateCountry re-checks the country selection for timeseries calls.
func RevalidateCountry(cfg *Config) error {
	if cfg.Country == "" {
		return fmt.Errorf("country is required for timeseries analysis")
	}
	if len(cfg.Country) != 3 {
		return fmt.Errorf("country must be a 3-letter ISO3 code (received %q)", cfg.Country)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveInputPath resolves the indicator CSV path. An empty path is allowed
// here; commands that need an input enforce its presence during setup.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	searchPath := strings.TrimSpace(input.InputPathStr)
	if searchPath == "" {
		cfg.InputPath = ""
		return nil
	}

	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	if err := statRegularFile(absSearchPath); err != nil {
		return err
	}

	cfg.InputPath = absSearchPath
	return nil
}

// statRegularFile errors unless path exists and is a regular file.
func statRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file %q is not readable: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %q is a directory, expected a CSV file", path)
	}
	return nil
}
