package schema

// Custom string types for type safety.
type (
	// FeatureKey represents keys used in the scoring feature vector.
	FeatureKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the status of a country series between two snapshots.
	Status string

	// ScorerKind represents the anomaly scorer implementation used.
	ScorerKind string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Feature keys used in the scoring logic, in model payload order.
const (
	FeatureCasesPer100K FeatureKey = "cases_per_100k" // case rate per 100k population
	FeatureLagCases1    FeatureKey = "lag_cases_1"    // previous year's cases
	FeatureLagCases2    FeatureKey = "lag_cases_2"    // cases two years back
	FeatureMA3Cases     FeatureKey = "ma3_cases"      // trailing 3-year moving average
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All status supported.
const (
	NewStatus      Status = "new"
	ActiveStatus   Status = "active"
	InactiveStatus Status = "inactive"
	UnknownStatus  Status = "unknown"
)

// All scorer kinds supported.
const (
	ForestScorer ScorerKind = "forest" // default
	ZScoreScorer ScorerKind = "zscore"
	RemoteScorer ScorerKind = "remote"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Normalized dimension values recognized by the pipeline.
const (
	CountryDim = "COUNTRY"
	YearTime   = "YEAR"
	MonthTime  = "MONTH"
)

// FeatureOrder is the canonical feature ordering for model payloads.
var FeatureOrder = []FeatureKey{
	FeatureCasesPer100K,
	FeatureLagCases1,
	FeatureLagCases2,
	FeatureMA3Cases,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidScorerKinds lists all valid scorer kinds.
var ValidScorerKinds = map[ScorerKind]struct{}{
	ForestScorer: {},
	ZScoreScorer: {},
	RemoteScorer: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
