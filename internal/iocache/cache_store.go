package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// tableNamePattern matches valid SQL identifiers for table names.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName rejects table names that cannot be used safely in
// interpolated DDL and DML statements.
func validateTableName(tableName string) error {
	if tableName == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(tableName) {
		return fmt.Errorf("invalid table name %q: must match %s", tableName, tableNamePattern.String())
	}
	return nil
}

// quoteTableName quotes a table name for the given backend.
// MySQL uses backticks, everything else uses double quotes.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + tableName + "`"
	}
	return `"` + tableName + `"`
}

// CacheStoreImpl implements CacheStore on top of a SQL database.
// It supports SQLite, MySQL and PostgreSQL backends, plus a no-op
// mode where db is nil and every read misses.
type CacheStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore creates a key-value store for cached feature tables.
// For SQLite an empty connStr falls back to the default DB file path.
// For MySQL and PostgreSQL, connStr must be a full connection string.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		// SQLite handles one writer at a time
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
		}

	case schema.NoneBackend:
		return &CacheStoreImpl{
			db:        nil,
			tableName: tableName,
			backend:   backend,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}

	store := &CacheStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}

	if err := store.createTable(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// getCreateTableQuery returns the CREATE TABLE statement for the backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key VARCHAR(255) PRIMARY KEY,
			cache_value BLOB,
			cache_version INT,
			cache_timestamp BIGINT
		)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key TEXT PRIMARY KEY,
			cache_value BYTEA,
			cache_version INTEGER,
			cache_timestamp BIGINT
		)`, quoted)
	default:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key TEXT PRIMARY KEY,
			cache_value BLOB,
			cache_version INTEGER,
			cache_timestamp INTEGER
		)`, quoted)
	}
}

func (c *CacheStoreImpl) createTable() error {
	query := getCreateTableQuery(c.tableName, c.backend)
	if _, err := c.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", c.tableName, err)
	}
	return nil
}

// getPlaceholder returns the first parameter placeholder for the backend.
func (c *CacheStoreImpl) getPlaceholder() string {
	if c.backend == schema.PostgreSQLBackend {
		return "$1"
	}
	return "?"
}

// getUpsertQuery returns the write-or-replace statement for the backend.
func (c *CacheStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(c.tableName, c.backend)
	switch c.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE
			cache_value = new.cache_value,
			cache_version = new.cache_version,
			cache_timestamp = new.cache_timestamp`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET
			cache_value = EXCLUDED.cache_value,
			cache_version = EXCLUDED.cache_version,
			cache_timestamp = EXCLUDED.cache_timestamp`, quoted)
	default:
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Get retrieves a cached value by key, along with its version and timestamp.
// A nil db always misses with sql.ErrNoRows.
func (c *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if c.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf("SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s",
		quoteTableName(c.tableName, c.backend), c.getPlaceholder())

	var value []byte
	var version int
	var timestamp int64
	if err := c.db.QueryRow(query, key).Scan(&value, &version, &timestamp); err != nil {
		return nil, 0, 0, err
	}
	return value, version, timestamp, nil
}

// Set stores a value under the given key, replacing any existing entry.
// A nil db makes this a no-op.
func (c *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if c.db == nil {
		return nil
	}

	if _, err := c.db.Exec(c.getUpsertQuery(), key, value, version, timestamp); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// GetStatus returns connection state, entry counts and a size estimate.
func (c *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(c.backend)}
	if c.db == nil {
		return status, nil
	}
	status.Connected = true

	quoted := quoteTableName(c.tableName, c.backend)

	var count int
	if err := c.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&count); err != nil {
		return status, fmt.Errorf("failed to count cache entries: %w", err)
	}
	status.TotalEntries = count

	// An empty table has no entry times and no size worth reporting.
	if count == 0 {
		return status, nil
	}

	var lastTS, oldestTS int64
	query := fmt.Sprintf("SELECT MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", quoted)
	if err := c.db.QueryRow(query).Scan(&lastTS, &oldestTS); err != nil {
		return status, fmt.Errorf("failed to read cache entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTS, 0)
	status.OldestEntryTime = time.Unix(oldestTS, 0)

	status.TableSizeBytes = c.getTableSize(count)
	return status, nil
}

// getTableSize estimates the on-disk size of the cache table in bytes.
// Each backend exposes this differently; failures fall back to a rough
// per-entry estimate rather than erroring the whole status call.
func (c *CacheStoreImpl) getTableSize(totalEntries int) int64 {
	var size int64
	switch c.backend {
	case schema.SQLiteBackend:
		query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := c.db.QueryRow(query).Scan(&size); err == nil {
			return size
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(c.connStr)
		if err == nil {
			query := `SELECT COALESCE(data_length + index_length, 0)
				FROM information_schema.tables
				WHERE table_schema = ? AND table_name = ?`
			if err := c.db.QueryRow(query, cfg.DBName, c.tableName).Scan(&size); err == nil {
				return size
			}
		}
	case schema.PostgreSQLBackend:
		if err := c.db.QueryRow("SELECT pg_total_relation_size($1)", c.tableName).Scan(&size); err == nil {
			return size
		}
	}
	return int64(totalEntries) * 1000
}

// Close closes the underlying database connection.
func (c *CacheStoreImpl) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
