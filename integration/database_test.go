//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestEpisenseWithMySQL tests the episense CLI with a MySQL backend.
func TestEpisenseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "episense",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/episense?parseTime=true", host, port.Port())

	runBackendScenario(t, "mysql", connStr)
}

// TestEpisenseWithPostgres tests the episense CLI with a PostgreSQL backend.
func TestEpisenseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario drives the CLI against one database backend: clear both
// stores, score a fixture twice so the second run reads the warm cache, then
// ask both stores for their status.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Helper()

	// Set environment variables
	_ = os.Setenv("EPISENSE_CACHE_BACKEND", backend)
	_ = os.Setenv("EPISENSE_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("EPISENSE_ANALYSIS_BACKEND", backend)
	_ = os.Setenv("EPISENSE_ANALYSIS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("EPISENSE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("EPISENSE_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("EPISENSE_ANALYSIS_BACKEND") }()
	defer func() { _ = os.Unsetenv("EPISENSE_ANALYSIS_DB_CONNECT") }()

	inputPath := writeIndicatorFixture(t)

	// Run episense cache clear
	_, err := runEpisenseCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run episense analysis clear
	_, err = runEpisenseCommand(t, "analysis", "clear")
	require.NoError(t, err)

	// Run episense table on the fixture (cold cache)
	output, err := runEpisenseCommand(t, "table", inputPath, "--limit", "5")
	require.NoError(t, err)
	require.Contains(t, output, "Analysis completed in")

	// Second run should hit the warm cache
	output, err = runEpisenseCommand(t, "table", inputPath, "--limit", "5")
	require.NoError(t, err)
	require.Contains(t, output, "Analysis completed in")

	// Run episense cache status
	_, err = runEpisenseCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run episense analysis status
	_, err = runEpisenseCommand(t, "analysis", "status")
	require.NoError(t, err)
}
