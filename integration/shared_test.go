//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	// sharedEpisensePath holds the path to a shared episense binary built once for all tests.
	sharedEpisensePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getEpisenseBinary returns the path to the episense binary, building it once if needed.
func getEpisenseBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "episense-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		episensePath := filepath.Join(tempDir, "episense")
		buildCmd := exec.Command("go", "build", "-o", episensePath, "./cmd/episense")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build episense: %v", err))
		}

		sharedEpisensePath = episensePath
	})

	return sharedEpisensePath
}

// writeIndicatorFixture writes a small dengue indicator CSV and returns its
// absolute path. Brazil 2022 is a deliberate outlier so every scorer ranks it
// first.
func writeIndicatorFixture(t *testing.T) string {
	t.Helper()

	lines := []string{
		"indicator_name,nombre_indicador,spatial_dim_type,spatial_dim,spatial_dim_en,spatial_dim_es,time_dim_type,time_dim,numeric_value",
		"dengue cases,casos de dengue,COUNTRY,BRA,Brazil,Brasil,YEAR,2020,1000",
		"dengue cases,casos de dengue,COUNTRY,BRA,Brazil,Brasil,YEAR,2021,1500",
		"dengue cases,casos de dengue,COUNTRY,BRA,Brazil,Brasil,YEAR,2022,90000",
		"dengue cases,casos de dengue,COUNTRY,COL,Colombia,Colombia,YEAR,2020,400",
		"dengue cases,casos de dengue,COUNTRY,COL,Colombia,Colombia,YEAR,2021,450",
		"dengue cases,casos de dengue,COUNTRY,COL,Colombia,Colombia,YEAR,2022,500",
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2020,200",
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2021,220",
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2022,240",
		"total population,población total,COUNTRY,BRA,Brazil,Brasil,YEAR,2020,210000000",
		"total population,población total,COUNTRY,BRA,Brazil,Brasil,YEAR,2021,212000000",
		"total population,población total,COUNTRY,BRA,Brazil,Brasil,YEAR,2022,213000000",
		"total population,población total,COUNTRY,COL,Colombia,Colombia,YEAR,2020,50000000",
		"total population,población total,COUNTRY,COL,Colombia,Colombia,YEAR,2021,51000000",
		"total population,población total,COUNTRY,COL,Colombia,Colombia,YEAR,2022,51500000",
		"total population,población total,COUNTRY,PER,Peru,Perú,YEAR,2020,32000000",
		"total population,población total,COUNTRY,PER,Peru,Perú,YEAR,2021,33000000",
		"total population,población total,COUNTRY,PER,Peru,Perú,YEAR,2022,33500000",
	}

	path := filepath.Join(t.TempDir(), "indicators.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write indicator fixture: %v", err)
	}
	return path
}

// runEpisenseCommand runs the shared binary from the project root and returns
// its combined output alongside any execution error.
func runEpisenseCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	episensePath := getEpisenseBinary()
	cmd := exec.Command(episensePath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
