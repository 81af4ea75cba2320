package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/episense/episense/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each pipeline run.
func LogAnalysisHeader(cfg *contract.Config) {
	inputName := filepath.Base(cfg.InputPath)
	if inputName == "" || inputName == "." {
		inputName = "unknown"
	}

	// Line 1: The input and scorer summary
	// Line 2: The year filters applied to the table
	if cfg.UseEmojis {
		fmt.Printf("🔎 Input: %s (Scorer: %s)\n", inputName, cfg.Scorer)
		fmt.Printf("📅 Years: %s\n", describeYearRange(cfg))
		return
	}
	fmt.Printf("Input: %s (Scorer: %s)\n", inputName, cfg.Scorer)
	fmt.Printf("Years: %s\n", describeYearRange(cfg))
}

// LogCompareHeader prints a header for snapshot comparison runs.
func LogCompareHeader(cfg *contract.Config) {
	base := filepath.Base(cfg.BasePath)
	target := filepath.Base(cfg.TargetPath)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Scorer: %s\n", cfg.Scorer)
		fmt.Printf("📊 Comparing: %s ↔ %s\n", base, target)
		return
	}
	fmt.Printf("Scorer: %s\n", cfg.Scorer)
	fmt.Printf("Comparing: %s ↔ %s\n", base, target)
}

// describeYearRange renders the configured year filters for display.
func describeYearRange(cfg *contract.Config) string {
	switch {
	case cfg.StartYear > 0 && cfg.EndYear > 0:
		return fmt.Sprintf("%d → %d", cfg.StartYear, cfg.EndYear)
	case cfg.StartYear > 0:
		return fmt.Sprintf("%d → latest", cfg.StartYear)
	case cfg.EndYear > 0:
		return fmt.Sprintf("earliest → %d", cfg.EndYear)
	default:
		return "all years"
	}
}
