package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
// fmtFloat renders rates and scores at the configured precision; fmtCount renders
// case and population counts without decimals.
func createFormatters(precision int) (fmtFloat, fmtCount func(float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtCount = func(v float64) string {
		return fmt.Sprintf("%.0f", v)
	}
	return fmtFloat, fmtCount
}

// formatNullable renders a nullable metric, using missing when the value is null.
func formatNullable(v *float64, format func(float64) string, missing string) string {
	if v == nil {
		return missing
	}
	return format(*v)
}

// labelFor picks the colorized or plain criticality label per config.
func labelFor(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return schema.GetPlainLabel(score)
}

// getMaxTableNameWidth calculates the maximum width for country names in table output
// based on terminal width and the fixed numeric columns.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: rank, code, year, cases,
	// population, rate, moving average, score, label.
	baseWidth := 70

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	// Calculate available space for the country name
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 40 {
		// The longest names in the reference data stay under this
		return 40
	}
	return available
}
