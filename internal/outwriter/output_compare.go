package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComparisonResults outputs the base-vs-target comparison, dispatching based on the output format configured.
func WriteComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtCount := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForComparison(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForComparison(csvWriter, result, fmtFloat, fmtCount)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the compare command; use table or analysis export")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(result, cfg, fmtFloat, fmtCount, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeComparisonTable writes the scores in a custom comparison format.
func writeComparisonTable(result schema.ComparisonResult, cfg *contract.Config, fmtFloat, fmtCount func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// --- 1. Define Headers (Comparison Mode) ---
	// Note: Use clear headers for base, target, and the change (Delta)
	headers := []string{
		"Rank",
		"Country",
		"Name",
		"Before",
		"After",
		"Delta",
		"Status",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	var red, green, yellow func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	nameWidth := getMaxTableNameWidth(cfg)
	for i, d := range result.Details {
		var deltaStr string
		deltaValue := d.Delta
		switch {
		case deltaValue > 0:
			// Explicitly add + sign
			deltaStr = red(fmt.Sprintf("+%.*f ▲", cfg.Precision, deltaValue))
		case deltaValue < 0:
			// Keeps the - sign from the float
			deltaStr = green(fmt.Sprintf("%.*f ▼", cfg.Precision, deltaValue))
		default:
			// For 0.0 deltas, format simply without an indicator
			deltaStr = yellow(fmt.Sprintf("%.*f", cfg.Precision, 0.0))
		}

		// Prepare the row data as a slice of strings
		row := []string{
			strconv.Itoa(i + 1), // Rank
			d.CountryCode,
			contract.TruncateName(d.CountryName, nameWidth),
			fmtFloat(d.BeforeScore), // Base Score
			fmtFloat(d.AfterScore),  // Target Score
			deltaStr,                // Delta Score
			string(d.Status),        // Status
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	numItems := len(result.Details)
	if _, err := fmt.Fprintf(writer, "Showing %d countries\n", numItems); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Net score delta: %s, Net case delta: %s\n", fmtFloat(result.Summary.NetScoreDelta), fmtCount(result.Summary.NetCasesDelta)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "New countries: %d, Inactive countries: %d, Active countries: %d\n", result.Summary.TotalNewCountries, result.Summary.TotalInactiveCountries, result.Summary.TotalActiveCountries); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Comparison completed in %v with %s scorer. Cache backend: %s\n", duration, cfg.Scorer, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
