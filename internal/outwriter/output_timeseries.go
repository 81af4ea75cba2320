package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTimeseriesResults outputs the year-by-year series for one country.
func WriteTimeseriesResults(result schema.TimeseriesResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtCount := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForTimeseries(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForTimeseries(csvWriter, result, fmtFloat, fmtCount)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the timeseries command; use table or analysis export")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimeseriesTable(result, cfg, fmtFloat, fmtCount, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeTimeseriesTable prints one row per observed year, oldest first.
func writeTimeseriesTable(result schema.TimeseriesResult, cfg *contract.Config, fmtFloat, fmtCount func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Year", "Cases", "Population", "Per 100K", "MA3", "Score", "Label"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, p := range result.Points {
		row := []string{
			strconv.Itoa(p.Year),
			fmtCount(p.DengueCases),
			formatNullable(p.Population, fmtCount, "-"),
			formatNullable(p.CasesPer100K, fmtFloat, "-"),
			fmtFloat(p.MA3Cases),
			fmtFloat(p.RiskScore),
			labelFor(p.RiskScore, cfg),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Series for %s (%s): %d observed years\n", result.CountryName, result.CountryCode, len(result.Points)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %s scorer. Cache backend: %s\n", duration, cfg.Scorer, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
