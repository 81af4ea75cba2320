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

// WriteCountriesResults outputs the per-country ranking, dispatching based on the output format configured.
func WriteCountriesResults(result schema.CountriesResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtCount := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONCountries(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVRiskRows(csvWriter, result.Rows, fmtFloat, fmtCount)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the countries command; use table or analysis export")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCountriesTable(result, cfg, fmtFloat, fmtCount, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCountriesTable prints the ranking in a country-centric format.
func writeCountriesTable(result schema.CountriesResult, cfg *contract.Config, fmtFloat, fmtCount func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Country", "Name", "Cases", "Per 100K", "Score", "Label"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, r := range result.Rows {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			r.CountryCode,
			contract.TruncateName(r.CountryNameEN, nameWidth),
			fmtCount(r.DengueCases),
			formatNullable(r.CasesPer100K, fmtFloat, "-"),
			fmtFloat(r.RiskScore),
			labelFor(r.RiskScore, cfg),
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

	if _, err := fmt.Fprintf(writer, "Showing top %d countries for %d\n", len(result.Rows), result.Year); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %s scorer. Cache backend: %s\n", duration, cfg.Scorer, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
