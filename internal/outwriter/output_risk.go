package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/internal/parquet"
	"github.com/episense/episense/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRiskTableResults outputs the full risk table, dispatching based on the output format configured.
func WriteRiskTableResults(rows []schema.RiskRow, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtCount := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRiskJSONResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRiskCSVResults(rows, cfg, fmtFloat, fmtCount); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeRiskParquetResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskTable(rows, cfg, fmtFloat, fmtCount, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRiskJSONResults handles opening the file and calling the JSON writer.
func writeRiskJSONResults(rows []schema.RiskRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONRiskRows(w, rows)
	}, "Wrote JSON")
}

// writeRiskCSVResults handles opening the file and calling the CSV writer.
func writeRiskCSVResults(rows []schema.RiskRow, cfg *contract.Config, fmtFloat, fmtCount func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVRiskRows(csvWriter, rows, fmtFloat, fmtCount)
	}, "Wrote CSV")
}

// writeRiskParquetResults converts the rows and writes them to a Parquet file.
// Parquet is a binary format, so an explicit output file is required.
func writeRiskParquetResults(rows []schema.RiskRow, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	if err := parquet.WriteRiskTableParquet(parquet.ConvertRiskRows(rows), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeRiskTable generates and writes the human-readable table.
func writeRiskTable(rows []schema.RiskRow, cfg *contract.Config, fmtFloat, fmtCount func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Country", "Name", "Year", "Cases", "Population", "Per 100K", "MA3", "Score", "Label"}
	table.Header(headers)

	// 2. Keep numeric columns right-aligned
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, r := range rows {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			r.CountryCode,
			contract.TruncateName(r.CountryNameEN, nameWidth),
			strconv.Itoa(r.Year),
			fmtCount(r.DengueCases),
			formatNullable(r.Population, fmtCount, "-"),
			formatNullable(r.CasesPer100K, fmtFloat, "-"),
			fmtFloat(r.MA3Cases),
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

	// Compute summary stats
	countries := make(map[string]struct{}, len(rows))
	minYear, maxYear := 0, 0
	for _, r := range rows {
		countries[r.CountryCode] = struct{}{}
		if minYear == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	if len(rows) > 0 {
		if _, err := fmt.Fprintf(writer, "Showing %d rows across %d countries (years %d-%d)\n", len(rows), len(countries), minYear, maxYear); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(writer, "No rows to display\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %s scorer. Cache backend: %s\n", duration, cfg.Scorer, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
