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

// WriteAlertsResults outputs countries whose score clears the alert threshold.
func WriteAlertsResults(result schema.AlertsResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtCount := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONAlerts(w, result)
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
		return fmt.Errorf("parquet output is not supported for the alerts command; use table or analysis export")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertsTable(result, cfg, fmtFloat, fmtCount, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeAlertsTable prints alerting countries, or a note when nothing clears the bar.
func writeAlertsTable(result schema.AlertsResult, cfg *contract.Config, fmtFloat, fmtCount func(float64) string, duration time.Duration, writer io.Writer) error {
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

	if len(result.Rows) > 0 {
		if _, err := fmt.Fprintf(writer, "%d alert(s) at threshold >= %s for %d\n", len(result.Rows), fmtFloat(result.Threshold), result.Year); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(writer, "No alerts at threshold >= %s for %d\n", fmtFloat(result.Threshold), result.Year); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %s scorer. Cache backend: %s\n", duration, cfg.Scorer, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
