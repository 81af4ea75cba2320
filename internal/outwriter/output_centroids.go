package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCentroidResults outputs the cleaned centroid reference table.
func WriteCentroidResults(records []schema.CentroidRecord, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONCentroids(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVCentroids(csvWriter, records)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the centroids command; use table or analysis export")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCentroidsTable(records, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCentroidsTable prints one row per country with fixed 4-decimal coordinates.
func writeCentroidsTable(records []schema.CentroidRecord, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"ISO3", "Latitude", "Longitude"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, r := range records {
		row := []string{
			r.ISO3,
			fmt.Sprintf("%.4f", r.Lat),
			fmt.Sprintf("%.4f", r.Lon),
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

	if _, err := fmt.Fprintf(writer, "Cleaned %d centroid rows in %v\n", len(records), duration); err != nil {
		return err
	}
	return nil
}
