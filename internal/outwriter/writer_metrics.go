package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/episense/episense/schema"
)

// writeJSONMetrics writes the metrics definitions in JSON format.
func writeJSONMetrics(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	return writeJSON(w, renderModel)
}

// writeCSVMetrics writes the metrics definitions in CSV format.
// Features and scorers share one sheet, disambiguated by the Kind column.
func writeCSVMetrics(w *csv.Writer, renderModel *schema.MetricsRenderModel) error {
	// Write header
	header := []string{"Kind", "Name", "Description", "Notes"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write each feature
	for _, f := range renderModel.Features {
		record := []string{"feature", f.Name, f.Description, f.NullPolicy}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	// Write each scorer
	for _, s := range renderModel.Scorers {
		notes := s.Formula
		if notes == "" {
			notes = strings.Join(s.Parameters, "|")
		}
		record := []string{"scorer", s.Name, s.Purpose, notes}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
