package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/episense/episense/schema"
)

// writeJSONCentroids writes centroid records as indented JSON.
func writeJSONCentroids(w io.Writer, records []schema.CentroidRecord) error {
	return writeJSON(w, records)
}

// writeCSVCentroids writes centroid records with full coordinate precision.
func writeCSVCentroids(w *csv.Writer, records []schema.CentroidRecord) error {
	header := []string{"iso3", "lat", "lon"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		record := []string{
			r.ISO3,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
