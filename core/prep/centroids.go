package prep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/episense/episense/schema"
)

// centroidColumns lists the columns a centroid reference file must carry.
var centroidColumns = []string{"ISO", "lat", "lon"}

// LoadCentroids reads a raw centroid reference CSV and returns cleaned
// records.
func LoadCentroids(path string) ([]schema.CentroidRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open centroid file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadCentroids(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadCentroids parses and cleans centroid reference rows. Country codes
// are upgraded to ISO3 where possible, rows with missing coordinates or
// codes are dropped, duplicates keep their first occurrence, and only
// coordinates inside the valid latitude/longitude ranges survive. Rows
// come back sorted by code.
func ReadCentroids(r io.Reader) ([]schema.CentroidRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}
	for _, col := range centroidColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []schema.CentroidRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(name string) string {
			idx := colIndex[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		iso3 := ToISO3(field("ISO"))
		if iso3 == "" {
			continue
		}
		lat, err := strconv.ParseFloat(field("lat"), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(field("lon"), 64)
		if err != nil {
			continue
		}

		records = append(records, schema.CentroidRecord{ISO3: iso3, Lat: lat, Lon: lon})
	}

	return CleanCentroids(records), nil
}

// CleanCentroids dedupes records by code keeping the first occurrence,
// then drops out-of-range coordinates and sorts by code. Dedupe runs
// before the range filter, so a duplicate never resurfaces when its
// first occurrence is filtered out.
func CleanCentroids(records []schema.CentroidRecord) []schema.CentroidRecord {
	seen := make(map[string]bool, len(records))
	cleaned := make([]schema.CentroidRecord, 0, len(records))
	for _, rec := range records {
		if seen[rec.ISO3] {
			continue
		}
		seen[rec.ISO3] = true

		if rec.Lat < -90 || rec.Lat > 90 || rec.Lon < -180 || rec.Lon > 180 {
			continue
		}
		cleaned = append(cleaned, rec)
	}

	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].ISO3 < cleaned[j].ISO3
	})
	return cleaned
}
