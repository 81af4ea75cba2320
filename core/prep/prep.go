// Package prep turns raw indicator exports into the per-country/per-year
// feature table consumed by the scorers.
package prep

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/episense/episense/schema"
)

// ErrMissingColumn reports a required input column that is absent from the
// CSV header. It aborts the run before any output is produced.
var ErrMissingColumn = errors.New("missing required column")

// requiredColumns lists the columns every indicator export must carry.
var requiredColumns = []string{
	"indicator_name",
	"nombre_indicador",
	"spatial_dim_type",
	"spatial_dim",
	"spatial_dim_en",
	"spatial_dim_es",
	"time_dim_type",
	"time_dim",
	"numeric_value",
}

// LoadIndicatorRecords reads a raw indicator CSV file and returns
// normalized records.
func LoadIndicatorRecords(path string) ([]schema.IndicatorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open indicator file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadIndicatorRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadIndicatorRecords parses indicator records from CSV data. Indicator
// names are trimmed and lowercased in both languages, dimension types
// trimmed and uppercased. Rows whose numeric_value does not parse are
// skipped. A missing required column is fatal: no rows are returned.
func ReadIndicatorRecords(r io.Reader) ([]schema.IndicatorRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colIndex, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []schema.IndicatorRecord
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
			return row[idx]
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(field("numeric_value")), 64)
		if err != nil {
			continue
		}

		records = append(records, schema.IndicatorRecord{
			IndicatorNameEN: strings.ToLower(strings.TrimSpace(field("indicator_name"))),
			IndicatorNameES: strings.ToLower(strings.TrimSpace(field("nombre_indicador"))),
			SpatialDimType:  strings.ToUpper(strings.TrimSpace(field("spatial_dim_type"))),
			SpatialDim:      strings.TrimSpace(field("spatial_dim")),
			SpatialDimEN:    strings.TrimSpace(field("spatial_dim_en")),
			SpatialDimES:    strings.TrimSpace(field("spatial_dim_es")),
			TimeDimType:     strings.ToUpper(strings.TrimSpace(field("time_dim_type"))),
			TimeDim:         strings.TrimSpace(field("time_dim")),
			NumericValue:    value,
		})
	}

	return records, nil
}

// mapColumns resolves header names to their positions, rejecting headers
// that lack any required column. The first cell may carry a UTF-8 BOM.
func mapColumns(header []string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return colIndex, nil
}
