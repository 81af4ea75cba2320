package prep

import (
	"strings"
	"testing"

	"github.com/episense/episense/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indicatorHeader = "indicator_name,nombre_indicador,spatial_dim_type,spatial_dim,spatial_dim_en,spatial_dim_es,time_dim_type,time_dim,numeric_value"

func TestReadIndicatorRecords(t *testing.T) {
	csvData := indicatorHeader + "\n" +
		"  Dengue Cases  ,  Casos de Dengue  ,  country  ,BRA,Brazil,Brasil,  year  ,2021,1200\n" +
		"Total Population,Población total,COUNTRY,BRA,Brazil,Brasil,YEAR,2021,214000000\n"

	records, err := ReadIndicatorRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "dengue cases", first.IndicatorNameEN)
	assert.Equal(t, "casos de dengue", first.IndicatorNameES)
	assert.Equal(t, "COUNTRY", first.SpatialDimType)
	assert.Equal(t, "YEAR", first.TimeDimType)
	assert.Equal(t, "BRA", first.SpatialDim)
	assert.Equal(t, "2021", first.TimeDim)
	assert.Equal(t, 1200.0, first.NumericValue)

	assert.Equal(t, "población total", records[1].IndicatorNameES)
	assert.Equal(t, 214000000.0, records[1].NumericValue)
}

func TestReadIndicatorRecordsBOM(t *testing.T) {
	csvData := "\uFEFF" + indicatorHeader + "\n" +
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2020,800\n"

	records, err := ReadIndicatorRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PER", records[0].SpatialDim)
}

func TestReadIndicatorRecordsMissingColumn(t *testing.T) {
	headerWithoutValue := strings.TrimSuffix(indicatorHeader, ",numeric_value")
	csvData := headerWithoutValue + "\n" +
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2020\n"

	records, err := ReadIndicatorRecords(strings.NewReader(csvData))
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "numeric_value")
	assert.Nil(t, records)
}

func TestReadIndicatorRecordsSkipsUnparseableValues(t *testing.T) {
	csvData := indicatorHeader + "\n" +
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2020,not-a-number\n" +
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2021,\n" +
		"dengue cases,casos de dengue,COUNTRY,PER,Peru,Perú,YEAR,2022, 42.5 \n"

	records, err := ReadIndicatorRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2022", records[0].TimeDim)
	assert.Equal(t, 42.5, records[0].NumericValue)
}

func TestLoadIndicatorRecordsMissingFile(t *testing.T) {
	records, err := LoadIndicatorRecords("/nonexistent/indicators.csv")
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestReadIndicatorRecordsEmptyBody(t *testing.T) {
	records, err := ReadIndicatorRecords(strings.NewReader(indicatorHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadIndicatorRecordsKeepsNonCountryRows(t *testing.T) {
	// Geography filtering happens later; the loader keeps everything.
	csvData := indicatorHeader + "\n" +
		"dengue cases,casos de dengue,REGION,AMRO,Americas,Américas,YEAR,2020,5000\n"

	records, err := ReadIndicatorRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "REGION", records[0].SpatialDimType)

	cases, population := SplitSubsets(records)
	assert.Empty(t, cases)
	assert.Empty(t, population)
}

func TestSplitSubsetsBothClassifiers(t *testing.T) {
	records := []schema.IndicatorRecord{
		{
			IndicatorNameEN: "dengue cases reported",
			SpatialDimType:  schema.CountryDim,
			SpatialDim:      "COL",
		},
		{
			IndicatorNameEN: "total population",
			SpatialDimType:  schema.CountryDim,
			SpatialDim:      "COL",
		},
		{
			IndicatorNameEN: "immunization coverage",
			IndicatorNameES: "cobertura de vacunación",
			SpatialDimType:  schema.CountryDim,
			SpatialDim:      "COL",
		},
	}

	cases, population := SplitSubsets(records)
	require.Len(t, cases, 1)
	require.Len(t, population, 1)
	assert.Equal(t, "dengue cases reported", cases[0].IndicatorNameEN)
	assert.Equal(t, "total population", population[0].IndicatorNameEN)
}
