package prep

import (
	"sort"

	"github.com/episense/episense/schema"
)

// keyedValue is one observation resolved to its country-year key.
type keyedValue struct {
	key   schema.CountryYearKey
	value float64
}

// BuildFeatureTable aligns the case and population subsets of a record
// set into one feature row per country and year. Cases are authoritative:
// a year without a population match keeps its row with a null rate. Rows
// come back sorted by (country_code, year) ascending with per-country lag
// and moving-average features filled in.
func BuildFeatureTable(records []schema.IndicatorRecord) []schema.FeatureRow {
	caseRows, popRows := SplitSubsets(records)

	cases := sumByYear(yearlyValues(caseRows, false))
	population := meanByYear(yearlyValues(popRows, true))

	rows := joinSeries(cases, population)
	addTrailingFeatures(rows)
	return rows
}

// ExtractYear returns the year encoded in the leading four digits of a
// time value. ok is false when the value has no four-digit prefix.
func ExtractYear(timeDim string) (int, bool) {
	if len(timeDim) < 4 {
		return 0, false
	}
	year := 0
	for _, c := range timeDim[:4] {
		if c < '0' || c > '9' {
			return 0, false
		}
		year = year*10 + int(c-'0')
	}
	return year, true
}

// selectTimeType picks the working granularity for one subset: YEAR when
// any row carries it, otherwise MONTH. The choice is made per subset, so
// annual case counts can pair with monthly population figures.
func selectTimeType(rows []schema.IndicatorRecord) string {
	for _, rec := range rows {
		if rec.TimeDimType == schema.YearTime {
			return schema.YearTime
		}
	}
	return schema.MonthTime
}

// yearlyValues filters a subset to its working granularity and resolves
// each row to a country-year observation. Rows without a four-digit year
// prefix are dropped. Thousands-denominated values are scaled before any
// aggregation sees them.
func yearlyValues(rows []schema.IndicatorRecord, scaleThousands bool) []keyedValue {
	timeType := selectTimeType(rows)

	values := make([]keyedValue, 0, len(rows))
	for _, rec := range rows {
		if rec.TimeDimType != timeType {
			continue
		}
		year, ok := ExtractYear(rec.TimeDim)
		if !ok {
			continue
		}

		value := rec.NumericValue
		if scaleThousands && InThousands(rec) {
			value *= 1000
		}

		values = append(values, keyedValue{
			key: schema.CountryYearKey{
				CountryCode:   rec.SpatialDim,
				CountryNameEN: rec.SpatialDimEN,
				CountryNameES: rec.SpatialDimES,
				Year:          year,
			},
			value: value,
		})
	}
	return values
}

// sumByYear totals observations per key. Monthly case counts roll up to
// annual totals and duplicate annual rows collapse in the same pass.
func sumByYear(values []keyedValue) map[schema.CountryYearKey]float64 {
	sums := make(map[schema.CountryYearKey]float64, len(values))
	for _, kv := range values {
		sums[kv.key] += kv.value
	}
	return sums
}

// meanByYear averages observations per key, the population analog of
// sumByYear.
func meanByYear(values []keyedValue) map[schema.CountryYearKey]float64 {
	sums := make(map[schema.CountryYearKey]float64, len(values))
	counts := make(map[schema.CountryYearKey]int, len(values))
	for _, kv := range values {
		sums[kv.key] += kv.value
		counts[kv.key]++
	}

	means := make(map[schema.CountryYearKey]float64, len(sums))
	for key, sum := range sums {
		means[key] = sum / float64(counts[key])
	}
	return means
}

// joinSeries left-joins case totals with population means on the full
// country-year key and derives the incidence rate. The rate is null when
// population is missing or zero, never a division fault.
func joinSeries(cases, population map[schema.CountryYearKey]float64) []schema.FeatureRow {
	rows := make([]schema.FeatureRow, 0, len(cases))
	for key, total := range cases {
		row := schema.FeatureRow{
			CountryCode:   key.CountryCode,
			CountryNameEN: key.CountryNameEN,
			CountryNameES: key.CountryNameES,
			Year:          key.Year,
			DengueCases:   total,
		}
		if pop, ok := population[key]; ok {
			row.Population = schema.FloatPtr(pop)
			if pop != 0 {
				row.CasesPer100K = schema.FloatPtr(total / pop * 1e5)
			}
		}
		rows = append(rows, row)
	}

	// Name fields break ties so reruns order identically.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CountryCode != rows[j].CountryCode {
			return rows[i].CountryCode < rows[j].CountryCode
		}
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].CountryNameEN != rows[j].CountryNameEN {
			return rows[i].CountryNameEN < rows[j].CountryNameEN
		}
		return rows[i].CountryNameES < rows[j].CountryNameES
	})
	return rows
}

// addTrailingFeatures fills lag_cases_1, lag_cases_2 and ma3_cases in one
// left-to-right pass per country partition, carrying only two lag slots
// and a window of up to three trailing case counts. Rows must already be
// sorted by (country_code, year).
func addTrailingFeatures(rows []schema.FeatureRow) {
	var (
		prev1  *float64
		prev2  *float64
		window []float64
	)
	for i := range rows {
		if i == 0 || rows[i].CountryCode != rows[i-1].CountryCode {
			prev1, prev2 = nil, nil
			window = window[:0]
		}
		row := &rows[i]

		row.LagCases1 = prev1
		row.LagCases2 = prev2

		window = append(window, row.DengueCases)
		if len(window) > 3 {
			window = window[1:]
		}
		row.MA3Cases = meanOf(window)

		prev2 = prev1
		prev1 = schema.FloatPtr(row.DengueCases)
	}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
