package prep

import (
	"regexp"
	"strings"

	"github.com/episense/episense/schema"
)

// Dengue case indicators, matched against normalized names in both
// languages.
var (
	casePatternEN = regexp.MustCompile(`\bdengue cases\b`)
	casePatternES = regexp.MustCompile(`\bdengue\b.*casos|\bcasos\b.*dengue`)
)

// Population indicators come in several shapes across exports, so the
// classifier stacks heuristics.
var (
	popThousandsEN = regexp.MustCompile(`population .*thousand`)
	popPrefixEN    = regexp.MustCompile(`^population\b`)
)

// IsCaseRow reports whether a record carries a dengue case count.
func IsCaseRow(rec schema.IndicatorRecord) bool {
	return casePatternEN.MatchString(rec.IndicatorNameEN) ||
		casePatternES.MatchString(rec.IndicatorNameES)
}

// IsPopulationRow reports whether a record carries a population figure.
func IsPopulationRow(rec schema.IndicatorRecord) bool {
	return strings.Contains(rec.IndicatorNameEN, "total population") ||
		popThousandsEN.MatchString(rec.IndicatorNameEN) ||
		popPrefixEN.MatchString(rec.IndicatorNameEN) ||
		strings.Contains(rec.IndicatorNameES, "poblaci")
}

// InThousands reports whether a population record's value is denominated
// in thousands and must be scaled up before use.
func InThousands(rec schema.IndicatorRecord) bool {
	return strings.Contains(rec.IndicatorNameEN, "thousand") ||
		strings.Contains(rec.IndicatorNameES, "mil")
}

// SplitSubsets restricts records to country-level geography and splits
// them into case rows and population rows. A record matching both
// classifiers lands in both subsets.
func SplitSubsets(records []schema.IndicatorRecord) (cases, population []schema.IndicatorRecord) {
	for _, rec := range records {
		if rec.SpatialDimType != schema.CountryDim {
			continue
		}
		if IsCaseRow(rec) {
			cases = append(cases, rec)
		}
		if IsPopulationRow(rec) {
			population = append(population, rec)
		}
	}
	return cases, population
}
