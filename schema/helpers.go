package schema

import "strings"

// FloatPtr returns a pointer to v. Convenience for optional numeric columns.
func FloatPtr(v float64) *float64 {
	return &v
}

// ValueOrZero returns the pointed-to value, or 0 when p is nil.
func ValueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// FloatPtrEqual compares two optional values, treating nil as equal only to nil.
func FloatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DisplayCountry formats a country for table output as "Name (CODE)".
// It falls back to the bare code when the English name is missing.
func DisplayCountry(nameEN, code string) string {
	name := strings.TrimSpace(nameEN)
	if name == "" {
		return code
	}
	return name + " (" + code + ")"
}

// LatestYear returns the maximum year present in rows, or 0 when rows is empty.
func LatestYear(rows []RiskRow) int {
	latest := 0
	for i := range rows {
		if rows[i].Year > latest {
			latest = rows[i].Year
		}
	}
	return latest
}

// CountryCodes returns the distinct country codes in rows, in first-seen order.
func CountryCodes(rows []RiskRow) []string {
	seen := make(map[string]struct{})
	var codes []string
	for i := range rows {
		code := rows[i].CountryCode
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}
