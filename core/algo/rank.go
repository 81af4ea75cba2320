package algo

import (
	"sort"

	"github.com/episense/episense/schema"
)

// RankRows sorts risk rows by score in descending order and returns the
// top 'limit' rows. If limit is greater than the number of rows, all
// rows are returned in sorted order.
func RankRows(rows []schema.RiskRow, limit int) []schema.RiskRow {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].RiskScore > rows[j].RiskScore
	})
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// FilterYear keeps the rows of one year, preserving order.
func FilterYear(rows []schema.RiskRow, year int) []schema.RiskRow {
	filtered := make([]schema.RiskRow, 0, len(rows))
	for _, row := range rows {
		if row.Year == year {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// FilterAlerts keeps the rows at or above the alert threshold, with a
// small tolerance so a score sitting exactly on the threshold still
// alerts after float rounding.
func FilterAlerts(rows []schema.RiskRow, threshold float64) []schema.RiskRow {
	filtered := make([]schema.RiskRow, 0, len(rows))
	for _, row := range rows {
		if row.RiskScore >= threshold-1e-5 {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
