package schema

// MetricsFeature describes one model feature for display purposes.
type MetricsFeature struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Description string `json:"description"`
	NullPolicy  string `json:"null_policy"`
}

// MetricsScorer describes one scorer implementation for display purposes.
type MetricsScorer struct {
	Name       string   `json:"name"`
	Purpose    string   `json:"purpose"`
	Parameters []string `json:"parameters,omitempty"`
	Formula    string   `json:"formula,omitempty"`
}

// MetricsRenderModel contains all processed data needed for displaying
// feature and scorer definitions.
type MetricsRenderModel struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Features    []MetricsFeature  `json:"features"`
	Scorers     []MetricsScorer   `json:"scorers"`
	Labels      map[string]string `json:"labels"`
}
