package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
)

// labelOrder fixes the display order for risk label bands, highest first.
var labelOrder = []string{contract.CriticalLabel, contract.HighLabel, contract.ModerateLabel, contract.LowLabel}

// WriteMetricsDefinitions displays the formal definitions of the model features and scorers.
// This is a static display that does not require reading any indicator file.
func WriteMetricsDefinitions(cfg *contract.Config) error {
	// Build the complete render model with all processed data
	renderModel := buildMetricsRenderModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeMetricsJSON(renderModel, cfg)
	case schema.CSVOut:
		return writeMetricsCSV(renderModel, cfg)
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the metrics command; use table or analysis export")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, renderModel, cfg)
		}, "Wrote text")
	}
}

// writeMetricsText displays metrics in human-readable text format.
func writeMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	title := renderModel.Title
	if cfg.UseEmojis {
		title = "📊 " + title
	}
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", strings.Repeat("=", len(renderModel.Title))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", renderModel.Description); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Features (in model payload order):\n"); err != nil {
		return err
	}
	for _, f := range renderModel.Features {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, f.Description); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Source: %s\n", f.Source); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Nulls: %s\n", f.NullPolicy); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Scorers:\n"); err != nil {
		return err
	}
	for _, s := range renderModel.Scorers {
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.Name, s.Purpose); err != nil {
			return err
		}
		if len(s.Parameters) > 0 {
			if _, err := fmt.Fprintf(w, "   Parameters: %s\n", strings.Join(s.Parameters, ", ")); err != nil {
				return err
			}
		}
		if s.Formula != "" {
			if _, err := fmt.Fprintf(w, "   Formula: %s\n", s.Formula); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Labels:\n"); err != nil {
		return err
	}
	for _, label := range labelOrder {
		if _, err := fmt.Fprintf(w, "   %-9s %s\n", label, renderModel.Labels[label]); err != nil {
			return err
		}
	}

	return nil
}

// writeMetricsJSON displays metrics in JSON format.
func writeMetricsJSON(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONMetrics(w, renderModel)
	}, "Wrote JSON")
}

// writeMetricsCSV displays metrics in CSV format.
func writeMetricsCSV(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		defer writer.Flush()
		return writeCSVMetrics(writer, renderModel)
	}, "Wrote CSV")
}

// buildMetricsRenderModel constructs the complete render model with all processed data.
func buildMetricsRenderModel(cfg *contract.Config) *schema.MetricsRenderModel {
	features := []schema.MetricsFeature{
		{
			Name:        string(schema.FeatureCasesPer100K),
			Source:      "dengue_cases / population * 1e5",
			Description: "Incidence rate, comparable across countries of different size",
			NullPolicy:  "null when population is null or zero; scored as 0",
		},
		{
			Name:        string(schema.FeatureLagCases1),
			Source:      "dengue_cases at year-1",
			Description: "Previous year's case count for the same country",
			NullPolicy:  "null when the prior year is absent; scored as 0",
		},
		{
			Name:        string(schema.FeatureLagCases2),
			Source:      "dengue_cases at year-2",
			Description: "Case count two years back for the same country",
			NullPolicy:  "null when that year is absent; scored as 0",
		},
		{
			Name:        string(schema.FeatureMA3Cases),
			Source:      "trailing mean of dengue_cases",
			Description: "Mean of up to the last 3 observed years including the current one",
			NullPolicy:  "always present",
		},
	}

	scorers := []schema.MetricsScorer{
		{
			Name:    string(schema.ForestScorer),
			Purpose: "Isolation forest fit on the full batch; anomalous rows isolate in fewer random splits",
			Parameters: []string{
				fmt.Sprintf("trees=%d", cfg.ForestTrees),
				fmt.Sprintf("subsample=%d", cfg.ForestSubsample),
				fmt.Sprintf("seed=%d", cfg.ScorerSeed),
			},
			Formula: "raw = 2^(-E[path] / c(subsample))",
		},
		{
			Name:    string(schema.ZScoreScorer),
			Purpose: "Deterministic baseline; distance from the batch mean in standard deviations",
			Formula: "raw = mean(|x - mu| / sigma)",
		},
		{
			Name:    string(schema.RemoteScorer),
			Purpose: "Delegates raw scoring to an external model service over HTTP",
			Parameters: []string{
				"remote-url",
				fmt.Sprintf("remote-timeout=%ds", int(cfg.RemoteTimeout.Seconds())),
			},
		},
	}

	return &schema.MetricsRenderModel{
		Title:       "EpiSense Risk Scoring",
		Description: "risk_score = 100 * (raw - min) / (max - min + 1e-9), batch-relative",
		Features:    features,
		Scorers:     scorers,
		Labels: map[string]string{
			contract.CriticalLabel: ">= 80",
			contract.HighLabel:     "60 - 79.9",
			contract.ModerateLabel: "40 - 59.9",
			contract.LowLabel:      "< 40",
		},
	}
}
