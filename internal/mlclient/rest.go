// Package mlclient calls a remotely deployed anomaly scorer over HTTP.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/episense/episense/schema"
)

// ErrRemoteScoring marks every failure of the remote scoring exchange.
// Callers keep their previously computed scores when they see it.
var ErrRemoteScoring = errors.New("remote scoring failed")

// FeaturePayload is one record of the scoring request: exactly the four
// model features, nulls already replaced by zero.
type FeaturePayload struct {
	CasesPer100K float64 `json:"cases_per_100k"`
	LagCases1    float64 `json:"lag_cases_1"`
	LagCases2    float64 `json:"lag_cases_2"`
	MA3Cases     float64 `json:"ma3_cases"`
}

// scoreResponse is the scoring reply: one score per record, same order.
type scoreResponse struct {
	RiskScore []float64 `json:"risk_score"`
}

// HTTPScoringClient scores feature batches against a deployed inference
// endpoint.
type HTTPScoringClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPScoringClient returns a client for the given endpoint. The
// timeout bounds the whole request/response exchange.
func NewHTTPScoringClient(endpoint string, timeout time.Duration) *HTTPScoringClient {
	return &HTTPScoringClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Score posts the feature batch as a JSON array and returns one risk
// score per row, in submission order. Transport failures, timeouts,
// non-2xx statuses and malformed or mismatched replies all wrap
// ErrRemoteScoring.
func (c *HTTPScoringClient) Score(ctx context.Context, rows []schema.FeatureRow) ([]float64, error) {
	payload := make([]FeaturePayload, len(rows))
	for i, row := range rows {
		payload[i] = FeaturePayload{
			CasesPer100K: schema.ValueOrZero(row.CasesPer100K),
			LagCases1:    schema.ValueOrZero(row.LagCases1),
			LagCases2:    schema.ValueOrZero(row.LagCases2),
			MA3Cases:     row.MA3Cases,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrRemoteScoring, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrRemoteScoring, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteScoring, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: endpoint returned status %d", ErrRemoteScoring, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRemoteScoring, err)
	}

	return decodeScores(raw, len(rows))
}

// decodeScores extracts the risk scores from a response body. Some
// deployments wrap the JSON object in a JSON string, so that layer is
// peeled first.
func decodeScores(raw []byte, want int) ([]float64, error) {
	data := bytes.TrimSpace(raw)
	if len(data) > 0 && data[0] == '"' {
		var wrapped string
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: unwrap string body: %w", ErrRemoteScoring, err)
		}
		data = []byte(wrapped)
	}

	var resp scoreResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRemoteScoring, err)
	}
	if resp.RiskScore == nil {
		return nil, fmt.Errorf("%w: response missing 'risk_score'", ErrRemoteScoring)
	}
	if len(resp.RiskScore) != want {
		return nil, fmt.Errorf("%w: got %d scores for %d rows", ErrRemoteScoring, len(resp.RiskScore), want)
	}
	return resp.RiskScore, nil
}
