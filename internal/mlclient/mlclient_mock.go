package mlclient

import (
	"context"

	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/stretchr/testify/mock"
)

// MockScoringClient is a mock implementation of ScoringClient for testing.
type MockScoringClient struct {
	mock.Mock
}

var _ contract.ScoringClient = &MockScoringClient{} // Compile-time check

// Score implements the ScoringClient interface.
func (m *MockScoringClient) Score(ctx context.Context, rows []schema.FeatureRow) ([]float64, error) {
	args := m.Called(ctx, rows)
	scores, _ := args.Get(0).([]float64)
	return scores, args.Error(1)
}
