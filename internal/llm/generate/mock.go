package generate

import (
	"context"
	"strings"

	"github.com/matthieukhl/stockpilot/internal/types"
)

type MockGenerator struct {
	model string
}

func NewMockGenerator(model string) *MockGenerator {
	return &MockGenerator{model: model}
}

func (g *MockGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	// Generate contextual response based on the prompt content
	lower := strings.ToLower(prompt)

	if strings.Contains(lower, "low stock") || strings.Contains(lower, "restock") {
		return g.generateRestockResponse(), nil
	}

	if strings.Contains(lower, "planner") || strings.Contains(lower, "execution plan") {
		return g.generatePlanResponse(), nil
	}

	if strings.Contains(lower, "analytics") || strings.Contains(lower, "trend") {
		return g.generateAnalyticsResponse(), nil
	}

	return g.generateGenericResponse(), nil
}

// ListModels reports a single mock model so model verification succeeds
func (g *MockGenerator) ListModels(ctx context.Context) ([]string, error) {
	return []string{g.model}, nil
}

func (g *MockGenerator) Model() string {
	return g.model + "-mock"
}

func (g *MockGenerator) generateRestockResponse() string {
	return `Based on the current inventory data, several products are running low.

- Reorder the three most depleted products before the end of the week
- Review supplier lead times for the affected categories
- Set a reorder point above the low-stock threshold for fast movers

CAVEATS:
Stock figures reflect the last recorded state, not in-flight deliveries.`
}

func (g *MockGenerator) generatePlanResponse() string {
	return `PHASE 1: Foundation (Weeks 1-2)
- Audit current inventory levels against the low-stock threshold
- Assign a manager as owner for category cleanup

PHASE 2: Implementation (Weeks 3-6)
- Rebalance stock across categories with the highest alert counts
- Introduce weekly stock reviews with the user team

PHASE 3: Optimization (Weeks 7-12)
- Track the health score and alert count as success metrics`
}

func (g *MockGenerator) generateAnalyticsResponse() string {
	return `Category counts and average prices indicate a concentrated catalog.

1. Measure the share of inventory value held by the top category
2. Compare low-stock counts per category against product counts
3. Monitor the health score weekly as a summary KPI`
}

func (g *MockGenerator) generateGenericResponse() string {
	return `Here is a summary based on the business data provided.

- Review the system status and health score for baseline context
- Check products flagged as low stock and prioritize restocking
- Verify user role distribution matches operational needs`
}

// Compile-time interface checks
var (
	_ types.Generator   = (*MockGenerator)(nil)
	_ types.ModelLister = (*MockGenerator)(nil)
)
