package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthieukhl/stockpilot/internal/metrics"
	"github.com/matthieukhl/stockpilot/internal/models"
)

func sampleContext(intent Intent) QueryContext {
	return QueryContext{
		Query:  "how is the business doing",
		Intent: intent,
		Role:   "manager",
		Digest: Digest{
			SystemStatus:    "excellent",
			HealthScore:     100,
			TotalProducts:   5,
			TotalCategories: 3,
			TotalUsers:      4,
			ActiveUsers:     3,
			InventoryValue:  2480.55,
			AvgPrice:        24.30,
			LowStockCount:   2,
		},
	}
}

func TestComposeIncludesBusinessState(t *testing.T) {
	prompt := NewPromptComposer(0).Compose(sampleContext(IntentSupervisor))

	assert.Contains(t, prompt, "System Status: excellent (Score: 100)")
	assert.Contains(t, prompt, "Total Products: 5 across 3 categories")
	assert.Contains(t, prompt, "Active Users: 3 out of 4 total users")
	assert.Contains(t, prompt, "Inventory Value: $2480.55")
	assert.Contains(t, prompt, "Low Stock Alerts: 2 items need attention")
	assert.Contains(t, prompt, "USER QUERY: how is the business doing")
	assert.Contains(t, prompt, "USER ROLE: manager")
}

func TestComposeZeroDigestDefaults(t *testing.T) {
	qc := QueryContext{Query: "anything", Intent: IntentRAG, Role: "user", Digest: Digest{SystemStatus: "Unknown"}}

	prompt := NewPromptComposer(0).Compose(qc)

	assert.Contains(t, prompt, "System Status: Unknown (Score: 0)")
	assert.Contains(t, prompt, "Total Products: 0 across 0 categories")
	assert.Contains(t, prompt, "Inventory Value: $0.00")
}

func TestComposeSelectsIntentTemplate(t *testing.T) {
	tests := []struct {
		intent Intent
		marker string
	}{
		{IntentReact, "AGENT TYPE: REACT"},
		{IntentPlanner, "AGENT TYPE: PLANNER"},
		{IntentSupervisor, "AGENT TYPE: SUPERVISOR"},
		{IntentRAG, "AGENT TYPE: RAG"},
		{IntentAnalytics, "AGENT TYPE: ANALYTICS"},
		{IntentCRAG, "AGENT TYPE: CRAG"},
	}

	composer := NewPromptComposer(0)
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			assert.Contains(t, composer.Compose(sampleContext(tt.intent)), tt.marker)
		})
	}
}

func TestComposeUnknownIntentFallsBack(t *testing.T) {
	prompt := NewPromptComposer(0).Compose(sampleContext(Intent("mystery")))

	assert.NotContains(t, prompt, "AGENT TYPE:")
	assert.Contains(t, prompt, "Provide a comprehensive response")
}

func TestComposeTruncatesAtBudget(t *testing.T) {
	qc := sampleContext(IntentSupervisor)
	qc.Query = strings.Repeat("stock ", 500)

	prompt := NewPromptComposer(400).Compose(qc)

	assert.LessOrEqual(t, len(prompt), 400)
	assert.True(t, strings.HasSuffix(prompt, "[context truncated]"))
}

func TestComposeDigestErrorSurfaced(t *testing.T) {
	qc := sampleContext(IntentRAG)
	qc.Digest.Error = "connection lost"

	prompt := NewPromptComposer(0).Compose(qc)

	assert.Contains(t, prompt, "Data Warning: connection lost")
}

func TestFormatSamplesBoundsEntries(t *testing.T) {
	search := metrics.SearchResult{Products: []models.Product{
		{ProductName: "A very long product name that keeps going", StockQuantity: 1, Price: 1},
		{ProductName: "Second", StockQuantity: 2, Price: 2},
		{ProductName: "Third", StockQuantity: 3, Price: 3},
		{ProductName: "Fourth", StockQuantity: 4, Price: 4},
	}}

	detail := formatSamples(RawData{Products: &search})

	assert.NotContains(t, detail, "Fourth")
	assert.Contains(t, detail, "A very long product ")
	assert.NotContains(t, detail, "that keeps going")
}
