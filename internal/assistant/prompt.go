package assistant

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxPromptBytes bounds the composed prompt
	DefaultMaxPromptBytes = 8000

	sampleLimit  = 3
	nameClipRune = 20
)

// PromptComposer renders the query context into a single prompt string
type PromptComposer struct {
	maxBytes int
}

func NewPromptComposer(maxBytes int) *PromptComposer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPromptBytes
	}
	return &PromptComposer{maxBytes: maxBytes}
}

// Compose builds the business-state header, appends the intent-specific
// instruction block and truncates the result to the configured byte budget.
func (p *PromptComposer) Compose(qc QueryContext) string {
	var sb strings.Builder

	sb.WriteString("BUSINESS DATA CONTEXT:\n\n")
	sb.WriteString("CURRENT BUSINESS STATE:\n")
	fmt.Fprintf(&sb, "- System Status: %s (Score: %d)\n", qc.Digest.SystemStatus, qc.Digest.HealthScore)
	fmt.Fprintf(&sb, "- Total Products: %d across %d categories\n", qc.Digest.TotalProducts, qc.Digest.TotalCategories)
	fmt.Fprintf(&sb, "- Active Users: %d out of %d total users\n", qc.Digest.ActiveUsers, qc.Digest.TotalUsers)
	fmt.Fprintf(&sb, "- Inventory Value: $%.2f\n", qc.Digest.InventoryValue)
	fmt.Fprintf(&sb, "- Average Price: $%.2f\n", qc.Digest.AvgPrice)
	fmt.Fprintf(&sb, "- Low Stock Alerts: %d items need attention\n", qc.Digest.LowStockCount)
	if qc.Digest.Error != "" {
		fmt.Fprintf(&sb, "- Data Warning: %s\n", qc.Digest.Error)
	}

	if detail := formatSamples(qc.Data); detail != "" {
		sb.WriteString("\nADDITIONAL CONTEXT:\n")
		sb.WriteString(detail)
	}

	sb.WriteString("\n")
	sb.WriteString(instructionBlock(qc))

	return truncatePrompt(sb.String(), p.maxBytes)
}

// formatSamples renders short samples of the fetched data, bounded so the
// prompt stays small: at most three entries per section, names clipped.
func formatSamples(data RawData) string {
	var lines []string

	if data.Products != nil && len(data.Products.Products) > 0 {
		var entries []string
		for i, prod := range data.Products.Products {
			if i == sampleLimit {
				break
			}
			entries = append(entries, fmt.Sprintf("%s (Stock: %d, Price: $%.2f)",
				clipName(prod.ProductName), prod.StockQuantity, prod.Price))
		}
		lines = append(lines, "Sample Products: "+strings.Join(entries, ", "))
	}

	if data.LowStock != nil && len(data.LowStock.Products) > 0 {
		var names []string
		for i, prod := range data.LowStock.Products {
			if i == sampleLimit {
				break
			}
			names = append(names, clipName(prod.ProductName))
		}
		lines = append(lines, "Critical Low Stock: "+strings.Join(names, ", "))
	}

	if data.CategoryInsights != nil && len(data.CategoryInsights.Categories) > 0 {
		var names []string
		for i, stat := range data.CategoryInsights.Categories {
			if i == sampleLimit {
				break
			}
			names = append(names, clipName(stat.CategoryName))
		}
		lines = append(lines, "Top Categories: "+strings.Join(names, ", "))
	}

	if data.SalesTrends != nil {
		lines = append(lines, "Catalog Status: "+data.SalesTrends.Status)
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func clipName(name string) string {
	runes := []rune(name)
	if len(runes) > nameClipRune {
		return string(runes[:nameClipRune])
	}
	return name
}

// instructionBlock selects the intent-specific template. Unknown intents get
// the generic fallback.
func instructionBlock(qc QueryContext) string {
	header := fmt.Sprintf("USER QUERY: %s\nUSER ROLE: %s\n", qc.Query, qc.Role)

	switch qc.Intent {
	case IntentReact:
		return header + `AGENT TYPE: REACT (Reasoning + Acting)

REASONING PHASE:
1. Analyze the current business situation using the data above
2. Identify root causes based on specific metrics
3. Consider the user's role and permissions in your analysis

ACTION PHASE:
1. Provide 3-5 specific, actionable recommendations
2. Base each action on the actual business metrics
3. Prioritize actions by impact and urgency

Format your response with clear reasoning followed by actionable steps.
`
	case IntentPlanner:
		return header + `AGENT TYPE: PLANNER (Strategic Planning)

Create a realistic execution plan using the business context above:

CURRENT STATE ASSESSMENT:
- Summarize key metrics relevant to the planning objective
- Consider resource constraints (users, products, system capacity)

PLANNING FRAMEWORK:
PHASE 1: Foundation (Weeks 1-2) - specific deliverables and resource allocation
PHASE 2: Implementation (Weeks 3-6) - action steps with clear ownership
PHASE 3: Optimization (Weeks 7-12) - monitoring and adjustment strategies

Ensure the plan is actionable with current resources.
Reference specific numbers from the business context.
`
	case IntentSupervisor:
		return header + `AGENT TYPE: SUPERVISOR (Multi-Perspective Coordination)

Provide a comprehensive business analysis:

CROSS-FUNCTIONAL ANALYSIS:
- Connect inventory data with user activity patterns
- Relate system health to business performance

EXECUTIVE SUMMARY:
- Key findings from the analysis
- Priority recommendations across business functions
- Impact assessment based on actual metrics

Use actual numbers to support cross-functional insights.
`
	case IntentRAG:
		return header + `AGENT TYPE: RAG (Retrieval Augmented Generation)

Retrieve and present the specific business data the query asks for:

- Extract the most relevant information from the data above
- Present data in a clear, organized manner
- Use tables or lists for multiple data points
- Include summary statistics and note any data gaps

Focus on factual accuracy and clear presentation.
`
	case IntentAnalytics:
		return header + `AGENT TYPE: ANALYTICS (Data Analysis & Insights)

Provide data-driven analytical insights:

QUANTITATIVE ANALYSIS:
- Calculate percentages, ratios and trends from the data
- Perform comparative analysis across categories

ACTIONABLE INSIGHTS:
- Translate data patterns into business intelligence
- Provide metrics-based recommendations
- Suggest KPIs for ongoing monitoring

Use a rigorous analytical approach with actual numbers.
`
	case IntentCRAG:
		return header + `AGENT TYPE: CRAG (Corrective RAG with Validation)

Use self-reflective analysis with data validation:

INITIAL ASSESSMENT: initial analysis and key findings, noting assumptions.
DATA VALIDATION: cross-reference findings across metrics, flag quality issues.
CORRECTIVE ANALYSIS: refine recommendations, state confidence levels.
IMPROVED RECOMMENDATIONS: final validated recommendations with monitoring suggestions.

Be transparent about data limitations and confidence levels.
`
	default:
		return header + "Provide a comprehensive response using the business data above.\n"
	}
}

// truncatePrompt cuts the prompt at the byte budget on a rune boundary,
// appending a marker so a clipped prompt is visible downstream.
func truncatePrompt(prompt string, maxBytes int) string {
	if len(prompt) <= maxBytes {
		return prompt
	}

	const marker = "\n[context truncated]"
	cut := maxBytes - len(marker)

	for cut > 0 && !isRuneStart(prompt[cut]) {
		cut--
	}
	return prompt[:cut] + marker
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
