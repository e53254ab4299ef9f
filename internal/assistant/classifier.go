package assistant

import "strings"

// Intent selects which instruction template frames the model call
type Intent string

const (
	IntentPlanner    Intent = "planner"
	IntentAnalytics  Intent = "analytics"
	IntentRAG        Intent = "rag"
	IntentSupervisor Intent = "supervisor"
	IntentReact      Intent = "react"
	IntentCRAG       Intent = "crag"
)

// intentRule pairs an intent with the keywords that select it
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is matched top to bottom, first hit wins. The order is load
// bearing: "review" sits in both the supervisor and crag sets and must
// resolve to supervisor.
var intentRules = []intentRule{
	{IntentPlanner, []string{"plan", "strategy", "roadmap", "timeline", "schedule", "develop"}},
	{IntentAnalytics, []string{"analyze", "analysis", "trend", "pattern", "insight", "metric", "statistic"}},
	{IntentRAG, []string{"show", "list", "get", "find", "retrieve", "display", "what"}},
	{IntentSupervisor, []string{"comprehensive", "complete", "overview", "assessment", "report", "review"}},
	{IntentReact, []string{"why", "how", "solve", "fix", "improve", "problem", "issue", "trouble"}},
	{IntentCRAG, []string{"validate", "verify", "check", "review", "assess", "correct"}},
}

// Classify maps a free-text query to an intent by case-insensitive keyword
// containment. Queries matching nothing default to supervisor.
func Classify(query string) Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.intent
			}
		}
	}
	return IntentSupervisor
}

// ContextFlags marks which business areas a query touches. The sets overlap
// on purpose: a query can be financial and inventory at once.
type ContextFlags struct {
	Financial   bool `json:"is_financial"`
	Inventory   bool `json:"is_inventory"`
	UserRelated bool `json:"is_user_related"`
	System      bool `json:"is_system_related"`
	Strategic   bool `json:"is_strategic"`
	Analytical  bool `json:"is_analytical"`
}

var flagKeywords = map[string][]string{
	"financial":  {"financial", "revenue", "cost", "profit", "money", "price", "budget"},
	"inventory":  {"inventory", "stock", "product", "item", "quantity"},
	"user":       {"user", "team", "employee", "staff", "role", "performance"},
	"system":     {"system", "health", "performance", "database", "technical"},
	"strategic":  {"strategy", "plan", "roadmap", "future", "growth"},
	"analytical": {"analyze", "analysis", "trend", "pattern", "insight"},
}

func containsAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// AnalyzeFlags derives the context flags for a query
func AnalyzeFlags(query string) ContextFlags {
	lower := strings.ToLower(query)
	return ContextFlags{
		Financial:   containsAny(lower, flagKeywords["financial"]),
		Inventory:   containsAny(lower, flagKeywords["inventory"]),
		UserRelated: containsAny(lower, flagKeywords["user"]),
		System:      containsAny(lower, flagKeywords["system"]),
		Strategic:   containsAny(lower, flagKeywords["strategic"]),
		Analytical:  containsAny(lower, flagKeywords["analytical"]),
	}
}

// Any reports whether at least one flag is set
func (f ContextFlags) Any() bool {
	return f.Financial || f.Inventory || f.UserRelated || f.System || f.Strategic || f.Analytical
}
