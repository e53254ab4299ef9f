package assistant

import (
	"context"

	"github.com/matthieukhl/stockpilot/internal/metrics"
)

// Digest is the flat set of scalar figures embedded in every prompt. Every
// numeric field has a zero default so missing data never breaks formatting.
type Digest struct {
	SystemStatus    string           `json:"system_status"`
	HealthScore     int              `json:"health_score"`
	TotalProducts   int64            `json:"total_products"`
	TotalCategories int64            `json:"total_categories"`
	TotalUsers      int64            `json:"total_users"`
	ActiveUsers     int64            `json:"active_users"`
	InventoryValue  float64          `json:"total_inventory_value"`
	AvgPrice        float64          `json:"avg_product_price"`
	LowStockCount   int              `json:"low_stock_count"`
	RoleCounts      map[string]int64 `json:"role_counts"`
	TopCategories   []string         `json:"top_categories"`
	Error           string           `json:"error,omitempty"`
}

// RawData bundles the aggregator results that fed the digest. Nil fields
// were not fetched for this query.
type RawData struct {
	SystemHealth     *metrics.SystemHealthResult     `json:"system_health,omitempty"`
	UserBehavior     *metrics.UserBehaviorResult     `json:"user_behavior,omitempty"`
	Products         *metrics.SearchResult           `json:"products,omitempty"`
	LowStock         *metrics.LowStockResult         `json:"low_stock,omitempty"`
	SalesTrends      *metrics.SalesTrendsResult      `json:"sales_trends,omitempty"`
	CategoryInsights *metrics.CategoryInsightsResult `json:"category_insights,omitempty"`
}

// QueryContext is the bundle handed to the prompt composer
type QueryContext struct {
	Query  string       `json:"query"`
	Intent Intent       `json:"intent"`
	Role   string       `json:"role"`
	Flags  ContextFlags `json:"flags"`
	Digest Digest       `json:"digest"`
	Data   RawData      `json:"data"`
}

// ContextBuilder assembles the query context from aggregator results
type ContextBuilder struct {
	metrics *metrics.Aggregator
}

func NewContextBuilder(agg *metrics.Aggregator) *ContextBuilder {
	return &ContextBuilder{metrics: agg}
}

// Build fetches the summaries a query needs and derives the digest. System
// health and user analytics are always fetched as baseline context; the
// remaining summaries follow the context flags. Supervisor queries, and
// queries matching no flag at all, fetch everything.
func (b *ContextBuilder) Build(ctx context.Context, query, role string, intent Intent) QueryContext {
	flags := AnalyzeFlags(query)
	qc := QueryContext{Query: query, Intent: intent, Role: role, Flags: flags}

	fetchAll := intent == IntentSupervisor || !flags.Any()

	health := b.metrics.SystemHealth(ctx)
	users := b.metrics.UserBehavior(ctx)
	qc.Data.SystemHealth = &health
	qc.Data.UserBehavior = &users

	if fetchAll || flags.Inventory || intent == IntentRAG {
		products := b.metrics.SearchProducts(ctx, "", "")
		lowStock := b.metrics.LowStockProducts(ctx)
		qc.Data.Products = &products
		qc.Data.LowStock = &lowStock
	}
	if fetchAll || flags.Financial || flags.Analytical {
		trends := b.metrics.SalesTrends(ctx)
		qc.Data.SalesTrends = &trends
	}
	if fetchAll || flags.Inventory || flags.Analytical || flags.Strategic {
		insights := b.metrics.CategoryInsights(ctx)
		qc.Data.CategoryInsights = &insights
	}

	qc.Digest = deriveDigest(qc.Data)
	return qc
}

// deriveDigest flattens the fetched results into scalar figures. Any result
// carrying an error contributes its zero values and the first error string
// observed lands on the digest.
func deriveDigest(data RawData) Digest {
	digest := Digest{
		SystemStatus: "Unknown",
		RoleCounts:   map[string]int64{},
	}

	noteErr := func(msg string) {
		if digest.Error == "" && msg != "" {
			digest.Error = msg
		}
	}

	if data.SystemHealth != nil {
		noteErr(data.SystemHealth.Err)
		if data.SystemHealth.Status != "" {
			digest.SystemStatus = data.SystemHealth.Status
		}
		digest.HealthScore = data.SystemHealth.HealthScore
		digest.TotalProducts = data.SystemHealth.TotalProducts
		digest.TotalCategories = data.SystemHealth.TotalCategories
		digest.ActiveUsers = data.SystemHealth.ActiveUsers
		digest.LowStockCount = int(data.SystemHealth.LowStockCount)
	}
	if data.UserBehavior != nil {
		noteErr(data.UserBehavior.Err)
		digest.TotalUsers = data.UserBehavior.TotalUsers
		if data.UserBehavior.ActiveUsers > digest.ActiveUsers {
			digest.ActiveUsers = data.UserBehavior.ActiveUsers
		}
		for role, count := range data.UserBehavior.RoleDistribution {
			digest.RoleCounts[role] = count
		}
	}
	if data.LowStock != nil {
		noteErr(data.LowStock.Err)
		digest.LowStockCount = data.LowStock.Count
	}
	if data.SalesTrends != nil {
		noteErr(data.SalesTrends.Err)
		digest.InventoryValue = data.SalesTrends.TotalStockValue
		digest.AvgPrice = data.SalesTrends.Prices.Avg
		if data.SalesTrends.TotalProducts > digest.TotalProducts {
			digest.TotalProducts = data.SalesTrends.TotalProducts
		}
		for i, stat := range data.SalesTrends.Categories {
			if i == 3 {
				break
			}
			digest.TopCategories = append(digest.TopCategories, stat.CategoryName)
		}
	}
	if data.CategoryInsights != nil {
		noteErr(data.CategoryInsights.Err)
		if n := int64(len(data.CategoryInsights.Categories)); n > digest.TotalCategories {
			digest.TotalCategories = n
		}
	}
	if data.Products != nil {
		noteErr(data.Products.Err)
	}

	return digest
}
