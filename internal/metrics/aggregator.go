package metrics

import (
	"context"
	"database/sql"
	"strings"

	"github.com/matthieukhl/stockpilot/internal/database"
	"github.com/matthieukhl/stockpilot/internal/models"
)

// Aggregator computes read-only inventory metrics for the assistant and the
// analytics endpoints. Every operation returns a zero-valued result with Err
// set instead of failing: the assistant keeps answering on partial data.
type Aggregator struct {
	db                *database.DB
	lowStockThreshold int
}

func NewAggregator(db *database.DB, lowStockThreshold int) *Aggregator {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &Aggregator{db: db, lowStockThreshold: lowStockThreshold}
}

// LowStockThreshold returns the strict upper bound used by LowStockProducts
func (a *Aggregator) LowStockThreshold() int {
	return a.lowStockThreshold
}

// SearchResult lists products whose name matches a keyword
type SearchResult struct {
	Keyword  string           `json:"keyword"`
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
	Err      string           `json:"error,omitempty"`
}

// SearchProducts matches the keyword against product and category names,
// both as given and title-cased, covering common capitalization without
// LOWER() on an indexed column. An empty keyword returns the whole catalog;
// a non-empty categoryFilter narrows the results to matching categories.
func (a *Aggregator) SearchProducts(ctx context.Context, keyword, categoryFilter string) SearchResult {
	result := SearchResult{Keyword: keyword}

	query := `
		SELECT p.product_id, p.product_name, p.price, p.stock_quantity, c.category_name
		FROM product p
		JOIN product_category c
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		WHERE 1=1`
	var args []any
	if keyword != "" {
		titled := strings.ToUpper(keyword[:1]) + keyword[1:]
		query += ` AND (p.product_name LIKE ? OR p.product_name LIKE ? OR c.category_name LIKE ?)`
		args = append(args, "%"+keyword+"%", "%"+titled+"%", "%"+keyword+"%")
	}
	if categoryFilter != "" {
		query += ` AND c.category_name LIKE ?`
		args = append(args, "%"+categoryFilter+"%")
	}
	query += `
		ORDER BY p.product_name`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Price, &p.StockQuantity, &p.CategoryName); err != nil {
			return SearchResult{Keyword: keyword, Err: err.Error()}
		}
		result.Products = append(result.Products, p)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{Keyword: keyword, Err: err.Error()}
	}

	result.Count = len(result.Products)
	return result
}

// LowStockResult lists products strictly below the threshold
type LowStockResult struct {
	Threshold int              `json:"threshold"`
	Products  []models.Product `json:"products"`
	Count     int              `json:"count"`
	Err       string           `json:"error,omitempty"`
}

// LowStockProducts returns products with stock strictly below the threshold,
// lowest stock first.
func (a *Aggregator) LowStockProducts(ctx context.Context) LowStockResult {
	result := LowStockResult{Threshold: a.lowStockThreshold}

	rows, err := a.db.QueryContext(ctx, `
		SELECT p.product_id, p.product_name, p.price, p.stock_quantity, c.category_name
		FROM product p
		JOIN product_category c
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		WHERE p.stock_quantity < ?
		ORDER BY p.stock_quantity ASC`,
		a.lowStockThreshold)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Price, &p.StockQuantity, &p.CategoryName); err != nil {
			return LowStockResult{Threshold: a.lowStockThreshold, Err: err.Error()}
		}
		result.Products = append(result.Products, p)
	}
	if err := rows.Err(); err != nil {
		return LowStockResult{Threshold: a.lowStockThreshold, Err: err.Error()}
	}

	result.Count = len(result.Products)
	return result
}

// CategoryStat summarizes the products under one category
type CategoryStat struct {
	CategoryName  string  `json:"category_name"`
	ProductCount  int64   `json:"product_count"`
	TotalStock    int64   `json:"total_stock"`
	AvgPrice      float64 `json:"avg_price"`
	MinStock      int64   `json:"min_stock,omitempty"`
	MaxStock      int64   `json:"max_stock,omitempty"`
	LowStockCount int64   `json:"low_stock_count,omitempty"`
}

// PriceStats holds the price spread across the whole catalog
type PriceStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// SalesTrendsResult summarizes catalog composition and value
type SalesTrendsResult struct {
	Categories      []CategoryStat `json:"categories"`
	TotalProducts   int64          `json:"total_products"`
	TotalStockValue float64        `json:"total_stock_value"`
	LowStockCount   int64          `json:"low_stock_alerts"`
	Prices          PriceStats     `json:"prices"`
	Status          string         `json:"status"`
	Err             string         `json:"error,omitempty"`
}

// SalesTrends aggregates per-category composition, catalog totals and price
// spread. Five or more low-stock products flag the catalog needs_attention.
func (a *Aggregator) SalesTrends(ctx context.Context) SalesTrendsResult {
	var result SalesTrendsResult

	rows, err := a.db.QueryContext(ctx, `
		SELECT c.category_name, COUNT(p.product_id),
		       COALESCE(SUM(p.stock_quantity), 0), COALESCE(AVG(p.price), 0),
		       COALESCE(MIN(p.stock_quantity), 0), COALESCE(MAX(p.stock_quantity), 0)
		FROM product_category c
		JOIN product p
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		GROUP BY c.category_name
		ORDER BY COUNT(p.product_id) DESC`)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	for rows.Next() {
		var stat CategoryStat
		if err := rows.Scan(&stat.CategoryName, &stat.ProductCount, &stat.TotalStock,
			&stat.AvgPrice, &stat.MinStock, &stat.MaxStock); err != nil {
			rows.Close()
			return SalesTrendsResult{Err: err.Error()}
		}
		result.Categories = append(result.Categories, stat)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return SalesTrendsResult{Err: err.Error()}
	}

	var totalProducts, lowStock sql.NullInt64
	var stockValue, minPrice, maxPrice, avgPrice sql.NullFloat64
	err = a.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(price * stock_quantity), MIN(price), MAX(price), AVG(price),
		       SUM(CASE WHEN stock_quantity < ? THEN 1 ELSE 0 END)
		FROM product`,
		a.lowStockThreshold,
	).Scan(&totalProducts, &stockValue, &minPrice, &maxPrice, &avgPrice, &lowStock)
	if err != nil {
		return SalesTrendsResult{Err: err.Error()}
	}

	result.TotalProducts = i64(totalProducts)
	result.TotalStockValue = f64(stockValue)
	result.LowStockCount = i64(lowStock)
	result.Prices = PriceStats{Min: f64(minPrice), Max: f64(maxPrice), Avg: f64(avgPrice)}

	if result.LowStockCount < 5 {
		result.Status = "healthy"
	} else {
		result.Status = "needs_attention"
	}
	return result
}

// CategoryInsightsResult covers every category, including empty ones
type CategoryInsightsResult struct {
	Categories    []CategoryStat `json:"categories"`
	TotalLowStock int64          `json:"total_low_stock"`
	Err           string         `json:"error,omitempty"`
}

// CategoryInsights reports per-category stats with a low stock rollup.
// Categories without products appear with zero counts.
func (a *Aggregator) CategoryInsights(ctx context.Context) CategoryInsightsResult {
	var result CategoryInsightsResult

	rows, err := a.db.QueryContext(ctx, `
		SELECT c.category_name,
		       COUNT(p.product_id),
		       COALESCE(SUM(p.stock_quantity), 0),
		       COALESCE(AVG(p.price), 0),
		       COALESCE(SUM(CASE WHEN p.stock_quantity < ? THEN 1 ELSE 0 END), 0)
		FROM product_category c
		LEFT JOIN product p
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		GROUP BY c.category_name
		ORDER BY c.category_name`,
		a.lowStockThreshold)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var stat CategoryStat
		if err := rows.Scan(&stat.CategoryName, &stat.ProductCount, &stat.TotalStock,
			&stat.AvgPrice, &stat.LowStockCount); err != nil {
			return CategoryInsightsResult{Err: err.Error()}
		}
		result.TotalLowStock += stat.LowStockCount
		result.Categories = append(result.Categories, stat)
	}
	if err := rows.Err(); err != nil {
		return CategoryInsightsResult{Err: err.Error()}
	}
	return result
}

// Registration is one recently created account
type Registration struct {
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// UserBehaviorResult summarizes the user base
type UserBehaviorResult struct {
	RoleDistribution    map[string]int64 `json:"role_distribution"`
	TotalUsers          int64            `json:"total_users"`
	ActiveUsers         int64            `json:"active_users"`
	RecentRegistrations []Registration   `json:"recent_registrations"`
	Err                 string           `json:"error,omitempty"`
}

// UserBehavior reports role distribution, activity counts and the five most
// recent registrations.
func (a *Aggregator) UserBehavior(ctx context.Context) UserBehaviorResult {
	result := UserBehaviorResult{RoleDistribution: map[string]int64{}}

	rows, err := a.db.QueryContext(ctx, `
		SELECT r.role_name, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.role_id
		GROUP BY r.role_name`)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	for rows.Next() {
		var roleName string
		var count int64
		if err := rows.Scan(&roleName, &count); err != nil {
			rows.Close()
			return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
		}
		result.RoleDistribution[roleName] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
	}

	var total, active sql.NullInt64
	err = a.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) FROM users`,
	).Scan(&total, &active)
	if err != nil {
		return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
	}
	result.TotalUsers = i64(total)
	result.ActiveUsers = i64(active)

	recent, err := a.db.QueryContext(ctx,
		`SELECT username, created_at FROM users ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
	}
	defer recent.Close()

	for recent.Next() {
		var reg Registration
		if err := recent.Scan(&reg.Username, &reg.CreatedAt); err != nil {
			return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
		}
		result.RecentRegistrations = append(result.RecentRegistrations, reg)
	}
	if err := recent.Err(); err != nil {
		return UserBehaviorResult{RoleDistribution: map[string]int64{}, Err: err.Error()}
	}
	return result
}

// SystemHealthResult scores overall system health from five indicators
type SystemHealthResult struct {
	TotalProducts   int64  `json:"total_products"`
	TotalCategories int64  `json:"total_categories"`
	ActiveUsers     int64  `json:"active_users"`
	LowStockCount   int64  `json:"low_stock_alerts"`
	IntegrityStatus string `json:"integrity_status"`
	HealthScore     int    `json:"health_score"`
	Status          string `json:"status"`
	Err             string `json:"error,omitempty"`
}

// SystemHealth counts the core tables and low-stock items, probes storage
// integrity, and buckets a five-indicator score: 80 and above is excellent,
// 60 and above is good, anything lower needs attention. Fewer than ten
// low-stock products counts as healthy.
func (a *Aggregator) SystemHealth(ctx context.Context) SystemHealthResult {
	var result SystemHealthResult

	var products, categories, activeUsers, lowStock sql.NullInt64
	err := a.db.QueryRowContext(ctx, `
		SELECT
		    (SELECT COUNT(*) FROM product),
		    (SELECT COUNT(*) FROM product_category),
		    (SELECT COUNT(*) FROM users WHERE is_active = TRUE),
		    (SELECT COUNT(*) FROM product WHERE stock_quantity < ?)`,
		a.lowStockThreshold,
	).Scan(&products, &categories, &activeUsers, &lowStock)
	if err != nil {
		result.Err = err.Error()
		result.IntegrityStatus = "unknown"
		result.Status = "needs_attention"
		return result
	}
	result.TotalProducts = i64(products)
	result.TotalCategories = i64(categories)
	result.ActiveUsers = i64(activeUsers)
	result.LowStockCount = i64(lowStock)

	result.IntegrityStatus = a.db.IntegrityCheck()

	indicators := []bool{
		result.TotalCategories > 0,
		result.TotalProducts > 0,
		result.ActiveUsers > 0,
		result.LowStockCount < 10,
		result.IntegrityStatus == "ok",
	}
	healthy := 0
	for _, ok := range indicators {
		if ok {
			healthy++
		}
	}
	result.HealthScore = healthy * 100 / len(indicators)

	switch {
	case result.HealthScore >= 80:
		result.Status = "excellent"
	case result.HealthScore >= 60:
		result.Status = "good"
	default:
		result.Status = "needs_attention"
	}
	return result
}
