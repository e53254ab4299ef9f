package metrics

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/stockpilot/internal/database"
)

func newTestAggregator(t *testing.T) (*Aggregator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAggregator(database.Wrap(db), 10), mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"product_id", "product_name", "price", "stock_quantity", "category_name"})
}

func TestLowStockProductsStrictThresholdAscending(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.stock_quantity < ?")).
		WithArgs(10).
		WillReturnRows(productRows().
			AddRow(4, "16GB DDR5 RAM", 72.00, 3, "Computer Parts").
			AddRow(2, "USB-C Hub", 39.99, 8, "Electronics"))

	result := agg.LowStockProducts(context.Background())

	assert.Empty(t, result.Err)
	assert.Equal(t, 10, result.Threshold)
	assert.Equal(t, 2, result.Count)
	for i, p := range result.Products {
		assert.Less(t, p.StockQuantity, 10)
		if i > 0 {
			assert.GreaterOrEqual(t, p.StockQuantity, result.Products[i-1].StockQuantity)
		}
	}
}

func TestLowStockProductsAbsorbsStorageError(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.stock_quantity < ?")).
		WillReturnError(errors.New("connection lost"))

	result := agg.LowStockProducts(context.Background())

	assert.Contains(t, result.Err, "connection lost")
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Products)
}

func TestSearchProductsOrderedByName(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("p.product_name LIKE ? OR p.product_name LIKE ? OR c.category_name LIKE ?")).
		WithArgs("%mouse%", "%Mouse%", "%mouse%").
		WillReturnRows(productRows().
			AddRow(1, "Wireless Mouse", 24.99, 42, "Electronics"))

	result := agg.SearchProducts(context.Background(), "mouse", "")

	assert.Empty(t, result.Err)
	assert.Equal(t, "mouse", result.Keyword)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Wireless Mouse", result.Products[0].ProductName)
}

func TestSearchProductsMatchesCategoryName(t *testing.T) {
	agg, mock := newTestAggregator(t)

	// "electronics" appears in no product name, only in the category
	mock.ExpectQuery(regexp.QuoteMeta("OR c.category_name LIKE ?)")).
		WithArgs("%electronics%", "%Electronics%", "%electronics%").
		WillReturnRows(productRows().
			AddRow(2, "USB-C Hub", 39.99, 8, "Electronics").
			AddRow(1, "Wireless Mouse", 24.99, 42, "Electronics"))

	result := agg.SearchProducts(context.Background(), "electronics", "")

	assert.Empty(t, result.Err)
	assert.Equal(t, 2, result.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchProductsCategoryFilterNarrows(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta(") AND c.category_name LIKE ?")).
		WithArgs("%cable%", "%Cable%", "%cable%", "%Electronics%").
		WillReturnRows(productRows().
			AddRow(3, "HDMI Cable", 12.50, 25, "Electronics"))

	result := agg.SearchProducts(context.Background(), "cable", "Electronics")

	assert.Empty(t, result.Err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Electronics", result.Products[0].CategoryName)
}

func TestSearchProductsEmptyKeywordReturnsAll(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(`WHERE 1=1\s+ORDER BY p\.product_name`).
		WillReturnRows(productRows().
			AddRow(3, "HDMI Cable", 12.50, 25, "Electronics").
			AddRow(1, "Wireless Mouse", 24.99, 42, "Electronics"))

	result := agg.SearchProducts(context.Background(), "", "")

	assert.Empty(t, result.Err)
	assert.Equal(t, 2, result.Count)
}

func trendTotalsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count", "value", "min", "max", "avg", "low_stock"})
}

func TestSalesTrendsNullAggregatesCoerceToZero(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY c.category_name")).
		WillReturnRows(sqlmock.NewRows([]string{"category_name", "count", "stock", "avg_price", "min_stock", "max_stock"}))
	mock.ExpectQuery(regexp.QuoteMeta("SUM(price * stock_quantity)")).
		WithArgs(10).
		WillReturnRows(trendTotalsRows().AddRow(0, nil, nil, nil, nil, nil))

	result := agg.SalesTrends(context.Background())

	assert.Empty(t, result.Err)
	assert.Zero(t, result.TotalProducts)
	assert.Zero(t, result.TotalStockValue)
	assert.Zero(t, result.Prices.Min)
	assert.Zero(t, result.Prices.Avg)
	assert.Zero(t, result.LowStockCount)
	assert.Equal(t, "healthy", result.Status)
}

func TestSalesTrendsHealthyCatalog(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY c.category_name")).
		WillReturnRows(sqlmock.NewRows([]string{"category_name", "count", "stock", "avg_price", "min_stock", "max_stock"}).
			AddRow("Electronics", 3, 65, 34.99, 8, 42).
			AddRow("Office Supplies", 2, 130, 8.25, 55, 75))
	mock.ExpectQuery(regexp.QuoteMeta("SUM(price * stock_quantity)")).
		WithArgs(10).
		WillReturnRows(trendTotalsRows().AddRow(5, 2480.55, 6.49, 72.00, 24.30, 1))

	result := agg.SalesTrends(context.Background())

	assert.Equal(t, "healthy", result.Status)
	assert.EqualValues(t, 5, result.TotalProducts)
	assert.EqualValues(t, 1, result.LowStockCount)
	assert.InDelta(t, 2480.55, result.TotalStockValue, 0.001)
	assert.Len(t, result.Categories, 2)
	assert.EqualValues(t, 8, result.Categories[0].MinStock)
	assert.EqualValues(t, 42, result.Categories[0].MaxStock)
}

func TestSalesTrendsStatusKeyedOnLowStockCount(t *testing.T) {
	tests := []struct {
		name       string
		products   int64
		lowStock   int64
		wantStatus string
	}{
		{"small catalog without shortages", 3, 0, "healthy"},
		{"four shortages stay healthy", 6, 4, "healthy"},
		{"five shortages need attention", 200, 5, "needs_attention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, mock := newTestAggregator(t)

			mock.ExpectQuery(regexp.QuoteMeta("GROUP BY c.category_name")).
				WillReturnRows(sqlmock.NewRows([]string{"category_name", "count", "stock", "avg_price", "min_stock", "max_stock"}).
					AddRow("Electronics", tt.products, 100, 19.99, 1, 50))
			mock.ExpectQuery(regexp.QuoteMeta("SUM(price * stock_quantity)")).
				WithArgs(10).
				WillReturnRows(trendTotalsRows().AddRow(tt.products, 1000.0, 5.0, 50.0, 20.0, tt.lowStock))

			result := agg.SalesTrends(context.Background())

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.lowStock, result.LowStockCount)
		})
	}
}

func TestCategoryInsightsIncludesEmptyCategoriesAndRollsUpLowStock(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN product p")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"category_name", "count", "stock", "avg_price", "low_stock"}).
			AddRow("Computer Parts", 2, 18, 63.45, 1).
			AddRow("Electronics", 2, 50, 32.49, 1).
			AddRow("Empty Shelf", 0, 0, 0, 0))

	result := agg.CategoryInsights(context.Background())

	assert.Empty(t, result.Err)
	assert.Len(t, result.Categories, 3)
	assert.EqualValues(t, 2, result.TotalLowStock)
	assert.EqualValues(t, 0, result.Categories[2].ProductCount)
}

func TestUserBehaviorSummaries(t *testing.T) {
	agg, mock := newTestAggregator(t)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u")).
		WillReturnRows(sqlmock.NewRows([]string{"role_name", "count"}).
			AddRow("admin", 1).
			AddRow("manager", 1).
			AddRow("user", 2))
	mock.ExpectQuery(regexp.QuoteMeta("CASE WHEN is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(4, 3))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at"}).
			AddRow("testuser", "2026-08-01 10:00:00").
			AddRow("user1", "2026-07-20 09:30:00"))

	result := agg.UserBehavior(context.Background())

	assert.Empty(t, result.Err)
	assert.EqualValues(t, 4, result.TotalUsers)
	assert.EqualValues(t, 3, result.ActiveUsers)
	assert.EqualValues(t, 2, result.RoleDistribution["user"])
	assert.Len(t, result.RecentRegistrations, 2)
	assert.Equal(t, "testuser", result.RecentRegistrations[0].Username)
}

func expectHealthQueries(mock sqlmock.Sqlmock, products, categories, activeUsers, lowStock int64, integrity string) {
	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM product)")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"products", "categories", "active_users", "low_stock"}).
			AddRow(products, categories, activeUsers, lowStock))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 'ok'")).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(integrity))
}

func TestSystemHealthScoreBuckets(t *testing.T) {
	tests := []struct {
		name        string
		products    int64
		categories  int64
		activeUsers int64
		lowStock    int64
		integrity   string
		wantScore   int
		wantStatus  string
	}{
		{"all indicators healthy", 5, 3, 4, 0, "ok", 100, "excellent"},
		{"shortages under the bound stay healthy", 50, 3, 4, 9, "ok", 100, "excellent"},
		{"low stock pile-up costs an indicator", 50, 3, 4, 12, "ok", 80, "excellent"},
		{"no active users", 5, 3, 0, 0, "ok", 80, "excellent"},
		{"empty catalog and no active users", 0, 3, 0, 0, "ok", 60, "good"},
		{"empty tables with unknown integrity", 0, 0, 0, 0, "unknown", 20, "needs_attention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, mock := newTestAggregator(t)

			expectHealthQueries(mock, tt.products, tt.categories, tt.activeUsers, tt.lowStock, tt.integrity)

			result := agg.SystemHealth(context.Background())

			assert.Equal(t, tt.wantScore, result.HealthScore)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.activeUsers, result.ActiveUsers)
			assert.Equal(t, tt.lowStock, result.LowStockCount)
			assert.GreaterOrEqual(t, result.HealthScore, 0)
			assert.LessOrEqual(t, result.HealthScore, 100)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAggregatorIdempotentOnUnchangedData(t *testing.T) {
	agg, mock := newTestAggregator(t)

	rows := func() *sqlmock.Rows {
		return productRows().AddRow(2, "USB-C Hub", 39.99, 8, "Electronics")
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.stock_quantity < ?")).WillReturnRows(rows())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.stock_quantity < ?")).WillReturnRows(rows())

	first := agg.LowStockProducts(context.Background())
	second := agg.LowStockProducts(context.Background())

	assert.Equal(t, first, second)
}
