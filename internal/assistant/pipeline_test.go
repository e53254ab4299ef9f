package assistant

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/stockpilot/internal/database"
	"github.com/matthieukhl/stockpilot/internal/llm"
	"github.com/matthieukhl/stockpilot/internal/llm/generate"
	"github.com/matthieukhl/stockpilot/internal/metrics"
)

func availableClient(t *testing.T) *llm.Client {
	t.Helper()
	client := llm.NewClient(context.Background(), generate.NewMockGenerator("llama3.1:latest"), 2)
	require.True(t, client.Available())
	return client
}

// deadGenerator simulates a completion service with no registered models
type deadGenerator struct{}

func (deadGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	return "", errors.New("no model loaded")
}

func (deadGenerator) Model() string { return "llama3.1:latest" }

func (deadGenerator) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

// expectLowStockQueryContext sets up the aggregator expectations for a query
// with inventory flags: health and user baseline, product search, low stock
// and category insights.
func expectLowStockQueryContext(mock sqlmock.Sqlmock, lowStockRows int) {
	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM product)")).
		WillReturnRows(sqlmock.NewRows([]string{"p", "c", "u", "low"}).AddRow(5, 3, 4, lowStockRows))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 'ok'")).
		WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow("ok"))

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u")).
		WillReturnRows(sqlmock.NewRows([]string{"role_name", "count"}).AddRow("admin", 1))
	mock.ExpectQuery(regexp.QuoteMeta("CASE WHEN is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(4, 3))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at"}).AddRow("admin", "2026-08-01 10:00:00"))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.product_name")).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "price", "stock_quantity", "category_name"}).
			AddRow(1, "Wireless Mouse", 24.99, 42, "Electronics"))

	lowStock := sqlmock.NewRows([]string{"product_id", "product_name", "price", "stock_quantity", "category_name"})
	for i := 0; i < lowStockRows; i++ {
		lowStock.AddRow(int64(i+10), "Depleted Item", 9.99, i+1, "Electronics")
	}
	mock.ExpectQuery(regexp.QuoteMeta("p.stock_quantity < ?")).WillReturnRows(lowStock)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN product p")).
		WillReturnRows(sqlmock.NewRows([]string{"category_name", "count", "stock", "avg_price", "low_stock"}).
			AddRow("Electronics", 5, 60, 24.99, int64(lowStockRows)))
}

func TestAnswerLowStockQueryEndToEnd(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	agg := metrics.NewAggregator(database.Wrap(db), 10)
	pipeline := NewPipeline(agg, availableClient(t), 0, DefaultActionPolicy())

	expectLowStockQueryContext(mock, 2)

	resp, err := pipeline.Answer(context.Background(), Request{
		Query: "show me products with low stock",
		Role:  "manager",
	})
	require.NoError(t, err)

	assert.Equal(t, IntentRAG, resp.Intent)
	assert.False(t, resp.NeedsHumanReview)
	assert.NotEmpty(t, resp.Response)
	assert.NotEmpty(t, resp.Actions)

	// The digest's low-stock count mirrors the aggregator result
	require.NotNil(t, resp.Data.LowStock)
	assert.Equal(t, resp.Data.LowStock.Count, resp.Digest.LowStockCount)
	assert.Equal(t, 2, resp.Digest.LowStockCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerZeroModelsShortCircuits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	client := llm.NewClient(context.Background(), deadGenerator{}, 2)
	require.False(t, client.Available())

	agg := metrics.NewAggregator(database.Wrap(db), 10)
	pipeline := NewPipeline(agg, client, 0, DefaultActionPolicy())

	queries := []string{
		"show me products with low stock",
		"plan the next quarter",
		"why are sales down",
	}
	for _, query := range queries {
		resp, err := pipeline.Answer(context.Background(), Request{Query: query, Role: "user"})
		require.NoError(t, err)

		assert.Equal(t, llm.UnavailableMessage, resp.Response)
		assert.True(t, resp.NeedsHumanReview)
	}
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	agg := metrics.NewAggregator(database.Wrap(db), 10)
	pipeline := NewPipeline(agg, availableClient(t), 0, DefaultActionPolicy())

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := pipeline.Answer(context.Background(), Request{Query: query})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestAnswerStyleApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	agg := metrics.NewAggregator(database.Wrap(db), 10)
	pipeline := NewPipeline(agg, availableClient(t), 0, DefaultActionPolicy())

	expectLowStockQueryContext(mock, 1)

	resp, err := pipeline.Answer(context.Background(), Request{
		Query: "show me products with low stock",
		Role:  "admin",
		Style: StyleFormal,
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Response, "**Formal Analysis**")
}

func TestAnswerAbsorbsAggregatorErrors(t *testing.T) {
	// No expectations registered: every storage call fails and is absorbed
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	agg := metrics.NewAggregator(database.Wrap(db), 10)
	pipeline := NewPipeline(agg, availableClient(t), 0, DefaultActionPolicy())

	resp, err := pipeline.Answer(context.Background(), Request{Query: "show me products with low stock", Role: "user"})
	require.NoError(t, err)

	assert.False(t, resp.NeedsHumanReview)
	assert.NotEmpty(t, resp.Digest.Error)
}
