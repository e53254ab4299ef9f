package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/stockpilot/internal/assistant"
	"github.com/matthieukhl/stockpilot/internal/auth"
	"github.com/matthieukhl/stockpilot/internal/models"
)

// aiQuery runs the full assistant pipeline for a free-text question. The
// role comes from the token, not the request body.
func (s *Server) aiQuery(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Role = models.RoleName(int(auth.CallerRole(c)))

	resp, err := s.pipeline.Answer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// aiStatus reports completion-service availability and the active model
func (s *Server) aiStatus(c *gin.Context) {
	status := gin.H{
		"available": s.llmClient.Available(),
		"model":     s.llmClient.Model(),
	}
	if reason := s.llmClient.Reason(); reason != "" {
		status["reason"] = reason
	}
	c.JSON(http.StatusOK, status)
}

// aiLowStock pairs the low-stock aggregate with a model commentary
func (s *Server) aiLowStock(c *gin.Context) {
	result := s.metrics.LowStockProducts(c.Request.Context())

	prompt := fmt.Sprintf(
		"There are %d products below the stock threshold of %d. "+
			"Provide a short prioritized restocking recommendation.",
		result.Count, result.Threshold)
	insight, ok := s.llmClient.Complete(c.Request.Context(), prompt)

	c.JSON(http.StatusOK, gin.H{
		"analytics":          result,
		"insight":            insight,
		"needs_human_review": !ok,
	})
}

// aiSystemHealth pairs the health score with a model commentary
func (s *Server) aiSystemHealth(c *gin.Context) {
	result := s.metrics.SystemHealth(c.Request.Context())

	prompt := fmt.Sprintf(
		"System health score is %d (%s) with %d products, %d categories, "+
			"%d active users and %d low-stock alerts. "+
			"Summarize the system state and flag anything needing attention.",
		result.HealthScore, result.Status, result.TotalProducts,
		result.TotalCategories, result.ActiveUsers, result.LowStockCount)
	insight, ok := s.llmClient.Complete(c.Request.Context(), prompt)

	c.JSON(http.StatusOK, gin.H{
		"analytics":          result,
		"insight":            insight,
		"needs_human_review": !ok,
	})
}

// aiSalesTrends pairs the catalog trends with a model commentary
func (s *Server) aiSalesTrends(c *gin.Context) {
	result := s.metrics.SalesTrends(c.Request.Context())

	prompt := fmt.Sprintf(
		"The catalog holds %d products worth $%.2f in stock across %d categories, status %s. "+
			"Give a brief trend analysis with one recommendation.",
		result.TotalProducts, result.TotalStockValue, len(result.Categories), result.Status)
	insight, ok := s.llmClient.Complete(c.Request.Context(), prompt)

	c.JSON(http.StatusOK, gin.H{
		"analytics":          result,
		"insight":            insight,
		"needs_human_review": !ok,
	})
}
