package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/stockpilot/internal/assistant"
	"github.com/matthieukhl/stockpilot/internal/auth"
	"github.com/matthieukhl/stockpilot/internal/config"
	"github.com/matthieukhl/stockpilot/internal/database"
	"github.com/matthieukhl/stockpilot/internal/inventory"
	"github.com/matthieukhl/stockpilot/internal/llm"
	"github.com/matthieukhl/stockpilot/internal/metrics"
	"github.com/matthieukhl/stockpilot/internal/models"
)

type Server struct {
	router    *gin.Engine
	db        *database.DB
	store     *inventory.Store
	metrics   *metrics.Aggregator
	pipeline  *assistant.Pipeline
	llmClient *llm.Client
	issuer    *auth.TokenIssuer
	mw        *auth.Middleware
	cfg       *config.Config
}

// NewServer wires the router with all dependencies
func NewServer(cfg *config.Config, db *database.DB, llmClient *llm.Client) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	agg := metrics.NewAggregator(db, cfg.Assistant.LowStockThreshold)
	issuer := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenExpiry)

	server := &Server{
		router:    router,
		db:        db,
		store:     inventory.NewStore(db),
		metrics:   agg,
		pipeline:  assistant.NewPipeline(agg, llmClient, cfg.Assistant.MaxPromptBytes, actionPolicy(cfg)),
		llmClient: llmClient,
		issuer:    issuer,
		mw:        auth.NewMiddleware(issuer),
		cfg:       cfg,
	}

	server.setupRoutes()
	return server
}

func actionPolicy(cfg *config.Config) assistant.ActionPolicy {
	policy := assistant.DefaultActionPolicy()
	if cfg.Assistant.MinActionLen > 0 {
		policy.MinLen = cfg.Assistant.MinActionLen
	}
	if cfg.Assistant.MaxActions > 0 {
		policy.Max = cfg.Assistant.MaxActions
	}
	return policy
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/roles", s.listRoles)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}

	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)
	s.router.GET("/verify-token", s.mw.Authenticate(), s.verifyToken)

	authed := s.router.Group("/", s.mw.Authenticate())
	{
		authed.GET("/categories", s.listCategories)
		authed.GET("/categories/:category_id/:subcategory_id", s.getCategory)
		authed.GET("/categories/:category_id/:subcategory_id/products", s.listProductsByCategory)
		authed.GET("/products", s.listProducts)
		authed.GET("/products/:product_id", s.getProduct)

		authed.POST("/ai/query", s.aiQuery)
		authed.GET("/ai/status", s.aiStatus)
		authed.GET("/ai/analytics/low-stock", s.aiLowStock)
		authed.GET("/ai/analytics/system-health", s.aiSystemHealth)
		authed.GET("/ai/analytics/sales-trends", s.aiSalesTrends)
	}

	manager := s.router.Group("/", s.mw.Authenticate(), s.mw.RequireManager())
	{
		manager.POST("/categories", s.createCategory)
		manager.PUT("/categories/:category_id/:subcategory_id", s.updateCategory)
		manager.DELETE("/categories/:category_id/:subcategory_id", s.deleteCategory)
		manager.POST("/products", s.createProduct)
		manager.PUT("/products/:product_id", s.updateProduct)
		manager.DELETE("/products/:product_id", s.deleteProduct)
	}

	admin := s.router.Group("/admin", s.mw.Authenticate(), s.mw.RequireAdmin())
	{
		admin.GET("/users", s.listUsers)
		admin.POST("/users", s.createUser)
		admin.PUT("/users/:id/role", s.updateUserRole)
		admin.DELETE("/users/:id", s.deleteUser)
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "stockpilot",
		"version": "0.1.0",
		"message": "Inventory management API with AI assistant",
	})
}

func (s *Server) listRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": []models.Role{
		{RoleID: models.RoleAdmin, RoleName: "admin", Description: "Full system access"},
		{RoleID: models.RoleManager, RoleName: "manager", Description: "Manage products and categories"},
		{RoleID: models.RoleUser, RoleName: "user", Description: "Read-only access"},
	}})
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "stockpilot",
		"version": "0.1.0",
	})
}

// Router exposes the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
