package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/stockpilot/internal/models"
)

// Context keys set by the middleware for downstream handlers
const (
	ContextUserID   = "auth_user_id"
	ContextUsername = "auth_username"
	ContextRoleID   = "auth_role_id"
)

// Middleware validates bearer tokens and enforces role thresholds
type Middleware struct {
	issuer *TokenIssuer
}

func NewMiddleware(issuer *TokenIssuer) *Middleware {
	return &Middleware{issuer: issuer}
}

// Authenticate requires a valid bearer token and stores the claims in the
// request context. Role checks build on top of it.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := m.issuer.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRoleID, claims.RoleID)
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated role is
// at or above the given level. Lower role IDs carry more privilege.
func (m *Middleware) RequireRole(maxRoleID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, exists := c.Get(ContextRoleID)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if roleID.(int64) > maxRoleID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireAdmin limits the route to administrators
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)
}

// RequireManager limits the route to managers and administrators
func (m *Middleware) RequireManager() gin.HandlerFunc {
	return m.RequireRole(models.RoleManager)
}

// CallerRole returns the authenticated role ID, or the read-only role when
// the context carries none.
func CallerRole(c *gin.Context) int64 {
	if roleID, exists := c.Get(ContextRoleID); exists {
		return roleID.(int64)
	}
	return models.RoleUser
}

// CallerID returns the authenticated user ID, zero when absent
func CallerID(c *gin.Context) int64 {
	if userID, exists := c.Get(ContextUserID); exists {
		return userID.(int64)
	}
	return 0
}
