package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/stockpilot/internal/auth"
	"github.com/matthieukhl/stockpilot/internal/inventory"
	"github.com/matthieukhl/stockpilot/internal/models"
)

// register creates a new account. Self-registration always gets the
// read-only role; admins assign higher roles through the admin routes.
func (s *Server) register(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.RoleID = models.RoleUser

	hash, err := auth.HashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req, hash)
	if err != nil {
		if errors.Is(err, inventory.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, hash, err := s.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(hash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
		return
	}

	token, err := s.issuer.Issue(user.ID, user.Username, int64(user.RoleID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// verifyToken echoes the authenticated identity, confirming the token
func (s *Server) verifyToken(c *gin.Context) {
	roleID := auth.CallerRole(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":   auth.CallerID(c),
		"username":  c.GetString(auth.ContextUsername),
		"role_id":   roleID,
		"role_name": models.RoleName(int(roleID)),
	})
}
