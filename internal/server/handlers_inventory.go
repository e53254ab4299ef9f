package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/stockpilot/internal/auth"
	"github.com/matthieukhl/stockpilot/internal/inventory"
	"github.com/matthieukhl/stockpilot/internal/models"
)

// storeError maps store sentinels to HTTP statuses
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, inventory.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, inventory.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced category does not exist"})
	case errors.Is(err, inventory.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field value"})
	case errors.Is(err, inventory.ErrProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": "this account is protected"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func categoryKey(c *gin.Context) (int, int, bool) {
	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return 0, 0, false
	}
	subcategoryID, err := strconv.Atoi(c.Param("subcategory_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcategory id"})
		return 0, 0, false
	}
	return categoryID, subcategoryID, true
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

func (s *Server) getCategory(c *gin.Context) {
	categoryID, subcategoryID, ok := categoryKey(c)
	if !ok {
		return
	}
	cat, err := s.store.GetCategory(c.Request.Context(), categoryID, subcategoryID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) createCategory(c *gin.Context) {
	var req models.CategoryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := s.store.CreateCategory(c.Request.Context(), req)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	categoryID, subcategoryID, ok := categoryKey(c)
	if !ok {
		return
	}
	var req models.CategoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := s.store.UpdateCategory(c.Request.Context(), categoryID, subcategoryID, req)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	categoryID, subcategoryID, ok := categoryKey(c)
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(c.Request.Context(), categoryID, subcategoryID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.store.ListProducts(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (s *Server) listProductsByCategory(c *gin.Context) {
	categoryID, subcategoryID, ok := categoryKey(c)
	if !ok {
		return
	}
	products, err := s.store.ListProductsByCategory(c.Request.Context(), categoryID, subcategoryID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, err := s.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var req models.ProductCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := s.store.CreateProduct(c.Request.Context(), req)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req models.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := s.store.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteProduct(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (s *Server) createUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req, hash)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		RoleID int `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRoleID(req.RoleID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_id must be between 1 and 3"})
		return
	}

	if err := s.store.UpdateUserRole(c.Request.Context(), id, req.RoleID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (s *Server) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := s.store.DeleteUser(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
