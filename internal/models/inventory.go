package models

import "time"

// Role identifiers match the seeded roles table
const (
	RoleAdmin   = 1
	RoleManager = 2
	RoleUser    = 3
)

const (
	RoleNameAdmin   = "admin"
	RoleNameManager = "manager"
	RoleNameUser    = "user"
)

// RoleName maps a role id to its name, defaulting to the least privileged role
func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return RoleNameAdmin
	case RoleManager:
		return RoleNameManager
	default:
		return RoleNameUser
	}
}

// ValidRoleID reports whether the id refers to a seeded role
func ValidRoleID(roleID int) bool {
	return roleID >= RoleAdmin && roleID <= RoleUser
}

type Role struct {
	RoleID      int    `json:"role_id" db:"role_id"`
	RoleName    string `json:"role_name" db:"role_name"`
	Description string `json:"description" db:"description"`
}

type ProductCategory struct {
	CategoryID    int    `json:"category_id" db:"category_id"`
	SubcategoryID int    `json:"subcategory_id" db:"subcategory_id"`
	CategoryName  string `json:"category_name" db:"category_name"`
	Description   string `json:"description" db:"description"`
}

type Product struct {
	ProductID     int64   `json:"product_id" db:"product_id"`
	CategoryID    int     `json:"category_id" db:"category_id"`
	SubcategoryID int     `json:"subcategory_id" db:"subcategory_id"`
	ProductName   string  `json:"product_name" db:"product_name"`
	Price         float64 `json:"price" db:"price"`
	StockQuantity int     `json:"stock_quantity" db:"stock_quantity"`
	// CategoryName is populated by joined reads, empty otherwise
	CategoryName string `json:"category_name,omitempty" db:"category_name"`
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	RoleID    int       `json:"role_id" db:"role_id"`
	RoleName  string    `json:"role_name" db:"role_name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryCreate is the payload for creating a category
type CategoryCreate struct {
	CategoryID    int    `json:"category_id" binding:"required,gt=0"`
	SubcategoryID int    `json:"subcategory_id" binding:"required,gt=0"`
	CategoryName  string `json:"category_name" binding:"required,min=1,max=100"`
	Description   string `json:"description" binding:"max=500"`
}

// CategoryUpdate carries optional fields, nil means leave unchanged
type CategoryUpdate struct {
	CategoryName *string `json:"category_name"`
	Description  *string `json:"description"`
}

type ProductCreate struct {
	CategoryID    int     `json:"category_id" binding:"required,gt=0"`
	SubcategoryID int     `json:"subcategory_id" binding:"required,gt=0"`
	ProductName   string  `json:"product_name" binding:"required,min=1,max=100"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	StockQuantity *int    `json:"stock_quantity" binding:"required,gte=0"`
}

type ProductUpdate struct {
	ProductName   *string  `json:"product_name" binding:"omitempty,min=1,max=100"`
	Price         *float64 `json:"price" binding:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
}

type UserCreate struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"max=100"`
	RoleID   int    `json:"role_id"`
}

type UserLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
