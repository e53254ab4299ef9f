package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthieukhl/stockpilot/internal/models"
)

const productColumns = `p.product_id, p.category_id, p.subcategory_id, p.product_name,
		p.price, p.stock_quantity, c.category_name`

// ListProducts returns all products with their category names
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM product p
		JOIN product_category c
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		ORDER BY p.product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.CategoryID, &p.SubcategoryID,
			&p.ProductName, &p.Price, &p.StockQuantity, &p.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProductsByCategory returns the products under one category
func (s *Store) ListProductsByCategory(ctx context.Context, categoryID, subcategoryID int) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM product p
		JOIN product_category c
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		WHERE p.category_id = ? AND p.subcategory_id = ?
		ORDER BY p.product_id`,
		categoryID, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.CategoryID, &p.SubcategoryID,
			&p.ProductName, &p.Price, &p.StockQuantity, &p.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches one product by ID
func (s *Store) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM product p
		JOIN product_category c
		    ON p.category_id = c.category_id AND p.subcategory_id = c.subcategory_id
		WHERE p.product_id = ?`,
		productID,
	).Scan(&p.ProductID, &p.CategoryID, &p.SubcategoryID,
		&p.ProductName, &p.Price, &p.StockQuantity, &p.CategoryName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts a new product after checking that its category exists
// and its name is unused.
func (s *Store) CreateProduct(ctx context.Context, req models.ProductCreate) (*models.Product, error) {
	var categoryCount int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM product_category
		WHERE category_id = ? AND subcategory_id = ?`,
		req.CategoryID, req.SubcategoryID,
	).Scan(&categoryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if categoryCount == 0 {
		return nil, ErrInvalidReference
	}

	var nameCount int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product WHERE product_name = ?`, req.ProductName,
	).Scan(&nameCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if nameCount > 0 {
		return nil, ErrConflict
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO product (category_id, subcategory_id, product_name, price, stock_quantity)
		VALUES (?, ?, ?, ?, ?)`,
		req.CategoryID, req.SubcategoryID, req.ProductName, req.Price, *req.StockQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	productID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}

	return &models.Product{
		ProductID:     productID,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		ProductName:   req.ProductName,
		Price:         req.Price,
		StockQuantity: *req.StockQuantity,
	}, nil
}

// UpdateProduct applies the non-nil fields of the update and returns the
// updated row. A new name must be unused by any other product.
func (s *Store) UpdateProduct(ctx context.Context, productID int64, req models.ProductUpdate) (*models.Product, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		if *req.ProductName == "" {
			return nil, ErrInvalidValue
		}
		var nameCount int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM product WHERE product_name = ? AND product_id <> ?`,
			*req.ProductName, productID,
		).Scan(&nameCount)
		if err != nil {
			return nil, fmt.Errorf("failed to check product name: %w", err)
		}
		if nameCount > 0 {
			return nil, ErrConflict
		}
		p.ProductName = *req.ProductName
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidValue
		}
		p.Price = *req.Price
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, ErrInvalidValue
		}
		p.StockQuantity = *req.StockQuantity
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE product
		SET product_name = ?, price = ?, stock_quantity = ?
		WHERE product_id = ?`,
		p.ProductName, p.Price, p.StockQuantity, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes one product by ID
func (s *Store) DeleteProduct(ctx context.Context, productID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM product WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
