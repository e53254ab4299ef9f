package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthieukhl/stockpilot/internal/models"
)

// ListCategories returns all categories ordered by their composite key
func (s *Store) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, subcategory_id, category_name, description
		FROM product_category
		ORDER BY category_id, subcategory_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ProductCategory
	for rows.Next() {
		var cat models.ProductCategory
		var description sql.NullString
		if err := rows.Scan(&cat.CategoryID, &cat.SubcategoryID, &cat.CategoryName, &description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Description = description.String
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// GetCategory fetches one category by its composite key
func (s *Store) GetCategory(ctx context.Context, categoryID, subcategoryID int) (*models.ProductCategory, error) {
	var cat models.ProductCategory
	var description sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT category_id, subcategory_id, category_name, description
		FROM product_category
		WHERE category_id = ? AND subcategory_id = ?`,
		categoryID, subcategoryID,
	).Scan(&cat.CategoryID, &cat.SubcategoryID, &cat.CategoryName, &description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	cat.Description = description.String
	return &cat, nil
}

// CreateCategory inserts a new category. The composite key and the category
// name must both be unused.
func (s *Store) CreateCategory(ctx context.Context, req models.CategoryCreate) (*models.ProductCategory, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM product_category
		WHERE (category_id = ? AND subcategory_id = ?) OR category_name = ?`,
		req.CategoryID, req.SubcategoryID, req.CategoryName,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check category uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO product_category (category_id, subcategory_id, category_name, description)
		VALUES (?, ?, ?, ?)`,
		req.CategoryID, req.SubcategoryID, req.CategoryName, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &models.ProductCategory{
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		CategoryName:  req.CategoryName,
		Description:   req.Description,
	}, nil
}

// UpdateCategory applies the non-nil fields of the update to an existing
// category and returns the updated row.
func (s *Store) UpdateCategory(ctx context.Context, categoryID, subcategoryID int, req models.CategoryUpdate) (*models.ProductCategory, error) {
	cat, err := s.GetCategory(ctx, categoryID, subcategoryID)
	if err != nil {
		return nil, err
	}

	if req.CategoryName != nil && *req.CategoryName != cat.CategoryName {
		var count int
		err := s.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM product_category
			WHERE category_name = ? AND NOT (category_id = ? AND subcategory_id = ?)`,
			*req.CategoryName, categoryID, subcategoryID,
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if count > 0 {
			return nil, ErrConflict
		}
		cat.CategoryName = *req.CategoryName
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE product_category
		SET category_name = ?, description = ?
		WHERE category_id = ? AND subcategory_id = ?`,
		cat.CategoryName, cat.Description, categoryID, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return cat, nil
}

// DeleteCategory removes a category. Products under it are removed by the
// cascade on the foreign key.
func (s *Store) DeleteCategory(ctx context.Context, categoryID, subcategoryID int) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM product_category
		WHERE category_id = ? AND subcategory_id = ?`,
		categoryID, subcategoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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
