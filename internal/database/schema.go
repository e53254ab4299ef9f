package database

// InventorySchemaSQL documents the full schema in one place. SetupSchema
// executes the same statements individually since the MySQL driver does not
// accept multi-statement batches by default.
const InventorySchemaSQL = `
-- Roles table
CREATE TABLE IF NOT EXISTS roles (
    role_id INT PRIMARY KEY,
    role_name VARCHAR(50) NOT NULL,
    description VARCHAR(255),
    UNIQUE KEY uk_role_name (role_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

-- Users table
CREATE TABLE IF NOT EXISTS users (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    username VARCHAR(50) NOT NULL,
    email VARCHAR(255) NOT NULL,
    hashed_password VARCHAR(255) NOT NULL,
    full_name VARCHAR(100),
    role_id INT NOT NULL DEFAULT 3,
    is_active BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uk_username (username),
    UNIQUE KEY uk_email (email),
    FOREIGN KEY (role_id) REFERENCES roles(role_id),
    INDEX idx_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

-- Master table: product categories with a composite key
CREATE TABLE IF NOT EXISTS product_category (
    category_id INT NOT NULL,
    subcategory_id INT NOT NULL,
    category_name VARCHAR(100) NOT NULL,
    description VARCHAR(500),
    PRIMARY KEY (category_id, subcategory_id),
    UNIQUE KEY uk_category_name (category_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

-- Detail table: products, cascade-deleted with their category
CREATE TABLE IF NOT EXISTS product (
    product_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    category_id INT NOT NULL,
    subcategory_id INT NOT NULL,
    product_name VARCHAR(100) NOT NULL,
    price DECIMAL(10,2) NOT NULL,
    stock_quantity INT NOT NULL DEFAULT 0,
    UNIQUE KEY uk_product_name (product_name),
    FOREIGN KEY (category_id, subcategory_id)
        REFERENCES product_category(category_id, subcategory_id)
        ON DELETE CASCADE,
    INDEX idx_stock (stock_quantity)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// SetupSchema creates the inventory tables and seeds the fixed roles
func (db *DB) SetupSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS roles (
		    role_id INT PRIMARY KEY,
		    role_name VARCHAR(50) NOT NULL,
		    description VARCHAR(255),
		    UNIQUE KEY uk_role_name (role_name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS users (
		    id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    username VARCHAR(50) NOT NULL,
		    email VARCHAR(255) NOT NULL,
		    hashed_password VARCHAR(255) NOT NULL,
		    full_name VARCHAR(100),
		    role_id INT NOT NULL DEFAULT 3,
		    is_active BOOLEAN DEFAULT TRUE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    UNIQUE KEY uk_username (username),
		    UNIQUE KEY uk_email (email),
		    FOREIGN KEY (role_id) REFERENCES roles(role_id),
		    INDEX idx_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS product_category (
		    category_id INT NOT NULL,
		    subcategory_id INT NOT NULL,
		    category_name VARCHAR(100) NOT NULL,
		    description VARCHAR(500),
		    PRIMARY KEY (category_id, subcategory_id),
		    UNIQUE KEY uk_category_name (category_name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS product (
		    product_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    category_id INT NOT NULL,
		    subcategory_id INT NOT NULL,
		    product_name VARCHAR(100) NOT NULL,
		    price DECIMAL(10,2) NOT NULL,
		    stock_quantity INT NOT NULL DEFAULT 0,
		    UNIQUE KEY uk_product_name (product_name),
		    FOREIGN KEY (category_id, subcategory_id)
		        REFERENCES product_category(category_id, subcategory_id)
		        ON DELETE CASCADE,
		    INDEX idx_stock (stock_quantity)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`INSERT IGNORE INTO roles (role_id, role_name, description) VALUES
		    (1, 'admin', 'Full system access'),
		    (2, 'manager', 'Manage products and categories'),
		    (3, 'user', 'Read-only access')`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// CleanupData removes all inventory data (but keeps schema and roles)
func (db *DB) CleanupData() error {
	queries := []string{
		"DELETE FROM product",
		"DELETE FROM product_category",
		"DELETE FROM users",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// DropSchema removes all inventory tables
func (db *DB) DropSchema() error {
	queries := []string{
		"DROP TABLE IF EXISTS product",
		"DROP TABLE IF EXISTS product_category",
		"DROP TABLE IF EXISTS users",
		"DROP TABLE IF EXISTS roles",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
