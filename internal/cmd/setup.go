package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/stockpilot/internal/auth"
	"github.com/matthieukhl/stockpilot/internal/config"
	"github.com/matthieukhl/stockpilot/internal/database"
	"github.com/matthieukhl/stockpilot/internal/inventory"
	"github.com/matthieukhl/stockpilot/internal/models"
)

var (
	dropFirst  bool
	schemaOnly bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up database schema and sample data",
	Long: `Creates the inventory tables (roles, users, product_category, product),
seeds the three fixed roles and a set of sample accounts, and optionally
loads sample categories and products for local development.`,
	RunE: setupDatabase,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Create schema only, skip sample data")
}

func setupDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if dropFirst {
		fmt.Println("🗑️  Dropping existing tables...")
		if err := db.DropSchema(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if schemaOnly {
		fmt.Println("✅ Schema created, sample data skipped")
		return nil
	}

	ctx := context.Background()
	store := inventory.NewStore(db)

	fmt.Println("👥 Seeding sample users...")
	if err := seedUsers(ctx, store, cfg.Auth.BcryptCost); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	fmt.Println("📦 Seeding sample inventory...")
	if err := seedInventory(ctx, store); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	fmt.Println("🎉 Database setup complete!")
	return nil
}

func seedUsers(ctx context.Context, store *inventory.Store, bcryptCost int) error {
	samples := []struct {
		username string
		email    string
		password string
		fullName string
		roleID   int
	}{
		{"admin", "admin@example.com", "admin123", "Administrator", models.RoleAdmin},
		{"manager", "manager@example.com", "manager123", "Manager User", models.RoleManager},
		{"user1", "user1@example.com", "password123", "Regular User", models.RoleUser},
		{"testuser", "test@example.com", "test123", "Test User", models.RoleUser},
	}

	for _, sample := range samples {
		hash, err := auth.HashPassword(sample.password, bcryptCost)
		if err != nil {
			return err
		}

		_, err = store.CreateUser(ctx, models.UserCreate{
			Username: sample.username,
			Email:    sample.email,
			Password: sample.password,
			FullName: sample.fullName,
			RoleID:   sample.roleID,
		}, hash)
		if err == inventory.ErrConflict {
			fmt.Printf("   ⏭️  %s already exists, skipping\n", sample.username)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("   ✅ Created %s (%s)\n", sample.username, models.RoleName(sample.roleID))
	}
	return nil
}

func seedInventory(ctx context.Context, store *inventory.Store) error {
	categories := []models.CategoryCreate{
		{CategoryID: 1, SubcategoryID: 1, CategoryName: "Electronics", Description: "Consumer electronics and accessories"},
		{CategoryID: 1, SubcategoryID: 2, CategoryName: "Computer Parts", Description: "Components and upgrades"},
		{CategoryID: 2, SubcategoryID: 1, CategoryName: "Office Supplies", Description: "Everyday office equipment"},
	}
	for _, cat := range categories {
		if _, err := store.CreateCategory(ctx, cat); err != nil && err != inventory.ErrConflict {
			return err
		}
	}

	stock := func(n int) *int { return &n }
	products := []models.ProductCreate{
		{CategoryID: 1, SubcategoryID: 1, ProductName: "Wireless Mouse", Price: 24.99, StockQuantity: stock(42)},
		{CategoryID: 1, SubcategoryID: 1, ProductName: "USB-C Hub", Price: 39.99, StockQuantity: stock(8)},
		{CategoryID: 1, SubcategoryID: 2, ProductName: "500GB NVMe SSD", Price: 54.90, StockQuantity: stock(15)},
		{CategoryID: 1, SubcategoryID: 2, ProductName: "16GB DDR5 RAM", Price: 72.00, StockQuantity: stock(3)},
		{CategoryID: 2, SubcategoryID: 1, ProductName: "Stapler", Price: 6.49, StockQuantity: stock(120)},
	}
	for _, product := range products {
		if _, err := store.CreateProduct(ctx, product); err != nil && err != inventory.ErrConflict {
			return err
		}
	}
	return nil
}
