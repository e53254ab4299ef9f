package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/stockpilot/internal/config"
	"github.com/matthieukhl/stockpilot/internal/database"
	"github.com/matthieukhl/stockpilot/internal/llm"
	"github.com/matthieukhl/stockpilot/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the StockPilot server",
	Long: `Start the StockPilot server which provides:
- REST API for inventory and user management
- AI assistant endpoints backed by a local Ollama model
- Role-gated access with JWT authentication`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 StockPilot Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	fmt.Printf("🤖 Initializing AI client (%s/%s)...\n", cfg.LLM.Provider, cfg.LLM.Model)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	client, err := llm.NewClientFromConfig(ctx, &cfg.LLM)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	if client.Available() {
		fmt.Printf("✅ AI client ready, model: %s\n", client.Model())
	} else {
		fmt.Printf("⚠️  AI assistant unavailable: %s\n", client.Reason())
	}

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(cfg, db, client)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
