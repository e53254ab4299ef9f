package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockpilot",
	Short: "StockPilot - Inventory Management with an AI Assistant",
	Long: `StockPilot is a role-gated inventory management API augmented with a
natural-language assistant. Free-text questions are classified, enriched
with live business metrics and answered through a local Ollama model.

The server exposes REST endpoints for categories, products, users and the
AI assistant. CLI commands cover database setup and LLM connectivity checks.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
