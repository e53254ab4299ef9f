package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/stockpilot/internal/config"
	"github.com/matthieukhl/stockpilot/internal/llm"
	"github.com/matthieukhl/stockpilot/internal/types"
)

var checkLLMCmd = &cobra.Command{
	Use:   "check-llm",
	Short: "Check the Ollama connection",
	Long: `Lists the models registered with the configured Ollama instance, runs a
probe generation and reports whether the assistant would be available.`,
	RunE: checkLLM,
}

func init() {
	rootCmd.AddCommand(checkLLMCmd)
}

func checkLLM(cmd *cobra.Command, args []string) error {
	fmt.Println("🧪 Checking LLM connection...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	gen, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	fmt.Printf("📡 Listing models at %s...\n", cfg.LLM.BaseURL)
	if lister, ok := gen.(types.ModelLister); ok {
		models, err := lister.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		for _, name := range models {
			fmt.Printf("   • %s\n", name)
		}
		fmt.Printf("   ✅ %d models available\n", len(models))
	}

	fmt.Printf("🤖 Verifying model %s...\n", cfg.LLM.Model)
	client := llm.NewClient(ctx, gen, cfg.LLM.MaxRetries)
	if !client.Available() {
		return fmt.Errorf("assistant unavailable: %s", client.Reason())
	}

	fmt.Printf("💬 Probe generation with %s...\n", client.Model())
	response, ok := client.Complete(ctx, "Reply with a single short sentence confirming you are reachable.")
	if !ok {
		return fmt.Errorf("probe generation failed: %s", response)
	}
	fmt.Printf("   ✅ Response: %s\n", response)

	fmt.Println("\n🎉 LLM connection is working!")
	return nil
}
