package llm

import (
	"context"
	"fmt"

	"github.com/matthieukhl/stockpilot/internal/config"
	"github.com/matthieukhl/stockpilot/internal/llm/generate"
	"github.com/matthieukhl/stockpilot/internal/types"
)

// NewGenerator creates the raw transport for the configured provider.
func NewGenerator(cfg *config.LLMConfig) (types.Generator, error) {
	switch cfg.Provider {
	case "ollama":
		return generate.NewOllamaGenerator(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "mock":
		return generate.NewMockGenerator(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// NewClientFromConfig builds and verifies a completion client for the configured
// provider. Errors are limited to configuration problems; an unreachable
// service yields an unavailable client, not an error.
func NewClientFromConfig(ctx context.Context, cfg *config.LLMConfig) (*Client, error) {
	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return NewClient(ctx, gen, cfg.MaxRetries), nil
}
