package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matthieukhl/stockpilot/internal/types"
)

type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ollamaTagsResponse is the documented /api/tags schema
type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func NewOllamaGenerator(baseURL, model string, timeout time.Duration) *OllamaGenerator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &OllamaGenerator{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *OllamaGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	options := map[string]any{
		"temperature": 0.7,
		"top_p":       0.9,
	}
	if val, ok := opts["temperature"].(float64); ok {
		options["temperature"] = val
	}
	if val, ok := opts["top_p"].(float64); ok {
		options["top_p"] = val
	}
	if val, ok := opts["max_tokens"].(int); ok && val > 0 {
		options["num_predict"] = val
	}
	if val, ok := opts["stop"].([]string); ok {
		options["stop"] = val
	}

	model := g.model
	if val, ok := opts["model"].(string); ok && val != "" {
		model = val
	}

	req := ollamaGenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama API error %d: %s", resp.StatusCode, string(body))
	}

	var response ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Response, nil
}

// ListModels returns the model names registered with the Ollama instance
func (g *OllamaGenerator) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama API error %d: %s", resp.StatusCode, string(body))
	}

	var response ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := make([]string, 0, len(response.Models))
	for _, m := range response.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}

	return names, nil
}

func (g *OllamaGenerator) Model() string {
	return g.model
}

// SetModel records the model chosen after verification against the model list
func (g *OllamaGenerator) SetModel(model string) {
	g.model = model
}

// Compile-time interface checks
var (
	_ types.Generator   = (*OllamaGenerator)(nil)
	_ types.ModelLister = (*OllamaGenerator)(nil)
)
