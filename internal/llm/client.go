package llm

import (
	"context"
	"strings"
	"time"

	"github.com/matthieukhl/stockpilot/internal/types"
)

// UnavailableMessage is returned when the completion service was never
// reachable or has no usable model.
const UnavailableMessage = "AI service is currently unavailable. Please check if Ollama is running."

// ExhaustedMessage is returned when every generation attempt failed.
const ExhaustedMessage = "I apologize, but I'm having trouble generating a response right now. Please try again later or check the Ollama service."

const probePrompt = "Test connection"

// backoffUnit is multiplied by the attempt number between retries
const backoffUnit = 5 * time.Second

// Client wraps a generator with model verification, a liveness probe,
// bounded retries and an explicit unavailable state. Callers check
// Available() instead of receiving a stand-in implementation.
type Client struct {
	gen        types.Generator
	maxRetries int
	available  bool
	reason     string
	sleep      func(time.Duration)
}

// NewClient verifies the configured model against the service's model list
// and runs one trivial completion as a liveness probe. Verification failures
// never return an error: the client comes back in the unavailable state and
// every Complete call short-circuits to the fixed message.
func NewClient(ctx context.Context, gen types.Generator, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 2
	}

	c := &Client{
		gen:        gen,
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}

	lister, ok := gen.(types.ModelLister)
	if !ok {
		c.reason = "completion service does not expose a model list"
		return c
	}

	models, err := lister.ListModels(ctx)
	if err != nil {
		c.reason = "failed to list models: " + err.Error()
		return c
	}
	if len(models) == 0 {
		c.reason = "no models available"
		return c
	}

	// Exact or substring match on the configured model, case-insensitive;
	// fall back to the first available model otherwise.
	target := strings.ToLower(gen.Model())
	chosen := models[0]
	for _, name := range models {
		lower := strings.ToLower(name)
		if target == lower || strings.Contains(lower, target) {
			chosen = name
			break
		}
	}
	if setter, ok := gen.(interface{ SetModel(string) }); ok {
		setter.SetModel(chosen)
	}

	// Liveness probe
	if _, err := gen.Complete(ctx, probePrompt, nil); err != nil {
		c.reason = "liveness probe failed: " + err.Error()
		return c
	}

	c.available = true
	return c
}

// Available reports whether the client can reach a usable model
func (c *Client) Available() bool {
	return c.available
}

// Reason explains why the client is unavailable, empty when available
func (c *Client) Reason() string {
	return c.reason
}

// Model returns the verified model name
func (c *Client) Model() string {
	return c.gen.Model()
}

// Complete generates text for the prompt with bounded retries and linear
// backoff. The second return value is false when the fixed fallback message
// was used instead of a model response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, bool) {
	if !c.available {
		return UnavailableMessage, false
	}

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		text, err := c.gen.Complete(ctx, prompt, nil)
		if err == nil && text != "" {
			return text, true
		}

		if attempt < c.maxRetries {
			c.sleep(time.Duration(attempt) * backoffUnit)
		}
	}

	return ExhaustedMessage, false
}
