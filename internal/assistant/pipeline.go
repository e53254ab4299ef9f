package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matthieukhl/stockpilot/internal/llm"
	"github.com/matthieukhl/stockpilot/internal/metrics"
)

// ErrEmptyQuery rejects requests without query text
var ErrEmptyQuery = errors.New("query text is required")

// Request is one inbound assistant query
type Request struct {
	Query string `json:"query" binding:"required"`
	Role  string `json:"role"`
	Style string `json:"style"`
}

// Response is the well-formed result the pipeline always produces
type Response struct {
	Response         string   `json:"response"`
	Intent           Intent   `json:"intent"`
	Digest           Digest   `json:"digest"`
	Data             RawData  `json:"data"`
	Actions          []string `json:"actions"`
	NeedsHumanReview bool     `json:"needs_human_review"`
}

// Pipeline runs the full assistant chain: classify, build context, compose
// the prompt, call the completion client and post-process the text.
type Pipeline struct {
	builder  *ContextBuilder
	composer *PromptComposer
	client   *llm.Client
	policy   ActionPolicy
}

func NewPipeline(agg *metrics.Aggregator, client *llm.Client, maxPromptBytes int, policy ActionPolicy) *Pipeline {
	if policy.Max == 0 {
		policy = DefaultActionPolicy()
	}
	return &Pipeline{
		builder:  NewContextBuilder(agg),
		composer: NewPromptComposer(maxPromptBytes),
		client:   client,
		policy:   policy,
	}
}

// Answer processes one query. Apart from empty-query validation it never
// returns an error: every internal failure is converted into a response
// flagged for human review at this boundary.
func (p *Pipeline) Answer(ctx context.Context, req Request) (result *Response, err error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	defer func() {
		if r := recover(); r != nil {
			result = &Response{
				Response:         fmt.Sprintf("An unexpected error occurred: %v", r),
				Intent:           IntentSupervisor,
				NeedsHumanReview: true,
			}
			err = nil
		}
	}()

	intent := Classify(req.Query)
	qc := p.builder.Build(ctx, req.Query, req.Role, intent)
	prompt := p.composer.Compose(qc)

	text, ok := p.client.Complete(ctx, prompt)

	styled := ApplyStyle(text, req.Style)

	return &Response{
		Response:         styled,
		Intent:           intent,
		Digest:           qc.Digest,
		Data:             qc.Data,
		Actions:          ExtractActions(text, p.policy),
		NeedsHumanReview: !ok,
	}, nil
}
