package litellm

import (
	"context"
	"fmt"

	"github.com/Strob0t/RouteForge/port/backend"
)

// Backend binds a model and token budget to the generation port.
// The local ensemble path and the remote escalation path are two Backend
// values over the same (or different) clients.
type Backend struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewBackend creates a generation backend for the given model.
func NewBackend(client *Client, model string, maxTokens int, temperature float64) *Backend {
	return &Backend{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Generate implements backend.Generator. Per-token probabilities from the
// proxy become span signals; their mean becomes the overall signal. A
// response without logprobs carries a nil signal, which the scorer treats as
// malformed rather than silently zero.
func (b *Backend) Generate(ctx context.Context, prompt, systemPrompt string) (*backend.Generation, error) {
	var messages []ChatMessage
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: prompt})

	resp, err := b.client.ChatCompletion(ctx, ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
		Logprobs:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", b.model, err)
	}

	gen := &backend.Generation{
		Text:       resp.Content,
		TokenCount: resp.CompletionTokens,
	}
	if len(resp.TokenProbs) > 0 {
		sum := 0.0
		for _, p := range resp.TokenProbs {
			sum += p
		}
		mean := sum / float64(len(resp.TokenProbs))
		gen.Signal = backend.Signal{Mean: &mean, Spans: resp.TokenProbs}
	}
	return gen, nil
}
