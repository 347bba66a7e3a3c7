// Package llm provides provider adapters for LLM completions. Adapters
// translate the conversation into provider wire formats, stream token chunks
// into a caller-supplied sink, and map usage into dollar cost.
package llm

import (
	"context"
	"fmt"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/secrets"
)

// Request is one completion request against a provider.
type Request struct {
	Messages  []models.Message
	Tools     []models.ToolDescriptor
	Streaming bool

	// Correlation IDs, passed through for logging only.
	TaskID      string
	AgentID     string
	ExecutionID string
}

// Response is the assembled result of one completion.
type Response struct {
	Content   string
	ToolCalls []models.ToolCall
	Usage     models.Usage
	CostUSD   float64
}

// ChunkSink receives streamed content deltas while a completion is in flight.
// Called synchronously from the stream reader; implementations must be fast
// or hand off.
type ChunkSink func(chunk string, index int, isFinal bool)

// Client completes conversations against one configured provider.
type Client interface {
	// Complete runs a single completion. When req.Streaming is set and sink is
	// non-nil, content deltas are pushed through sink; the assembled response
	// is returned either way.
	Complete(ctx context.Context, req Request, sink ChunkSink) (*Response, error)
}

// NewClient builds the adapter for a provider configuration, resolving the
// API key through the secret store.
func NewClient(name string, cfg *config.LLMProviderConfig, store secrets.Store) (Client, error) {
	apiKey, err := store.Get(cfg.APIKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("resolving API key for provider %q: %w", name, err)
	}

	switch cfg.Type {
	case config.ProviderOpenAI:
		return newOpenAIClient(name, cfg, apiKey), nil
	case config.ProviderAnthropic:
		return newAnthropicClient(name, cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q for provider %q", cfg.Type, name)
	}
}

// costUSD converts token usage to dollars using the provider's per-MTok rates.
func costUSD(usage models.Usage, cfg *config.LLMProviderConfig) float64 {
	in := float64(usage.PromptTokens) / 1e6 * cfg.InputCostPerMTok
	out := float64(usage.CompletionTokens) / 1e6 * cfg.OutputCostPerMTok
	return in + out
}
