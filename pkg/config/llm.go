package config

import (
	"fmt"
	"sync"
)

// LLMProviderType identifies the adapter used for a provider entry.
type LLMProviderType string

const (
	ProviderOpenAI    LLMProviderType = "openai"
	ProviderAnthropic LLMProviderType = "anthropic"
)

// Valid reports whether the provider type has an adapter.
func (t LLMProviderType) Valid() bool {
	switch t {
	case ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

// LLMProviderConfig defines one LLM provider entry.
type LLMProviderConfig struct {
	// Provider type (required)
	Type LLMProviderType `yaml:"type" validate:"required"`

	// Model name (required)
	Model string `yaml:"model" validate:"required"`

	// Environment variable name holding the API key. Resolved through the
	// secret store by the adapter, never inside the workflow.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Optional custom endpoint/base URL (proxies, compatible servers).
	BaseURL string `yaml:"base_url,omitempty"`

	// Pricing per million tokens, used for cost accrual.
	InputCostPerMTok  float64 `yaml:"input_cost_per_mtok"`
	OutputCostPerMTok float64 `yaml:"output_cost_per_mtok"`

	// Maximum tokens kept from a tool result before truncation.
	MaxToolResultTokens int `yaml:"max_tool_result_tokens,omitempty"`
}

// LLMProviderRegistry stores LLM provider configurations in memory with
// thread-safe access.
type LLMProviderRegistry struct {
	providers map[string]*LLMProviderConfig
	mu        sync.RWMutex
}

// NewLLMProviderRegistry creates a new LLM provider registry.
func NewLLMProviderRegistry(providers map[string]*LLMProviderConfig) *LLMProviderRegistry {
	copied := make(map[string]*LLMProviderConfig, len(providers))
	for k, v := range providers {
		copied[k] = v
	}
	return &LLMProviderRegistry{providers: copied}
}

// Get retrieves an LLM provider configuration by name (thread-safe).
func (r *LLMProviderRegistry) Get(name string) (*LLMProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrLLMProviderNotFound, name)
	}
	return provider, nil
}

// GetAll returns all LLM provider configurations (thread-safe, returns copy).
func (r *LLMProviderRegistry) GetAll() map[string]*LLMProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*LLMProviderConfig, len(r.providers))
	for k, v := range r.providers {
		result[k] = v
	}
	return result
}

// Has checks if an LLM provider exists in the registry (thread-safe).
func (r *LLMProviderRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[name]
	return exists
}

// Len returns the number of LLM providers in the registry (thread-safe).
func (r *LLMProviderRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
