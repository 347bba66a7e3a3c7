package config

import (
	"fmt"
	"sync"
)

// AgentConfig defines one addressable agent: its instruction, the LLM
// provider it runs on, and the MCP servers whose tools it may call.
type AgentConfig struct {
	Description string `yaml:"description,omitempty"`

	// Instruction is the system-prompt body for the agent.
	Instruction string `yaml:"instruction"`

	// LLMProvider names an entry in the LLM provider registry.
	LLMProvider string `yaml:"llm_provider"`

	// EvaluatorProvider names the cheap model used for goal evaluation.
	// Empty means the agent's own provider is used.
	EvaluatorProvider string `yaml:"evaluator_provider,omitempty"`

	// MCPServers lists the MCP server IDs this agent has access to.
	MCPServers []string `yaml:"mcp_servers,omitempty"`

	// Streaming enables token streaming for this agent's LLM calls.
	Streaming bool `yaml:"streaming"`

	// MaxIterations caps the reasoning loop; nil means the platform default.
	MaxIterations *int `yaml:"max_iterations,omitempty" validate:"omitempty,min=1"`

	// Skills advertised on the agent card.
	Skills []SkillConfig `yaml:"skills,omitempty"`
}

// SkillConfig is one advertised capability on the agent card.
type SkillConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// AgentRegistry stores agent configurations in memory with thread-safe access.
type AgentRegistry struct {
	agents map[string]*AgentConfig
	mu     sync.RWMutex
}

// NewAgentRegistry creates a new agent registry.
func NewAgentRegistry(agents map[string]*AgentConfig) *AgentRegistry {
	copied := make(map[string]*AgentConfig, len(agents))
	for k, v := range agents {
		copied[k] = v
	}
	return &AgentRegistry{agents: copied}
}

// Get retrieves an agent configuration by ID (thread-safe).
func (r *AgentRegistry) Get(agentID string) (*AgentConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, exists := r.agents[agentID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	return agent, nil
}

// GetAll returns all agent configurations (thread-safe, returns copy).
func (r *AgentRegistry) GetAll() map[string]*AgentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*AgentConfig, len(r.agents))
	for k, v := range r.agents {
		result[k] = v
	}
	return result
}

// Has checks if an agent exists in the registry (thread-safe).
func (r *AgentRegistry) Has(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.agents[agentID]
	return exists
}

// Len returns the number of agents in the registry (thread-safe).
func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
