// Package config loads and validates platform configuration from YAML files
// with environment expansion, merging user config over built-in defaults.
package config

// Config is the umbrella configuration object returned by Initialize() and
// used throughout the application.
type Config struct {
	configDir string

	// Infrastructure sections
	Server    *ServerConfig
	Temporal  *TemporalConfig
	Auth      *AuthConfig
	Budget    *BudgetConfig
	Retention *RetentionConfig

	// Component registries
	AgentRegistry       *AgentRegistry
	MCPServerRegistry   *MCPServerRegistry
	LLMProviderRegistry *LLMProviderRegistry
}

// Stats contains statistics about loaded configuration.
type Stats struct {
	Agents       int
	MCPServers   int
	LLMProviders int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() Stats {
	s := Stats{}
	if c.AgentRegistry != nil {
		s.Agents = c.AgentRegistry.Len()
	}
	if c.MCPServerRegistry != nil {
		s.MCPServers = c.MCPServerRegistry.Len()
	}
	if c.LLMProviderRegistry != nil {
		s.LLMProviders = c.LLMProviderRegistry.Len()
	}
	return s
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetAgent retrieves an agent configuration by ID.
func (c *Config) GetAgent(agentID string) (*AgentConfig, error) {
	return c.AgentRegistry.Get(agentID)
}

// GetMCPServer retrieves an MCP server configuration by ID.
func (c *Config) GetMCPServer(serverID string) (*MCPServerConfig, error) {
	return c.MCPServerRegistry.Get(serverID)
}

// GetLLMProvider retrieves an LLM provider configuration by name.
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}
