package config

import (
	"fmt"
	"sync"
)

// TransportType identifies how an MCP server is reached.
type TransportType string

const (
	TransportStdio TransportType = "stdio"
	TransportHTTP  TransportType = "http"
	TransportSSE   TransportType = "sse"
)

// Valid reports whether the transport type is supported.
func (t TransportType) Valid() bool {
	switch t {
	case TransportStdio, TransportHTTP, TransportSSE:
		return true
	}
	return false
}

// TransportConfig defines MCP server transport configuration.
type TransportConfig struct {
	Type TransportType `yaml:"type" validate:"required"`

	// For stdio transport
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"` // Environment overrides for the subprocess

	// For http/sse transport
	URL         string `yaml:"url,omitempty"`
	BearerToken string `yaml:"bearer_token,omitempty"`
	Timeout     int    `yaml:"timeout,omitempty"` // In seconds
}

// MCPServerConfig defines one MCP tool server.
type MCPServerConfig struct {
	// Transport configuration (required)
	Transport TransportConfig `yaml:"transport" validate:"required"`

	// Instructions surfaced to the LLM when this server's tools are offered.
	Instructions string `yaml:"instructions,omitempty"`
}

// MCPServerRegistry stores MCP server configurations in memory with
// thread-safe access.
type MCPServerRegistry struct {
	servers map[string]*MCPServerConfig
	mu      sync.RWMutex
}

// NewMCPServerRegistry creates a new MCP server registry.
func NewMCPServerRegistry(servers map[string]*MCPServerConfig) *MCPServerRegistry {
	copied := make(map[string]*MCPServerConfig, len(servers))
	for k, v := range servers {
		copied[k] = v
	}
	return &MCPServerRegistry{servers: copied}
}

// Get retrieves an MCP server configuration by ID (thread-safe).
func (r *MCPServerRegistry) Get(serverID string) (*MCPServerConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	server, exists := r.servers[serverID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMCPServerNotFound, serverID)
	}
	return server, nil
}

// GetAll returns all MCP server configurations (thread-safe, returns copy).
func (r *MCPServerRegistry) GetAll() map[string]*MCPServerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*MCPServerConfig, len(r.servers))
	for k, v := range r.servers {
		result[k] = v
	}
	return result
}

// Has checks if an MCP server exists in the registry (thread-safe).
func (r *MCPServerRegistry) Has(serverID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.servers[serverID]
	return exists
}

// Len returns the number of MCP servers in the registry (thread-safe).
func (r *MCPServerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.servers)
}
