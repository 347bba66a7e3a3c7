package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFiles(t *testing.T, droverYAML, providersYAML string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drover.yaml"), []byte(droverYAML), 0o644))
	if providersYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "llm-providers.yaml"), []byte(providersYAML), 0o644))
	}
	return dir
}

func TestInitialize_MergesUserConfigOverBuiltins(t *testing.T) {
	dir := writeConfigFiles(t, `
server:
  port: 9090
agents:
  research-agent:
    description: Research assistant
    instruction: You research topics thoroughly.
    llm_provider: openai-default
    mcp_servers: [search]
    streaming: true
mcp_servers:
  search:
    transport:
      type: http
      url: http://localhost:3001/mcp
`, "")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	// User server section merges over defaults.
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset fields keep defaults")
	assert.Equal(t, "http://0.0.0.0:9090", cfg.Server.PublicURL)

	// Built-in agent survives alongside the user agent.
	assert.True(t, cfg.AgentRegistry.Has("general-assistant"))
	agent, err := cfg.GetAgent("research-agent")
	require.NoError(t, err)
	assert.Equal(t, []string{"search"}, agent.MCPServers)

	// Built-in providers are present without an llm-providers.yaml.
	assert.True(t, cfg.LLMProviderRegistry.Has("openai-default"))
}

func TestInitialize_UserProviderOverridesBuiltin(t *testing.T) {
	dir := writeConfigFiles(t, `
agents: {}
`, `
llm_providers:
  openai-default:
    type: openai
    model: gpt-4.1
    api_key_env: MY_OPENAI_KEY
    input_cost_per_mtok: 2.0
    output_cost_per_mtok: 8.0
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	provider, err := cfg.GetLLMProvider("openai-default")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", provider.Model)
	assert.Equal(t, "MY_OPENAI_KEY", provider.APIKeyEnv)
}

func TestInitialize_ValidationRejectsDanglingReferences(t *testing.T) {
	dir := writeConfigFiles(t, `
agents:
  broken:
    instruction: do things
    llm_provider: no-such-provider
    mcp_servers: [no-such-server]
`, "")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestInitialize_MissingConfigDir(t *testing.T) {
	_, err := Initialize(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_DROVER_KEY", "sekrit")

	out := ExpandEnv([]byte("api_key: {{.TEST_DROVER_KEY}}\npattern: ^secret.*$\n"))

	assert.Contains(t, string(out), "api_key: sekrit")
	assert.Contains(t, string(out), "pattern: ^secret.*$", "literal $ preserved")
}

func TestValidator_TransportRequirements(t *testing.T) {
	cfg := &Config{
		AgentRegistry:       NewAgentRegistry(nil),
		LLMProviderRegistry: NewLLMProviderRegistry(nil),
		MCPServerRegistry: NewMCPServerRegistry(map[string]*MCPServerConfig{
			"no-command": {Transport: TransportConfig{Type: TransportStdio}},
			"no-url":     {Transport: TransportConfig{Type: TransportHTTP}},
			"bad-type":   {Transport: TransportConfig{Type: "carrier-pigeon"}},
		}),
	}

	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
