package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DroverYAMLConfig represents the complete drover.yaml file structure.
type DroverYAMLConfig struct {
	Server     *ServerConfig              `yaml:"server"`
	Temporal   *TemporalConfig            `yaml:"temporal"`
	Auth       *AuthConfig                `yaml:"auth"`
	Budget     *BudgetConfig              `yaml:"budget"`
	Retention  *RetentionConfig           `yaml:"retention"`
	MCPServers map[string]MCPServerConfig `yaml:"mcp_servers"`
	Agents     map[string]AgentConfig     `yaml:"agents"`
}

// LLMProvidersYAMLConfig represents the complete llm-providers.yaml file structure.
type LLMProvidersYAMLConfig struct {
	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML files from configDir
//  2. Expand environment variables
//  3. Merge built-in + user-defined configurations
//  4. Build in-memory registries
//  5. Apply default values
//  6. Validate all configuration
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"agents", stats.Agents,
		"mcp_servers", stats.MCPServers,
		"llm_providers", stats.LLMProviders)

	return cfg, nil
}

// load is the internal loader (not exported).
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	droverConfig, err := loader.loadDroverYAML()
	if err != nil {
		return nil, NewLoadError("drover.yaml", err)
	}

	llmProviders, err := loader.loadLLMProvidersYAML()
	if err != nil {
		return nil, NewLoadError("llm-providers.yaml", err)
	}

	builtin := GetBuiltinConfig()

	// Merge built-in + user-defined components (user overrides built-in).
	agents := mergeAgents(builtin.Agents, droverConfig.Agents)
	mcpServers := mergeMCPServers(builtin.MCPServers, droverConfig.MCPServers)
	llmProvidersMerged := mergeLLMProviders(builtin.LLMProviders, llmProviders)

	// Infrastructure sections start from defaults; user YAML merges on top so
	// unset fields keep their defaults.
	serverConfig := DefaultServerConfig()
	if droverConfig.Server != nil {
		if err := mergo.Merge(serverConfig, droverConfig.Server, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge server config: %w", err)
		}
	}
	temporalConfig := DefaultTemporalConfig()
	if droverConfig.Temporal != nil {
		if err := mergo.Merge(temporalConfig, droverConfig.Temporal, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge temporal config: %w", err)
		}
	}
	authConfig := DefaultAuthConfig()
	if droverConfig.Auth != nil {
		if err := mergo.Merge(authConfig, droverConfig.Auth, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge auth config: %w", err)
		}
	}
	budgetConfig := DefaultBudgetConfig()
	if droverConfig.Budget != nil {
		if err := mergo.Merge(budgetConfig, droverConfig.Budget, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge budget config: %w", err)
		}
	}
	retentionConfig := DefaultRetentionConfig()
	if droverConfig.Retention != nil {
		if err := mergo.Merge(retentionConfig, droverConfig.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	if serverConfig.PublicURL == "" {
		serverConfig.PublicURL = fmt.Sprintf("http://%s:%d", serverConfig.Host, serverConfig.Port)
	}

	return &Config{
		configDir:           configDir,
		Server:              serverConfig,
		Temporal:            temporalConfig,
		Auth:                authConfig,
		Budget:              budgetConfig,
		Retention:           retentionConfig,
		AgentRegistry:       NewAgentRegistry(agents),
		MCPServerRegistry:   NewMCPServerRegistry(mcpServers),
		LLMProviderRegistry: NewLLMProviderRegistry(llmProvidersMerged),
	}, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand environment variables using {{.VAR}} template syntax.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return nil
}

func (l *configLoader) loadDroverYAML() (*DroverYAMLConfig, error) {
	var config DroverYAMLConfig
	config.MCPServers = make(map[string]MCPServerConfig)
	config.Agents = make(map[string]AgentConfig)

	if err := l.loadYAML("drover.yaml", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (l *configLoader) loadLLMProvidersYAML() (map[string]LLMProviderConfig, error) {
	var config LLMProvidersYAMLConfig
	config.LLMProviders = make(map[string]LLMProviderConfig)

	if err := l.loadYAML("llm-providers.yaml", &config); err != nil {
		// A missing llm-providers.yaml is fine: built-in providers apply.
		if errors.Is(err, ErrConfigNotFound) {
			return config.LLMProviders, nil
		}
		return nil, err
	}
	return config.LLMProviders, nil
}
