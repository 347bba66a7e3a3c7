package config

// BuiltinConfig holds the configuration that ships with the binary. User
// configuration merges on top: same-name entries override, new entries add.
type BuiltinConfig struct {
	Agents       map[string]AgentConfig
	LLMProviders map[string]LLMProviderConfig
	MCPServers   map[string]MCPServerConfig
}

// GetBuiltinConfig returns the built-in agents and providers. Deployments
// that define everything in YAML still get these as a working baseline.
func GetBuiltinConfig() *BuiltinConfig {
	return &BuiltinConfig{
		Agents: map[string]AgentConfig{
			"general-assistant": {
				Description: "General-purpose assistant without tool access",
				Instruction: "You are a capable general-purpose assistant. " +
					"Work through the user's task step by step.",
				LLMProvider:       "openai-default",
				EvaluatorProvider: "openai-mini",
				Streaming:         true,
				Skills: []SkillConfig{
					{
						ID:          "general",
						Name:        "General assistance",
						Description: "Answers questions and performs multi-step reasoning tasks",
						Tags:        []string{"general"},
					},
				},
			},
		},
		LLMProviders: map[string]LLMProviderConfig{
			"openai-default": {
				Type:                ProviderOpenAI,
				Model:               "gpt-4o",
				APIKeyEnv:           "OPENAI_API_KEY",
				InputCostPerMTok:    2.50,
				OutputCostPerMTok:   10.00,
				MaxToolResultTokens: 8000,
			},
			"openai-mini": {
				Type:                ProviderOpenAI,
				Model:               "gpt-4o-mini",
				APIKeyEnv:           "OPENAI_API_KEY",
				InputCostPerMTok:    0.15,
				OutputCostPerMTok:   0.60,
				MaxToolResultTokens: 8000,
			},
			"anthropic-default": {
				Type:                ProviderAnthropic,
				Model:               "claude-sonnet-4-5",
				APIKeyEnv:           "ANTHROPIC_API_KEY",
				InputCostPerMTok:    3.00,
				OutputCostPerMTok:   15.00,
				MaxToolResultTokens: 8000,
			},
		},
		MCPServers: map[string]MCPServerConfig{},
	}
}
