package config

// mergeAgents merges built-in and user-defined agent configurations.
// User-defined agents override built-in agents with the same ID.
func mergeAgents(builtin map[string]AgentConfig, user map[string]AgentConfig) map[string]*AgentConfig {
	result := make(map[string]*AgentConfig)

	for id, agent := range builtin {
		agentCopy := agent
		// Defensive copy of slices to prevent shared state
		agentCopy.MCPServers = append([]string(nil), agent.MCPServers...)
		agentCopy.Skills = append([]SkillConfig(nil), agent.Skills...)
		result[id] = &agentCopy
	}

	for id, agent := range user {
		agentCopy := agent
		result[id] = &agentCopy
	}

	return result
}

// mergeMCPServers merges built-in and user-defined MCP server configurations.
// User-defined servers override built-in servers with the same ID.
func mergeMCPServers(builtin map[string]MCPServerConfig, user map[string]MCPServerConfig) map[string]*MCPServerConfig {
	result := make(map[string]*MCPServerConfig)

	for id, server := range builtin {
		serverCopy := server
		result[id] = &serverCopy
	}

	for id, server := range user {
		serverCopy := server
		result[id] = &serverCopy
	}

	return result
}

// mergeLLMProviders merges built-in and user-defined LLM provider
// configurations. User-defined providers override built-in providers with the
// same name.
func mergeLLMProviders(builtin map[string]LLMProviderConfig, user map[string]LLMProviderConfig) map[string]*LLMProviderConfig {
	result := make(map[string]*LLMProviderConfig)

	for name, provider := range builtin {
		providerCopy := provider
		result[name] = &providerCopy
	}

	for name, provider := range user {
		providerCopy := provider
		result[name] = &providerCopy
	}

	return result
}
