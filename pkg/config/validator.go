package config

import (
	"errors"
	"fmt"
)

// Validator performs cross-registry validation on loaded configuration.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs every validation pass and returns the combined errors.
func (v *Validator) ValidateAll() error {
	var errs []error

	errs = append(errs, v.validateLLMProviders()...)
	errs = append(errs, v.validateMCPServers()...)
	errs = append(errs, v.validateAgents()...)

	return errors.Join(errs...)
}

func (v *Validator) validateLLMProviders() []error {
	var errs []error
	for name, provider := range v.cfg.LLMProviderRegistry.GetAll() {
		if !provider.Type.Valid() {
			errs = append(errs, NewValidationError("llm_provider", name, "type",
				fmt.Errorf("%w: %q", ErrInvalidValue, provider.Type)))
		}
		if provider.Model == "" {
			errs = append(errs, NewValidationError("llm_provider", name, "model", ErrMissingRequiredField))
		}
		if provider.APIKeyEnv == "" {
			errs = append(errs, NewValidationError("llm_provider", name, "api_key_env", ErrMissingRequiredField))
		}
	}
	return errs
}

func (v *Validator) validateMCPServers() []error {
	var errs []error
	for id, server := range v.cfg.MCPServerRegistry.GetAll() {
		t := server.Transport
		if !t.Type.Valid() {
			errs = append(errs, NewValidationError("mcp_server", id, "transport.type",
				fmt.Errorf("%w: %q", ErrInvalidValue, t.Type)))
			continue
		}
		switch t.Type {
		case TransportStdio:
			if t.Command == "" {
				errs = append(errs, NewValidationError("mcp_server", id, "transport.command", ErrMissingRequiredField))
			}
		case TransportHTTP, TransportSSE:
			if t.URL == "" {
				errs = append(errs, NewValidationError("mcp_server", id, "transport.url", ErrMissingRequiredField))
			}
		}
	}
	return errs
}

func (v *Validator) validateAgents() []error {
	var errs []error
	for id, agent := range v.cfg.AgentRegistry.GetAll() {
		if agent.Instruction == "" {
			errs = append(errs, NewValidationError("agent", id, "instruction", ErrMissingRequiredField))
		}
		if agent.LLMProvider == "" {
			errs = append(errs, NewValidationError("agent", id, "llm_provider", ErrMissingRequiredField))
		} else if !v.cfg.LLMProviderRegistry.Has(agent.LLMProvider) {
			errs = append(errs, NewValidationError("agent", id, "llm_provider",
				fmt.Errorf("%w: llm_provider %q not defined", ErrInvalidReference, agent.LLMProvider)))
		}
		if agent.EvaluatorProvider != "" && !v.cfg.LLMProviderRegistry.Has(agent.EvaluatorProvider) {
			errs = append(errs, NewValidationError("agent", id, "evaluator_provider",
				fmt.Errorf("%w: llm_provider %q not defined", ErrInvalidReference, agent.EvaluatorProvider)))
		}
		for _, serverID := range agent.MCPServers {
			if !v.cfg.MCPServerRegistry.Has(serverID) {
				errs = append(errs, NewValidationError("agent", id, "mcp_servers",
					fmt.Errorf("%w: mcp_server %q not defined", ErrInvalidReference, serverID)))
			}
		}
		if agent.MaxIterations != nil && *agent.MaxIterations < 1 {
			errs = append(errs, NewValidationError("agent", id, "max_iterations",
				fmt.Errorf("%w: must be at least 1", ErrInvalidValue)))
		}
	}
	return errs
}
