package api

// apiVersion is advertised on agent cards and the health endpoint.
const apiVersion = "0.1.0"

// HealthCheck is one component's health probe result.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the GET /healthz body.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// AgentCapabilities advertises what an agent's endpoint supports.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentSkill is one advertised capability on the agent card.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// AgentCard is the discovery document for one agent.
type AgentCard struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	URL          string            `json:"url"`
	Version      string            `json:"version"`
	Capabilities AgentCapabilities `json:"capabilities"`
	Skills       []AgentSkill      `json:"skills"`
}

// AgentDirectory lists the registered agents.
type AgentDirectory struct {
	Agents []AgentCard `json:"agents"`
}

// SignalResponse acknowledges a pause/resume/cancel request.
type SignalResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}
