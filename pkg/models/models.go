// Package models holds the conversation and configuration types shared by the
// reasoning loop, the LLM adapters, and the tool layer. These are
// workflow-local representations; wire conversion happens in the provider
// adapters and the API layer.
package models

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the assistant.
// Arguments is the raw JSON argument string exactly as the model produced it;
// parsing and validation happen at execution time.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry in the conversation transcript.
//
// Role determines which fields are meaningful:
//   - system/user: Content only
//   - assistant: Content and/or ToolCalls
//   - tool: Content, ToolCallID, ToolName, Success
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	Success    bool       `json:"success,omitempty"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant message with optional tool calls.
func AssistantMessage(content string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolMessage builds a tool-result message paired to a prior tool call.
func ToolMessage(callID, toolName, content string, success bool) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
		Success:    success,
	}
}

// Usage is the token accounting returned by a provider for one LLM call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolResult is the outcome of executing a single tool call.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToolDescriptor describes one callable tool. ServerID is empty for builtin
// tools and names the MCP server for remote tools.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema,omitempty"`
	ServerID    string          `json:"server_id,omitempty"`
}

// IsBuiltin reports whether the tool executes in-process rather than on a
// remote MCP server.
func (d ToolDescriptor) IsBuiltin() bool {
	return d.ServerID == ""
}

// ModelConfig selects a provider and model for LLM calls.
type ModelConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// AgentConfig is the resolved configuration for one agent, immutable for the
// duration of a task execution.
type AgentConfig struct {
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Instruction    string      `json:"instruction" yaml:"instruction"`
	Model          ModelConfig `json:"model" yaml:"model"`
	EvaluatorModel ModelConfig `json:"evaluator_model" yaml:"evaluator_model"`
	MCPServers     []string    `json:"mcp_servers,omitempty" yaml:"mcp_servers,omitempty"`
	Streaming      bool        `json:"streaming" yaml:"streaming"`
	MaxIterations  int         `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	Skills         []Skill     `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// Skill is an advertised agent capability, surfaced on the agent card.
type Skill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
