// Package events implements the durable event log and real-time fan-out:
// persist-then-NOTIFY publishing over PostgreSQL, a dedicated LISTEN
// connection, and an in-process broker feeding SSE subscribers.
package events

import (
	"encoding/json"
	"time"
)

// Event types published over a task's lifetime.
const (
	TypeTaskCreated       = "TaskCreated"
	TypeWorkflowStarted   = "WorkflowStarted"
	TypeIterationStarted  = "IterationStarted"
	TypeLLMCallStarted    = "LLMCallStarted"
	TypeLLMCallChunk      = "LLMCallChunk"
	TypeLLMCallCompleted  = "LLMCallCompleted"
	TypeToolCallStarted   = "ToolCallStarted"
	TypeToolCallCompleted = "ToolCallCompleted"
	TypeBudgetWarning     = "BudgetWarning"
	TypeBudgetExceeded    = "BudgetExceeded"
	TypeGoalEvaluated     = "GoalEvaluated"
	TypeWorkflowPaused    = "WorkflowPaused"
	TypeWorkflowResumed   = "WorkflowResumed"
	TypeWorkflowCancelled = "WorkflowCancelled"
	TypeWorkflowCompleted = "WorkflowCompleted"
	TypeWorkflowFailed    = "WorkflowFailed"

	// TypeHeartbeat frames SSE keep-alives only; never published or logged.
	TypeHeartbeat = "heartbeat"
)

// IsTerminal reports whether an event type ends the task's stream.
func IsTerminal(eventType string) bool {
	switch eventType {
	case TypeWorkflowCompleted, TypeWorkflowFailed, TypeWorkflowCancelled:
		return true
	}
	return false
}

// TaskChannel returns the NOTIFY channel name for a task.
func TaskChannel(taskID string) string {
	return "task:" + taskID
}

// Envelope is the wire form of one event, both in NOTIFY payloads and SSE
// frames. Chunk events carry Sequence 0 and are never logged.
type Envelope struct {
	EventID   string          `json:"event_id"`
	TaskID    string          `json:"task_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  int64           `json:"sequence"`
	Data      json.RawMessage `json:"data,omitempty"`

	// Truncated marks a NOTIFY payload that exceeded the postgres limit;
	// subscribers refetch the full event from the log by event_id.
	Truncated bool `json:"truncated,omitempty"`
}

// ChunkData is the payload of an LLMCallChunk event.
type ChunkData struct {
	Chunk   string `json:"chunk"`
	Index   int    `json:"index"`
	IsFinal bool   `json:"is_final"`
}
