package models

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskSubmitted TaskStatus = "submitted"
	TaskRunning   TaskStatus = "running"
	TaskPaused    TaskStatus = "paused"
	TaskCancelled TaskStatus = "cancelled"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCancelled, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// ErrorKind classifies a task failure for clients.
type ErrorKind string

const (
	ErrorKindProvider      ErrorKind = "provider_error"
	ErrorKindBudget        ErrorKind = "budget_exceeded"
	ErrorKindMaxIterations ErrorKind = "max_iterations"
	ErrorKindInternal      ErrorKind = "internal"
)

// TaskSnapshot is the read model returned by the API for a task.
type TaskSnapshot struct {
	ID             string         `json:"id"`
	AgentID        string         `json:"agent_id"`
	UserID         string         `json:"user_id"`
	WorkspaceID    string         `json:"workspace_id"`
	Query          string         `json:"query"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	Status         TaskStatus     `json:"status"`
	ExecutionID    string         `json:"execution_id,omitempty"`
	Result         string         `json:"result,omitempty"`
	Error          string         `json:"error,omitempty"`
	ErrorKind      string         `json:"error_kind,omitempty"`
	CostAccrued    float64        `json:"cost_accrued"`
	BudgetUSD      float64        `json:"budget_usd"`
	IterationsUsed int            `json:"iterations_used"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}
