// Package workflow implements the durable reasoning loop on Temporal: one
// workflow per task, with activities for every side effect (LLM calls, tool
// execution, event publishing, lifecycle writes).
package workflow

import (
	"time"

	"github.com/droverhq/drover/pkg/models"
)

// Task queue and signal names.
const (
	SignalPause  = "pause"
	SignalResume = "resume"
	SignalCancel = "cancel"
)

// Iteration limits. A task parameter or agent config may lower or raise the
// default, never past the cap.
const (
	DefaultMaxIterations = 25
	MaxIterationsCap     = 50
)

// Activity deadlines.
const (
	llmTimeout     = 5 * time.Minute
	toolTimeout    = 1 * time.Minute
	configTimeout  = 30 * time.Second
	publishTimeout = 10 * time.Second

	// WorkflowRunTimeout is the hard ceiling on one task execution.
	WorkflowRunTimeout = time.Hour
)

// nudgeMessage is appended when the model returns neither content nor tool
// calls, or an inconclusive goal evaluation.
const nudgeMessage = "Continue; call task_complete when done."

// errTypeProviderPermanent marks LLM failures that retrying cannot fix; the
// retry policy treats them as non-retryable.
const errTypeProviderPermanent = "ProviderPermanent"

// ExecutionRequest is the workflow input, assembled by the task service.
type ExecutionRequest struct {
	TaskID      string         `json:"task_id"`
	AgentID     string         `json:"agent_id"`
	UserID      string         `json:"user_id"`
	WorkspaceID string         `json:"workspace_id"`
	Query       string         `json:"query"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	BudgetUSD   float64        `json:"budget_usd"`
}

// ExecutionResult is the workflow output, mirroring the task's terminal
// state.
type ExecutionResult struct {
	Status      models.TaskStatus `json:"status"`
	Result      string            `json:"result,omitempty"`
	ErrorKind   models.ErrorKind  `json:"error_kind,omitempty"`
	Error       string            `json:"error,omitempty"`
	CostAccrued float64           `json:"cost_accrued"`
	Iterations  int               `json:"iterations"`
}
