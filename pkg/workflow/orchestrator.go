package workflow

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
)

// TemporalOrchestrator starts and signals task workflows. It implements
// services.Orchestrator.
type TemporalOrchestrator struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrchestrator wraps a Temporal client for task orchestration.
func NewTemporalOrchestrator(c client.Client, cfg *config.TemporalConfig) *TemporalOrchestrator {
	return &TemporalOrchestrator{
		client:    c,
		taskQueue: cfg.TaskQueue,
	}
}

// WorkflowID derives the deterministic workflow ID for a task, which doubles
// as the execution ID stored on the task row.
func WorkflowID(taskID string) string {
	return "task-" + taskID
}

// StartTask launches the reasoning workflow for a freshly created task.
func (o *TemporalOrchestrator) StartTask(ctx context.Context, snapshot models.TaskSnapshot) (string, error) {
	options := client.StartWorkflowOptions{
		ID:                 WorkflowID(snapshot.ID),
		TaskQueue:          o.taskQueue,
		WorkflowRunTimeout: WorkflowRunTimeout,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, TaskWorkflow, ExecutionRequest{
		TaskID:      snapshot.ID,
		AgentID:     snapshot.AgentID,
		UserID:      snapshot.UserID,
		WorkspaceID: snapshot.WorkspaceID,
		Query:       snapshot.Query,
		Parameters:  snapshot.Parameters,
		BudgetUSD:   snapshot.BudgetUSD,
	})
	if err != nil {
		return "", fmt.Errorf("starting workflow for task %s: %w", snapshot.ID, err)
	}
	return run.GetID(), nil
}

// SignalPause requests the workflow pause at the next iteration boundary.
func (o *TemporalOrchestrator) SignalPause(ctx context.Context, taskID string) error {
	return o.signal(ctx, taskID, SignalPause)
}

// SignalResume requests a paused workflow continue.
func (o *TemporalOrchestrator) SignalResume(ctx context.Context, taskID string) error {
	return o.signal(ctx, taskID, SignalResume)
}

// SignalCancel requests the workflow stop. Cancellation supersedes pause.
func (o *TemporalOrchestrator) SignalCancel(ctx context.Context, taskID string) error {
	return o.signal(ctx, taskID, SignalCancel)
}

func (o *TemporalOrchestrator) signal(ctx context.Context, taskID, signal string) error {
	if err := o.client.SignalWorkflow(ctx, WorkflowID(taskID), "", signal, nil); err != nil {
		return fmt.Errorf("signalling %s on task %s: %w", signal, taskID, err)
	}
	return nil
}
