package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/droverhq/drover/ent"
	"github.com/droverhq/drover/ent/task"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/models"
)

// Orchestrator starts and signals durable task executions. Implemented by the
// Temporal glue; faked in tests.
type Orchestrator interface {
	StartTask(ctx context.Context, snapshot models.TaskSnapshot) (executionID string, err error)
	SignalPause(ctx context.Context, taskID string) error
	SignalResume(ctx context.Context, taskID string) error
	SignalCancel(ctx context.Context, taskID string) error
}

// CreateTaskRequest carries the caller's input for a new task.
type CreateTaskRequest struct {
	AgentID     string
	UserID      string
	WorkspaceID string
	Query       string
	Parameters  map[string]any
	BudgetUSD   float64 // zero applies the configured default
}

// TaskService manages task lifecycle: creation, workspace-scoped reads, FSM
// transitions, and pause/resume/cancel signals.
type TaskService struct {
	client       *ent.Client
	cfg          *config.Config
	orchestrator Orchestrator
	publisher    *events.Publisher
}

// NewTaskService creates a task service.
func NewTaskService(client *ent.Client, cfg *config.Config, orchestrator Orchestrator, publisher *events.Publisher) *TaskService {
	return &TaskService{
		client:       client,
		cfg:          cfg,
		orchestrator: orchestrator,
		publisher:    publisher,
	}
}

// Create validates the request, persists the task in `submitted`, publishes
// TaskCreated and starts the durable execution.
func (s *TaskService) Create(httpCtx context.Context, req CreateTaskRequest) (*models.TaskSnapshot, error) {
	if req.AgentID == "" {
		return nil, NewValidationError("agent_id", "required")
	}
	if req.WorkspaceID == "" {
		return nil, NewValidationError("workspace_id", "required")
	}
	if req.Query == "" {
		return nil, NewValidationError("query", "required")
	}
	if _, err := s.cfg.GetAgent(req.AgentID); err != nil {
		return nil, NewValidationError("agent_id", fmt.Sprintf("unknown agent %q", req.AgentID))
	}

	budget := req.BudgetUSD
	if budget == 0 {
		budget = s.cfg.Budget.DefaultBudgetUSD
	}
	if budget < 0 {
		return nil, NewValidationError("budget_usd", "must not be negative")
	}

	// Background context with timeout for the critical write.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	builder := s.client.Task.Create().
		SetID(uuid.New().String()).
		SetAgentID(req.AgentID).
		SetUserID(req.UserID).
		SetWorkspaceID(req.WorkspaceID).
		SetQuery(req.Query).
		SetBudgetUsd(budget).
		SetStatus(task.StatusSubmitted)
	if req.Parameters != nil {
		builder.SetParameters(req.Parameters)
	}

	created, err := builder.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	snapshot := snapshotFromEnt(created)
	if _, err := s.publisher.Publish(ctx, created.ID, events.TypeTaskCreated, snapshot); err != nil {
		return nil, fmt.Errorf("failed to publish TaskCreated: %w", err)
	}

	executionID, err := s.orchestrator.StartTask(ctx, snapshot)
	if err != nil {
		// The row stays in `submitted` for diagnosis; mark it failed so it
		// does not look stuck.
		_ = s.Fail(ctx, created.ID, models.ErrorKindInternal,
			fmt.Sprintf("starting execution: %v", err), 0, 0)
		return nil, fmt.Errorf("failed to start task execution: %w", err)
	}

	updated, err := s.client.Task.UpdateOneID(created.ID).
		SetExecutionID(executionID).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to record execution id: %w", err)
	}
	result := snapshotFromEnt(updated)
	return &result, nil
}

// Get returns a task scoped to the caller's workspace.
func (s *TaskService) Get(ctx context.Context, workspaceID, taskID string) (*models.TaskSnapshot, error) {
	row, err := s.client.Task.Query().
		Where(task.ID(taskID), task.WorkspaceID(workspaceID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	snapshot := snapshotFromEnt(row)
	return &snapshot, nil
}

// List returns a workspace's tasks, newest first.
func (s *TaskService) List(ctx context.Context, workspaceID string, limit int) ([]models.TaskSnapshot, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.client.Task.Query().
		Where(task.WorkspaceID(workspaceID)).
		Order(ent.Desc(task.FieldCreatedAt)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	out := make([]models.TaskSnapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromEnt(row))
	}
	return out, nil
}

// RequestPause validates the FSM and signals the execution to pause.
func (s *TaskService) RequestPause(ctx context.Context, workspaceID, taskID string) error {
	snapshot, err := s.Get(ctx, workspaceID, taskID)
	if err != nil {
		return err
	}
	if !CanTransition(snapshot.Status, models.TaskPaused) {
		return fmt.Errorf("%w: cannot pause a %s task", ErrInvalidTransition, snapshot.Status)
	}
	return s.orchestrator.SignalPause(ctx, taskID)
}

// RequestResume validates the FSM and signals the execution to resume.
func (s *TaskService) RequestResume(ctx context.Context, workspaceID, taskID string) error {
	snapshot, err := s.Get(ctx, workspaceID, taskID)
	if err != nil {
		return err
	}
	if snapshot.Status != models.TaskPaused {
		return fmt.Errorf("%w: cannot resume a %s task", ErrInvalidTransition, snapshot.Status)
	}
	return s.orchestrator.SignalResume(ctx, taskID)
}

// RequestCancel validates the FSM and signals the execution to cancel.
// Cancellation supersedes pause: a paused task cancels directly.
func (s *TaskService) RequestCancel(ctx context.Context, workspaceID, taskID string) error {
	snapshot, err := s.Get(ctx, workspaceID, taskID)
	if err != nil {
		return err
	}
	if !CanTransition(snapshot.Status, models.TaskCancelled) {
		return fmt.Errorf("%w: cannot cancel a %s task", ErrInvalidTransition, snapshot.Status)
	}
	return s.orchestrator.SignalCancel(ctx, taskID)
}

// MarkRunning transitions submitted → running, recording the start time.
func (s *TaskService) MarkRunning(ctx context.Context, taskID string) error {
	return s.transition(ctx, taskID, []task.Status{task.StatusSubmitted}, task.StatusRunning,
		func(u *ent.TaskUpdate) { u.SetStartedAt(time.Now().UTC()) })
}

// MarkPaused transitions running → paused.
func (s *TaskService) MarkPaused(ctx context.Context, taskID string) error {
	return s.transition(ctx, taskID, []task.Status{task.StatusRunning}, task.StatusPaused, nil)
}

// MarkResumed transitions paused → running.
func (s *TaskService) MarkResumed(ctx context.Context, taskID string) error {
	return s.transition(ctx, taskID, []task.Status{task.StatusPaused}, task.StatusRunning, nil)
}

// Complete transitions running → completed with the final result and
// accounting.
func (s *TaskService) Complete(ctx context.Context, taskID, result string, costAccrued float64, iterations int) error {
	return s.transition(ctx, taskID, []task.Status{task.StatusRunning}, task.StatusCompleted,
		func(u *ent.TaskUpdate) {
			u.SetResult(result).
				SetCostAccrued(costAccrued).
				SetIterationsUsed(iterations).
				SetCompletedAt(time.Now().UTC())
		})
}

// Fail transitions submitted/running → failed with the failure classification.
func (s *TaskService) Fail(ctx context.Context, taskID string, kind models.ErrorKind, message string, costAccrued float64, iterations int) error {
	return s.transition(ctx, taskID,
		[]task.Status{task.StatusSubmitted, task.StatusRunning}, task.StatusFailed,
		func(u *ent.TaskUpdate) {
			u.SetError(message).
				SetErrorKind(string(kind)).
				SetCostAccrued(costAccrued).
				SetIterationsUsed(iterations).
				SetCompletedAt(time.Now().UTC())
		})
}

// MarkCancelled transitions any non-terminal status → cancelled.
func (s *TaskService) MarkCancelled(ctx context.Context, taskID string, costAccrued float64, iterations int) error {
	return s.transition(ctx, taskID,
		[]task.Status{task.StatusSubmitted, task.StatusRunning, task.StatusPaused}, task.StatusCancelled,
		func(u *ent.TaskUpdate) {
			u.SetCostAccrued(costAccrued).
				SetIterationsUsed(iterations).
				SetCompletedAt(time.Now().UTC())
		})
}

// UpdateProgress records accrued cost and iterations mid-flight. Terminal
// tasks are never touched.
func (s *TaskService) UpdateProgress(ctx context.Context, taskID string, costAccrued float64, iterations int) error {
	affected, err := s.client.Task.Update().
		Where(task.ID(taskID), task.StatusIn(task.StatusRunning, task.StatusPaused)).
		SetCostAccrued(costAccrued).
		SetIterationsUsed(iterations).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}
	if affected == 0 {
		return s.transitionFailure(ctx, taskID, "update progress on")
	}
	return nil
}

// transition performs a conditional status update: the write only lands when
// the current status is one of `from`, making concurrent transitions safe
// without row locks.
func (s *TaskService) transition(ctx context.Context, taskID string, from []task.Status, to task.Status, apply func(*ent.TaskUpdate)) error {
	update := s.client.Task.Update().
		Where(task.ID(taskID), task.StatusIn(from...)).
		SetStatus(to)
	if apply != nil {
		apply(update)
	}

	affected, err := update.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to transition task to %s: %w", to, err)
	}
	if affected == 0 {
		return s.transitionFailure(ctx, taskID, fmt.Sprintf("transition to %s", to))
	}
	return nil
}

// transitionFailure distinguishes a missing task from an FSM violation after
// a conditional update matched no rows.
func (s *TaskService) transitionFailure(ctx context.Context, taskID, action string) error {
	current, err := s.client.Task.Query().Where(task.ID(taskID)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read task: %w", err)
	}
	return fmt.Errorf("%w: cannot %s a %s task", ErrInvalidTransition, action, current.Status)
}

func snapshotFromEnt(row *ent.Task) models.TaskSnapshot {
	snapshot := models.TaskSnapshot{
		ID:             row.ID,
		AgentID:        row.AgentID,
		UserID:         row.UserID,
		WorkspaceID:    row.WorkspaceID,
		Query:          row.Query,
		Parameters:     row.Parameters,
		Status:         models.TaskStatus(row.Status),
		CostAccrued:    row.CostAccrued,
		BudgetUSD:      row.BudgetUsd,
		IterationsUsed: row.IterationsUsed,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		StartedAt:      row.StartedAt,
		CompletedAt:    row.CompletedAt,
	}
	if row.ExecutionID != nil {
		snapshot.ExecutionID = *row.ExecutionID
	}
	if row.Result != nil {
		snapshot.Result = *row.Result
	}
	if row.Error != nil {
		snapshot.Error = *row.Error
	}
	if row.ErrorKind != nil {
		snapshot.ErrorKind = *row.ErrorKind
	}
	return snapshot
}
