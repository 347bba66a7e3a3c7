package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/models"
	testdb "github.com/droverhq/drover/test/database"
)

type fakeOrchestrator struct {
	started   []string
	paused    []string
	resumed   []string
	cancelled []string
	startErr  error
}

func (f *fakeOrchestrator) StartTask(_ context.Context, snapshot models.TaskSnapshot) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	f.started = append(f.started, snapshot.ID)
	return "exec-" + snapshot.ID, nil
}

func (f *fakeOrchestrator) SignalPause(_ context.Context, taskID string) error {
	f.paused = append(f.paused, taskID)
	return nil
}

func (f *fakeOrchestrator) SignalResume(_ context.Context, taskID string) error {
	f.resumed = append(f.resumed, taskID)
	return nil
}

func (f *fakeOrchestrator) SignalCancel(_ context.Context, taskID string) error {
	f.cancelled = append(f.cancelled, taskID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Budget: &config.BudgetConfig{DefaultBudgetUSD: 1.0},
		AgentRegistry: config.NewAgentRegistry(map[string]*config.AgentConfig{
			"test-agent": {Instruction: "be helpful", LLMProvider: "openai-default"},
		}),
	}
}

func setupTaskService(t *testing.T) (*TaskService, *fakeOrchestrator) {
	t.Helper()
	dbClient := testdb.NewTestClient(t)
	orchestrator := &fakeOrchestrator{}
	publisher := events.NewPublisher(dbClient.DB())
	return NewTaskService(dbClient.Client, testConfig(), orchestrator, publisher), orchestrator
}

func TestCreate_PersistsAndStartsExecution(t *testing.T) {
	service, orchestrator := setupTaskService(t)
	ctx := context.Background()

	snapshot, err := service.Create(ctx, CreateTaskRequest{
		AgentID:     "test-agent",
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Query:       "what is 2+2?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskSubmitted, snapshot.Status)
	assert.InDelta(t, 1.0, snapshot.BudgetUSD, 1e-9, "default budget applied")
	assert.Equal(t, []string{snapshot.ID}, orchestrator.started)
	assert.Equal(t, "exec-"+snapshot.ID, snapshot.ExecutionID, "workflow handle exposed on the snapshot")

	// TaskCreated landed in the event log.
	eventService := NewEventService(service.client)
	envelopes, err := eventService.ListSince(ctx, snapshot.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	assert.Equal(t, events.TypeTaskCreated, envelopes[0].EventType)
	assert.Equal(t, int64(1), envelopes[0].Sequence)
}

func TestCreate_Validation(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateTaskRequest{WorkspaceID: "ws", Query: "q"})
	assert.True(t, IsValidationError(err), "missing agent_id")

	_, err = service.Create(ctx, CreateTaskRequest{AgentID: "no-such-agent", WorkspaceID: "ws", Query: "q"})
	assert.True(t, IsValidationError(err), "unknown agent")

	_, err = service.Create(ctx, CreateTaskRequest{AgentID: "test-agent", WorkspaceID: "ws", Query: ""})
	assert.True(t, IsValidationError(err), "empty query")
}

func TestGet_WorkspaceScoping(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTaskRequest{
		AgentID: "test-agent", UserID: "u", WorkspaceID: "ws-1", Query: "q",
	})
	require.NoError(t, err)

	_, err = service.Get(ctx, "ws-1", created.ID)
	require.NoError(t, err)

	_, err = service.Get(ctx, "ws-2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "other workspaces cannot see the task")
}

func TestLifecycleTransitions(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTaskRequest{
		AgentID: "test-agent", UserID: "u", WorkspaceID: "ws-1", Query: "q",
	})
	require.NoError(t, err)

	require.NoError(t, service.MarkRunning(ctx, created.ID))
	require.NoError(t, service.MarkPaused(ctx, created.ID))
	require.NoError(t, service.MarkResumed(ctx, created.ID))
	require.NoError(t, service.Complete(ctx, created.ID, "the answer", 0.12, 3))

	snapshot, err := service.Get(ctx, "ws-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, snapshot.Status)
	assert.Equal(t, "the answer", snapshot.Result)
	assert.InDelta(t, 0.12, snapshot.CostAccrued, 1e-9)
	assert.Equal(t, 3, snapshot.IterationsUsed)
	assert.NotNil(t, snapshot.CompletedAt)
	assert.NotNil(t, snapshot.StartedAt)
}

func TestTerminalTasksAreImmutable(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTaskRequest{
		AgentID: "test-agent", UserID: "u", WorkspaceID: "ws-1", Query: "q",
	})
	require.NoError(t, err)
	require.NoError(t, service.MarkRunning(ctx, created.ID))
	require.NoError(t, service.Complete(ctx, created.ID, "done", 0, 1))

	assert.ErrorIs(t, service.MarkRunning(ctx, created.ID), ErrInvalidTransition)
	assert.ErrorIs(t, service.Fail(ctx, created.ID, models.ErrorKindInternal, "late", 0, 1), ErrInvalidTransition)
	assert.ErrorIs(t, service.MarkCancelled(ctx, created.ID, 0, 1), ErrInvalidTransition)
	assert.ErrorIs(t, service.UpdateProgress(ctx, created.ID, 9.99, 9), ErrInvalidTransition)

	snapshot, err := service.Get(ctx, "ws-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", snapshot.Result, "terminal state untouched")
}

func TestInvalidTransitions(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTaskRequest{
		AgentID: "test-agent", UserID: "u", WorkspaceID: "ws-1", Query: "q",
	})
	require.NoError(t, err)

	// Pause before running.
	assert.ErrorIs(t, service.MarkPaused(ctx, created.ID), ErrInvalidTransition)
	// Resume a task that is not paused.
	assert.ErrorIs(t, service.MarkResumed(ctx, created.ID), ErrInvalidTransition)
	// Unknown task.
	assert.ErrorIs(t, service.MarkRunning(ctx, "no-such-task"), ErrNotFound)
}

func TestRequestSignals(t *testing.T) {
	service, orchestrator := setupTaskService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTaskRequest{
		AgentID: "test-agent", UserID: "u", WorkspaceID: "ws-1", Query: "q",
	})
	require.NoError(t, err)
	require.NoError(t, service.MarkRunning(ctx, created.ID))

	require.NoError(t, service.RequestPause(ctx, "ws-1", created.ID))
	assert.Equal(t, []string{created.ID}, orchestrator.paused)

	// Resume only applies to paused tasks.
	assert.ErrorIs(t, service.RequestResume(ctx, "ws-1", created.ID), ErrInvalidTransition)

	require.NoError(t, service.MarkPaused(ctx, created.ID))
	require.NoError(t, service.RequestResume(ctx, "ws-1", created.ID))
	require.NoError(t, service.RequestCancel(ctx, "ws-1", created.ID), "cancellation supersedes pause")
	assert.Equal(t, []string{created.ID}, orchestrator.cancelled)

	// Signals are workspace-scoped too.
	assert.ErrorIs(t, service.RequestCancel(ctx, "ws-2", created.ID), ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.TaskSubmitted, models.TaskRunning))
	assert.True(t, CanTransition(models.TaskRunning, models.TaskPaused))
	assert.True(t, CanTransition(models.TaskPaused, models.TaskCancelled))
	assert.False(t, CanTransition(models.TaskPaused, models.TaskCompleted))
	assert.False(t, CanTransition(models.TaskCompleted, models.TaskRunning))
	assert.False(t, CanTransition(models.TaskCancelled, models.TaskCancelled))
}
