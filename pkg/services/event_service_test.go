package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/ent"
	"github.com/droverhq/drover/pkg/events"
	testdb "github.com/droverhq/drover/test/database"
)

func createTestTask(t *testing.T, client *ent.Client) string {
	t.Helper()
	taskID := uuid.New().String()
	_, err := client.Task.Create().
		SetID(taskID).
		SetAgentID("test-agent").
		SetUserID("u").
		SetWorkspaceID("ws").
		SetQuery("q").
		Save(context.Background())
	require.NoError(t, err)
	return taskID
}

func TestListSince_OrdersBySequence(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()
	taskID := createTestTask(t, dbClient.Client)

	publisher := events.NewPublisher(dbClient.DB())
	for i := 1; i <= 5; i++ {
		_, err := publisher.Publish(ctx, taskID, events.TypeIterationStarted,
			map[string]any{"iteration": i})
		require.NoError(t, err)
	}

	service := NewEventService(dbClient.Client)

	all, err := service.ListSince(ctx, taskID, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, envelope := range all {
		assert.Equal(t, int64(i+1), envelope.Sequence)
		assert.Equal(t, taskID, envelope.TaskID)
	}

	tail, err := service.ListSince(ctx, taskID, 3, 100)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, int64(4), tail[0].Sequence)
}

func TestGetByID_RefetchesFullEvent(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()
	taskID := createTestTask(t, dbClient.Client)

	publisher := events.NewPublisher(dbClient.DB())
	published, err := publisher.Publish(ctx, taskID, events.TypeLLMCallCompleted,
		map[string]any{"content": "the full content"})
	require.NoError(t, err)

	service := NewEventService(dbClient.Client)

	fetched, err := service.GetByID(ctx, published.EventID)
	require.NoError(t, err)
	assert.Equal(t, published.Sequence, fetched.Sequence)
	assert.JSONEq(t, `{"content":"the full content"}`, string(fetched.Data))

	_, err = service.GetByID(ctx, "no-such-event")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanup_RespectsTaskState(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()

	liveTask := createTestTask(t, dbClient.Client)
	doneTask := createTestTask(t, dbClient.Client)

	publisher := events.NewPublisher(dbClient.DB())
	_, err := publisher.Publish(ctx, liveTask, events.TypeIterationStarted, map[string]any{})
	require.NoError(t, err)
	_, err = publisher.Publish(ctx, doneTask, events.TypeWorkflowCompleted, map[string]any{})
	require.NoError(t, err)

	// Terminal task; the live one stays submitted.
	taskService := NewTaskService(dbClient.Client, testConfig(), &fakeOrchestrator{}, publisher)
	require.NoError(t, taskService.MarkRunning(ctx, doneTask))
	require.NoError(t, taskService.Complete(ctx, doneTask, "done", 0, 1))

	service := NewEventService(dbClient.Client)

	// TTL of zero makes everything "old"; only the terminal task's events go.
	count, err := service.CleanupTerminalTaskEvents(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	remaining, err := service.ListSince(ctx, liveTask, 0, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "live task keeps its log")
}

func TestDeleteOldTasks(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()

	oldTask := createTestTask(t, dbClient.Client)
	publisher := events.NewPublisher(dbClient.DB())
	taskService := NewTaskService(dbClient.Client, testConfig(), &fakeOrchestrator{}, publisher)
	require.NoError(t, taskService.MarkRunning(ctx, oldTask))
	require.NoError(t, taskService.Complete(ctx, oldTask, "done", 0, 1))

	// Backdate completion past the retention window.
	_, err := dbClient.Task.UpdateOneID(oldTask).
		SetCompletedAt(time.Now().AddDate(0, 0, -120)).
		Save(ctx)
	require.NoError(t, err)

	service := NewEventService(dbClient.Client)
	count, err := service.DeleteOldTasks(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = taskService.Get(ctx, "ws", oldTask)
	assert.ErrorIs(t, err, ErrNotFound)
}
