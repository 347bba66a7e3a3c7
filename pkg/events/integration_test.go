package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/database"
	testdb "github.com/droverhq/drover/test/database"
	"github.com/droverhq/drover/test/util"
)

// pipelineTestEnv wires publisher → NOTIFY → listener → broker against a real
// PostgreSQL (testcontainers locally, service container in CI).
type pipelineTestEnv struct {
	dbClient  *database.Client
	publisher *Publisher
	broker    *Broker
	listener  *NotifyListener
	taskID    string
}

func setupPipelineTest(t *testing.T) *pipelineTestEnv {
	t.Helper()

	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()

	// Create the Task required by the FK on events.
	taskID := uuid.New().String()
	_, err := dbClient.Task.Create().
		SetID(taskID).
		SetAgentID("test-agent").
		SetUserID("test-user").
		SetWorkspaceID("test-workspace").
		SetQuery("integration test query").
		Save(ctx)
	require.NoError(t, err)

	publisher := NewPublisher(dbClient.DB())
	broker := NewBroker()

	// NotifyListener needs the base connection string (no schema search_path)
	// because NOTIFY/LISTEN is database-level, not schema-level.
	listener := NewNotifyListener(util.GetBaseConnectionString(t), broker)
	require.NoError(t, listener.Start(ctx))
	broker.SetListener(listener)

	t.Cleanup(func() { listener.Stop(context.Background()) })

	return &pipelineTestEnv{
		dbClient:  dbClient,
		publisher: publisher,
		broker:    broker,
		listener:  listener,
		taskID:    taskID,
	}
}

func receiveEvent(t *testing.T, sub *Subscription) Envelope {
	t.Helper()
	select {
	case envelope := <-sub.Events():
		return envelope
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Envelope{}
	}
}

func TestPipeline_PublishDeliversToSubscriber(t *testing.T) {
	env := setupPipelineTest(t)
	ctx := context.Background()

	sub, err := env.broker.Subscribe(env.taskID)
	require.NoError(t, err)
	defer sub.Close()

	published, err := env.publisher.Publish(ctx, env.taskID, TypeIterationStarted,
		map[string]any{"iteration": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), published.Sequence)

	received := receiveEvent(t, sub)
	assert.Equal(t, published.EventID, received.EventID)
	assert.Equal(t, TypeIterationStarted, received.EventType)
	assert.JSONEq(t, `{"iteration":1}`, string(received.Data))
}

func TestPipeline_SequenceIsMonotonicAndSurvivesRestart(t *testing.T) {
	env := setupPipelineTest(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		published, err := env.publisher.Publish(ctx, env.taskID, TypeIterationStarted,
			map[string]any{"iteration": i})
		require.NoError(t, err)
		assert.Equal(t, int64(i), published.Sequence)
	}

	// A fresh publisher seeds its counter from the log.
	restarted := NewPublisher(env.dbClient.DB())
	published, err := restarted.Publish(ctx, env.taskID, TypeWorkflowCompleted, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), published.Sequence)
}

func TestPipeline_ChunksAreNotifyOnly(t *testing.T) {
	env := setupPipelineTest(t)
	ctx := context.Background()

	sub, err := env.broker.Subscribe(env.taskID)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, env.publisher.PublishChunk(ctx, env.taskID, ChunkData{
		Chunk: "hel", Index: 0,
	}))
	require.NoError(t, env.publisher.PublishChunk(ctx, env.taskID, ChunkData{
		Chunk: "", Index: 1, IsFinal: true,
	}))

	first := receiveEvent(t, sub)
	assert.Equal(t, TypeLLMCallChunk, first.EventType)
	assert.Equal(t, int64(0), first.Sequence)

	final := receiveEvent(t, sub)
	assert.Equal(t, TypeLLMCallChunk, final.EventType)

	// Nothing was written to the log.
	count, err := env.dbClient.Task.QueryEvents(
		env.dbClient.Task.GetX(ctx, env.taskID)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPipeline_OversizedPayloadNotifiesStub(t *testing.T) {
	env := setupPipelineTest(t)
	ctx := context.Background()

	sub, err := env.broker.Subscribe(env.taskID)
	require.NoError(t, err)
	defer sub.Close()

	huge := make([]byte, notifyPayloadLimit+1000)
	for i := range huge {
		huge[i] = 'x'
	}
	published, err := env.publisher.Publish(ctx, env.taskID, TypeLLMCallCompleted,
		map[string]any{"content": string(huge)})
	require.NoError(t, err)

	received := receiveEvent(t, sub)
	assert.Equal(t, published.EventID, received.EventID)
	assert.True(t, received.Truncated)
	assert.Empty(t, received.Data)

	// The full payload is in the log for refetch.
	stored := env.dbClient.Task.QueryEvents(
		env.dbClient.Task.GetX(ctx, env.taskID)).OnlyX(ctx)
	assert.Equal(t, published.EventID, stored.EventID)
	assert.Contains(t, fmt.Sprint(stored.Payload), "xxx")
}
