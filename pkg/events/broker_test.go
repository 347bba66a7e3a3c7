package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPayload(t *testing.T, envelope Envelope) []byte {
	t.Helper()
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)
	return payload
}

func TestBroker_FanOutToSubscribers(t *testing.T) {
	broker := NewBroker()

	sub1, err := broker.Subscribe("task-1")
	require.NoError(t, err)
	defer sub1.Close()
	sub2, err := broker.Subscribe("task-1")
	require.NoError(t, err)
	defer sub2.Close()
	other, err := broker.Subscribe("task-2")
	require.NoError(t, err)
	defer other.Close()

	broker.Broadcast(TaskChannel("task-1"), mustPayload(t, Envelope{
		EventID: "evt-1", TaskID: "task-1", EventType: TypeIterationStarted, Sequence: 1,
	}))

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case envelope := <-sub.Events():
			assert.Equal(t, "evt-1", envelope.EventID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
	select {
	case envelope := <-other.Events():
		t.Fatalf("unexpected event on other task: %+v", envelope)
	default:
	}
}

func TestBroker_CloseStopsDelivery(t *testing.T) {
	broker := NewBroker()

	sub, err := broker.Subscribe("task-1")
	require.NoError(t, err)
	assert.Equal(t, 1, broker.SubscriberCount("task-1"))

	sub.Close()
	sub.Close() // idempotent
	assert.Equal(t, 0, broker.SubscriberCount("task-1"))

	_, open := <-sub.Events()
	assert.False(t, open, "channel closed after unsubscribe")

	// Broadcasting to a channel with no subscribers is a no-op.
	broker.Broadcast(TaskChannel("task-1"), mustPayload(t, Envelope{EventID: "evt-2"}))
}

func TestBroker_DropsMalformedPayload(t *testing.T) {
	broker := NewBroker()
	sub, err := broker.Subscribe("task-1")
	require.NoError(t, err)
	defer sub.Close()

	broker.Broadcast(TaskChannel("task-1"), []byte("not json"))

	select {
	case envelope := <-sub.Events():
		t.Fatalf("malformed payload delivered: %+v", envelope)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	broker := NewBroker()
	sub, err := broker.Subscribe("task-1")
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriptionBuffer+10; i++ {
			broker.Broadcast(TaskChannel("task-1"), mustPayload(t, Envelope{
				EventID: "evt", TaskID: "task-1", EventType: TypeLLMCallChunk,
			}))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full subscriber buffer")
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(TypeWorkflowCompleted))
	assert.True(t, IsTerminal(TypeWorkflowFailed))
	assert.True(t, IsTerminal(TypeWorkflowCancelled))
	assert.False(t, IsTerminal(TypeWorkflowPaused))
	assert.False(t, IsTerminal(TypeLLMCallChunk))
}

func TestTruncatedPayloadKeepsRoutingFields(t *testing.T) {
	full := &Envelope{
		EventID:   "evt-1",
		TaskID:    "task-1",
		EventType: TypeLLMCallCompleted,
		Sequence:  7,
		Data:      json.RawMessage(`{"content":"enormous"}`),
	}

	var stub Envelope
	require.NoError(t, json.Unmarshal(truncatedPayload(full), &stub))

	assert.Equal(t, "evt-1", stub.EventID)
	assert.Equal(t, int64(7), stub.Sequence)
	assert.True(t, stub.Truncated)
	assert.Empty(t, stub.Data, "data is dropped from the stub")
}
