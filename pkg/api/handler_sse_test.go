package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/events"
)

func TestWriteSSEFraming(t *testing.T) {
	rec := httptest.NewRecorder()

	envelope := events.Envelope{
		EventID:   "evt-1",
		TaskID:    "t1",
		EventType: events.TypeIterationStarted,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sequence:  3,
		Data:      json.RawMessage(`{"iteration":1}`),
	}
	writeSSEEnvelope(rec, envelope)

	body := rec.Body.String()
	assert.Contains(t, body, "event: "+events.TypeIterationStarted+"\n")
	assert.Contains(t, body, "data: {")
	assert.True(t, len(body) > 4 && body[len(body)-2:] == "\n\n", "frame must end with blank line")
	assert.True(t, rec.Flushed, "frame must be flushed immediately")

	// The data payload is the full envelope.
	var decoded events.Envelope
	start := len("event: " + events.TypeIterationStarted + "\ndata: ")
	require.NoError(t, json.Unmarshal([]byte(body[start:len(body)-2]), &decoded))
	assert.Equal(t, "evt-1", decoded.EventID)
	assert.Equal(t, int64(3), decoded.Sequence)
}

func TestWriteSSEHeartbeatFrame(t *testing.T) {
	rec := httptest.NewRecorder()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	writeSSEFrame(rec, events.TypeHeartbeat, heartbeatData(now))
	assert.Equal(t,
		"event: heartbeat\ndata: {\"ts\":"+strconv.FormatInt(now.Unix(), 10)+"}\n\n",
		rec.Body.String())
}

// fakeEventLister serves a fixed, sequence-ordered log in pages.
type fakeEventLister struct {
	log   []events.Envelope
	calls int
}

func (f *fakeEventLister) ListSince(_ context.Context, _ string, sinceSequence int64, limit int) ([]events.Envelope, error) {
	f.calls++
	var out []events.Envelope
	for _, envelope := range f.log {
		if envelope.Sequence <= sinceSequence {
			continue
		}
		out = append(out, envelope)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func backfillEnvelope(seq int64, eventType string) events.Envelope {
	return events.Envelope{
		EventID:   "evt-" + strconv.FormatInt(seq, 10),
		TaskID:    "t1",
		EventType: eventType,
		Sequence:  seq,
		Data:      json.RawMessage(`{}`),
	}
}

func TestBackfillPagesUntilLogExhausted(t *testing.T) {
	lister := &fakeEventLister{log: []events.Envelope{
		backfillEnvelope(1, events.TypeWorkflowStarted),
		backfillEnvelope(2, events.TypeIterationStarted),
		backfillEnvelope(3, events.TypeLLMCallStarted),
		backfillEnvelope(4, events.TypeLLMCallCompleted),
		backfillEnvelope(5, events.TypeGoalEvaluated),
	}}
	rec := httptest.NewRecorder()
	seen := make(map[string]bool)

	// Page size smaller than the log forces multiple pages.
	terminal, err := backfillEvents(context.Background(), lister, rec, "t1", 2, seen)
	require.NoError(t, err)
	assert.False(t, terminal)
	assert.GreaterOrEqual(t, lister.calls, 3, "log longer than one page must be paged")
	assert.Len(t, seen, 5)

	// All five frames, in sequence order, with no gap at the page boundary.
	var order []string
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(line, "data: ") {
			var decoded events.Envelope
			require.NoError(t, json.Unmarshal([]byte(line[len("data: "):]), &decoded))
			order = append(order, decoded.EventID)
		}
	}
	assert.Equal(t, []string{"evt-1", "evt-2", "evt-3", "evt-4", "evt-5"}, order)
}

func TestBackfillStopsAtTerminalEvent(t *testing.T) {
	lister := &fakeEventLister{log: []events.Envelope{
		backfillEnvelope(1, events.TypeWorkflowStarted),
		backfillEnvelope(2, events.TypeWorkflowCompleted),
		backfillEnvelope(3, events.TypeIterationStarted), // never written
	}}
	rec := httptest.NewRecorder()
	seen := make(map[string]bool)

	terminal, err := backfillEvents(context.Background(), lister, rec, "t1", 2, seen)
	require.NoError(t, err)
	assert.True(t, terminal)
	assert.Len(t, seen, 2)
	assert.NotContains(t, rec.Body.String(), "evt-3")
}
