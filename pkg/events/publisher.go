package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// notifyPayloadLimit keeps NOTIFY payloads under the postgres 8000-byte
// ceiling, with margin for the channel name and protocol overhead.
const notifyPayloadLimit = 7900

// Publisher appends events to the durable log and notifies subscribers in the
// same transaction, so consumers that read-log-then-subscribe never observe a
// gap. Chunk events are NOTIFY-only.
type Publisher struct {
	db     *sql.DB
	logger *slog.Logger

	// Per-task sequence counters, seeded from MAX(sequence) in the log so a
	// restarted worker continues the series.
	seqMu     sync.Mutex
	sequences map[string]int64
}

// NewPublisher creates a publisher over the shared database handle.
func NewPublisher(db *sql.DB) *Publisher {
	return &Publisher{
		db:        db,
		logger:    slog.Default(),
		sequences: make(map[string]int64),
	}
}

// Publish assigns the event ID, timestamp and per-task sequence, inserts into
// the log and fires pg_notify on the task channel in one transaction. Returns
// the assembled envelope.
func (p *Publisher) Publish(ctx context.Context, taskID, eventType string, data any) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s payload: %w", eventType, err)
	}

	sequence, err := p.nextSequence(ctx, taskID)
	if err != nil {
		return nil, err
	}

	envelope := &Envelope{
		EventID:   uuid.New().String(),
		TaskID:    taskID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Sequence:  sequence,
		Data:      raw,
	}

	if err := p.persistAndNotify(ctx, envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}

// PublishChunk fires a NOTIFY-only LLMCallChunk event. Chunks are ephemeral:
// no log row, sequence 0, losses are acceptable.
func (p *Publisher) PublishChunk(ctx context.Context, taskID string, chunk ChunkData) error {
	raw, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("marshaling chunk payload: %w", err)
	}
	envelope := &Envelope{
		EventID:   uuid.New().String(),
		TaskID:    taskID,
		EventType: TypeLLMCallChunk,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshaling chunk envelope: %w", err)
	}
	if len(payload) > notifyPayloadLimit {
		payload = truncatedPayload(envelope)
	}

	_, err = p.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", TaskChannel(taskID), string(payload))
	if err != nil {
		return fmt.Errorf("notifying chunk: %w", err)
	}
	return nil
}

// persistAndNotify inserts the event row and fires pg_notify inside one
// transaction. The notification is only delivered on COMMIT, after the row is
// visible to catchup queries.
func (p *Publisher) persistAndNotify(ctx context.Context, envelope *Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	if len(payload) > notifyPayloadLimit {
		// Oversized payloads notify a routing stub; subscribers refetch from
		// the log.
		p.logger.Debug("NOTIFY payload truncated",
			"task_id", envelope.TaskID, "event_type", envelope.EventType, "size", len(payload))
		payload = truncatedPayload(envelope)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning event transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (event_id, task_id, event_type, sequence, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		envelope.EventID, envelope.TaskID, envelope.EventType,
		envelope.Sequence, envelope.Data, envelope.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	_, err = tx.ExecContext(ctx, "SELECT pg_notify($1, $2)",
		TaskChannel(envelope.TaskID), string(payload))
	if err != nil {
		return fmt.Errorf("notifying event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing event: %w", err)
	}
	return nil
}

// nextSequence returns the next monotonic sequence for a task, seeding the
// in-memory counter from the log on first use.
func (p *Publisher) nextSequence(ctx context.Context, taskID string) (int64, error) {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()

	current, ok := p.sequences[taskID]
	if !ok {
		row := p.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(sequence), 0) FROM events WHERE task_id = $1", taskID)
		if err := row.Scan(&current); err != nil {
			return 0, fmt.Errorf("seeding sequence for task %s: %w", taskID, err)
		}
	}
	current++
	p.sequences[taskID] = current
	return current, nil
}

// ForgetTask drops the in-memory sequence counter once a task is terminal.
func (p *Publisher) ForgetTask(taskID string) {
	p.seqMu.Lock()
	delete(p.sequences, taskID)
	p.seqMu.Unlock()
}

// truncatedPayload builds the routing stub sent when the full envelope
// exceeds the NOTIFY limit.
func truncatedPayload(envelope *Envelope) []byte {
	stub := Envelope{
		EventID:   envelope.EventID,
		TaskID:    envelope.TaskID,
		EventType: envelope.EventType,
		Timestamp: envelope.Timestamp,
		Sequence:  envelope.Sequence,
		Truncated: true,
	}
	payload, _ := json.Marshal(stub)
	return payload
}
