package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/droverhq/drover/ent"
	"github.com/droverhq/drover/ent/event"
	"github.com/droverhq/drover/ent/task"
	"github.com/droverhq/drover/pkg/events"
)

// EventService reads the durable event log for backfill and enforces event
// retention.
type EventService struct {
	client *ent.Client
}

// NewEventService creates an event service.
func NewEventService(client *ent.Client) *EventService {
	return &EventService{client: client}
}

// ListSince returns a task's events with sequence > sinceSequence, in
// sequence order. Used by SSE backfill and catchup.
func (s *EventService) ListSince(ctx context.Context, taskID string, sinceSequence int64, limit int) ([]events.Envelope, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	rows, err := s.client.Event.Query().
		Where(event.TaskID(taskID), event.SequenceGT(sinceSequence)).
		Order(ent.Asc(event.FieldSequence)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]events.Envelope, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		out = append(out, events.Envelope{
			EventID:   row.EventID,
			TaskID:    row.TaskID,
			EventType: row.EventType,
			Timestamp: row.CreatedAt,
			Sequence:  row.Sequence,
			Data:      data,
		})
	}
	return out, nil
}

// GetByID refetches one event by its stable ID. Used when a NOTIFY payload
// arrived truncated.
func (s *EventService) GetByID(ctx context.Context, eventID string) (*events.Envelope, error) {
	row, err := s.client.Event.Query().
		Where(event.EventID(eventID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	data, err := json.Marshal(row.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &events.Envelope{
		EventID:   row.EventID,
		TaskID:    row.TaskID,
		EventType: row.EventType,
		Timestamp: row.CreatedAt,
		Sequence:  row.Sequence,
		Data:      data,
	}, nil
}

// CleanupTerminalTaskEvents removes event rows older than the TTL whose task
// is terminal. Live tasks keep their full log for backfill.
func (s *EventService) CleanupTerminalTaskEvents(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.client.Event.Delete().
		Where(
			event.CreatedAtLT(cutoff),
			event.HasTaskWith(task.StatusIn(
				task.StatusCompleted, task.StatusFailed, task.StatusCancelled)),
		).
		Exec(writeCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup events: %w", err)
	}
	return count, nil
}

// DeleteOldTasks removes terminal tasks past the retention window; events go
// with them via the cascade.
func (s *EventService) DeleteOldTasks(ctx context.Context, retentionDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.client.Task.Delete().
		Where(
			task.StatusIn(task.StatusCompleted, task.StatusFailed, task.StatusCancelled),
			task.CompletedAtLT(cutoff),
		).
		Exec(writeCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old tasks: %w", err)
	}
	return count, nil
}
