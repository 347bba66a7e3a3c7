package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/droverhq/drover/pkg/events"
)

const (
	// heartbeatInterval is how long a quiet stream goes before a heartbeat
	// frame keeps the connection alive through proxies.
	heartbeatInterval = 15 * time.Second

	// backfillPageSize bounds one page of the catch-up read; the backfill
	// pages until the log is exhausted.
	backfillPageSize = 1000
)

// eventLister is the slice of the event service the backfill needs.
type eventLister interface {
	ListSince(ctx context.Context, taskID string, sinceSequence int64, limit int) ([]events.Envelope, error)
}

// streamEventsHandler handles GET /v1/tasks/:task_id/events.
//
// Ordering guarantee: the broker subscription is established before the
// backfill query, so an event is either in the backfill or delivered live;
// duplicates on the boundary are dropped by event_id.
func (s *Server) streamEventsHandler(c *echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if _, err := s.tasks.Get(c.Request().Context(), identityFrom(c).WorkspaceID, taskID); err != nil {
		return mapServiceError(err)
	}
	return s.streamTaskEvents(c, taskID)
}

// streamTaskEvents frames a task's event feed as SSE until the terminal event
// is flushed or the client disconnects. Shared by the SSE endpoint and the
// RPC message/stream method.
func (s *Server) streamTaskEvents(c *echo.Context, taskID string) error {
	ctx := c.Request().Context()

	resp := c.Response()
	flusher, ok := resp.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "response writer does not support streaming")
	}

	sub, err := s.broker.Subscribe(taskID)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event stream unavailable")
	}
	defer sub.Close()

	h := resp.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Backfill from the durable log in sequence order.
	seen := make(map[string]bool)
	terminal, err := backfillEvents(ctx, s.eventSvc, resp, taskID, backfillPageSize, seen)
	if err != nil || terminal {
		return nil // headers already sent; nothing useful to return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case envelope, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if seen[envelope.EventID] {
				continue
			}
			if envelope.Truncated {
				// The NOTIFY payload was a stub; fetch the full event.
				if full, err := s.eventSvc.GetByID(ctx, envelope.EventID); err == nil {
					envelope = *full
				}
			}
			writeSSEEnvelope(resp, envelope)
			heartbeat.Reset(heartbeatInterval)
			if events.IsTerminal(envelope.EventType) {
				return nil
			}

		case <-heartbeat.C:
			writeSSEFrame(resp, events.TypeHeartbeat, heartbeatData(time.Now()))
		}
	}
}

// backfillEvents replays the durable log in sequence order, paging until the
// log is exhausted, and records every written event_id in seen. Returns true
// when the terminal event was written.
func backfillEvents(ctx context.Context, lister eventLister, w http.ResponseWriter, taskID string, pageSize int, seen map[string]bool) (bool, error) {
	var lastSeq int64
	for {
		page, err := lister.ListSince(ctx, taskID, lastSeq, pageSize)
		if err != nil {
			return false, err
		}
		for _, envelope := range page {
			writeSSEEnvelope(w, envelope)
			seen[envelope.EventID] = true
			lastSeq = envelope.Sequence
			if events.IsTerminal(envelope.EventType) {
				return true, nil
			}
		}
		if len(page) < pageSize {
			return false, nil
		}
	}
}

func writeSSEEnvelope(w http.ResponseWriter, envelope events.Envelope) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	writeSSEFrame(w, envelope.EventType, data)
}

func writeSSEFrame(w http.ResponseWriter, eventType string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func heartbeatData(now time.Time) []byte {
	return []byte(fmt.Sprintf(`{"ts":%d}`, now.Unix()))
}
