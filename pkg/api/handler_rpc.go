package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/services"
)

// JSON-RPC 2.0 error codes, plus the A2A task-specific codes.
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603

	rpcTaskNotFound      = -32001
	rpcTaskNotCancelable = -32002
)

// sendWaitTimeout bounds how long message/send blocks waiting for the task to
// reach a terminal state before returning the in-flight snapshot.
const sendWaitTimeout = 2 * time.Minute

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func rpcResult(id, result any) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func rpcFailure(id any, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// A2A message shapes.

type messagePart struct {
	Text string `json:"text"`
}

type rpcMessage struct {
	Role  string        `json:"role"`
	Parts []messagePart `json:"parts"`
}

type messageSendParams struct {
	Message   rpcMessage     `json:"message"`
	ContextID string         `json:"contextId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type taskIDParams struct {
	ID string `json:"id"`
}

// rpcHandler handles POST /v1/agents/:agent_id/rpc — the JSON-RPC 2.0
// envelope for the A2A surface.
func (s *Server) rpcHandler(c *echo.Context) error {
	agentID := c.Param("agent_id")
	if agentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "agent id is required")
	}

	var req rpcRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusOK, rpcFailure(nil, rpcParseError, "parse error"))
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInvalidRequest, "invalid request"))
	}

	switch req.Method {
	case "message/send", "tasks/send": // tasks/send is a compatibility alias
		return s.rpcMessageSend(c, agentID, req)
	case "message/stream":
		return s.rpcMessageStream(c, agentID, req)
	case "tasks/get":
		return s.rpcTasksGet(c, req)
	case "tasks/cancel":
		return s.rpcTasksCancel(c, req)
	default:
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcMethodNotFound, "method not found: "+req.Method))
	}
}

// createTaskFromParams validates the A2A message and creates the task.
func (s *Server) createTaskFromParams(c *echo.Context, agentID string, raw json.RawMessage) (taskID string, rpcErrCode int, rpcErrMsg string) {
	var params messageSendParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return "", rpcInvalidParams, "invalid params: " + err.Error()
	}

	var texts []string
	for _, part := range params.Message.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	query := strings.Join(texts, "\n")
	if query == "" {
		return "", rpcInvalidParams, "message must contain at least one text part"
	}

	parameters := params.Metadata
	if params.ContextID != "" {
		if parameters == nil {
			parameters = make(map[string]any)
		}
		parameters["context_id"] = params.ContextID
	}

	budget := 0.0
	if raw, ok := parameters["budget_usd"]; ok {
		if v, ok := raw.(float64); ok {
			budget = v
		}
	}

	ident := identityFrom(c)
	snapshot, err := s.tasks.Create(c.Request().Context(), services.CreateTaskRequest{
		AgentID:     agentID,
		UserID:      ident.UserID,
		WorkspaceID: ident.WorkspaceID,
		Query:       query,
		Parameters:  parameters,
		BudgetUSD:   budget,
	})
	if err != nil {
		if services.IsValidationError(err) {
			return "", rpcInvalidParams, err.Error()
		}
		return "", rpcInternalError, "failed to create task"
	}
	return snapshot.ID, 0, ""
}

// rpcMessageSend creates a task and blocks (bounded) until it reaches a
// terminal state, returning the task snapshot either way.
func (s *Server) rpcMessageSend(c *echo.Context, agentID string, req rpcRequest) error {
	taskID, code, message := s.createTaskFromParams(c, agentID, req.Params)
	if code != 0 {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, code, message))
	}

	snapshot, err := s.waitForTerminal(c.Request().Context(), identityFrom(c).WorkspaceID, taskID)
	if err != nil {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInternalError, "failed to read task"))
	}
	return c.JSON(http.StatusOK, rpcResult(req.ID, snapshot))
}

// rpcMessageStream creates a task and streams its events as SSE until the
// terminal event.
func (s *Server) rpcMessageStream(c *echo.Context, agentID string, req rpcRequest) error {
	taskID, code, message := s.createTaskFromParams(c, agentID, req.Params)
	if code != 0 {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, code, message))
	}
	return s.streamTaskEvents(c, taskID)
}

// rpcTasksGet returns a task snapshot.
func (s *Server) rpcTasksGet(c *echo.Context, req rpcRequest) error {
	var params taskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInvalidParams, "invalid params: id is required"))
	}

	snapshot, err := s.tasks.Get(c.Request().Context(), identityFrom(c).WorkspaceID, params.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcTaskNotFound, "task not found"))
		}
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInternalError, "failed to read task"))
	}
	return c.JSON(http.StatusOK, rpcResult(req.ID, snapshot))
}

// rpcTasksCancel requests cancellation and returns the current snapshot.
func (s *Server) rpcTasksCancel(c *echo.Context, req rpcRequest) error {
	var params taskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInvalidParams, "invalid params: id is required"))
	}

	ctx := c.Request().Context()
	workspaceID := identityFrom(c).WorkspaceID
	if err := s.tasks.RequestCancel(ctx, workspaceID, params.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcTaskNotFound, "task not found"))
		case errors.Is(err, services.ErrInvalidTransition):
			return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcTaskNotCancelable, err.Error()))
		default:
			return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInternalError, "failed to cancel task"))
		}
	}

	snapshot, err := s.tasks.Get(ctx, workspaceID, params.ID)
	if err != nil {
		return c.JSON(http.StatusOK, rpcFailure(req.ID, rpcInternalError, "failed to read task"))
	}
	return c.JSON(http.StatusOK, rpcResult(req.ID, snapshot))
}

// waitForTerminal subscribes to the task's event feed and waits (bounded) for
// a terminal event, then returns the final snapshot. A task that outlives the
// wait is returned in its current state.
func (s *Server) waitForTerminal(ctx context.Context, workspaceID, taskID string) (*models.TaskSnapshot, error) {
	sub, err := s.broker.Subscribe(taskID)
	if err != nil {
		// No live feed; return whatever state the task is in.
		return s.tasks.Get(ctx, workspaceID, taskID)
	}
	defer sub.Close()

	// The task may have finished between creation and subscription.
	snapshot, err := s.tasks.Get(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	if snapshot.Status.Terminal() {
		return snapshot, nil
	}

	deadline := time.NewTimer(sendWaitTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.tasks.Get(context.WithoutCancel(ctx), workspaceID, taskID)
		case <-deadline.C:
			return s.tasks.Get(ctx, workspaceID, taskID)
		case envelope, ok := <-sub.Events():
			if !ok {
				return s.tasks.Get(ctx, workspaceID, taskID)
			}
			if events.IsTerminal(envelope.EventType) {
				return s.tasks.Get(ctx, workspaceID, taskID)
			}
		}
	}
}
