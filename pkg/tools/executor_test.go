package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
)

type fakeCaller struct {
	lastServer string
	lastTool   string
	lastArgs   map[string]any

	content string
	isError bool
	err     error
}

func (f *fakeCaller) CallTool(_ context.Context, serverID, toolName string, args map[string]any) (string, bool, error) {
	f.lastServer = serverID
	f.lastTool = toolName
	f.lastArgs = args
	return f.content, f.isError, f.err
}

func searchDescriptor() models.ToolDescriptor {
	return models.ToolDescriptor{
		Name:        "search",
		Description: "Search the web",
		ServerID:    "search-server",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {"query": {"type": "string"}},
			"required": ["query"]
		}`),
	}
}

func TestRegistry_BuiltinsFirstAndCollisionKeepsFirst(t *testing.T) {
	registry := NewRegistry([]models.ToolDescriptor{
		searchDescriptor(),
		{Name: "search", ServerID: "other-server"},
		{Name: parser.TaskCompleteToolName, ServerID: "sneaky-server"},
	})

	descriptors := registry.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, parser.TaskCompleteToolName, descriptors[0].Name)
	assert.True(t, descriptors[0].IsBuiltin(), "builtin wins the name collision")
	assert.Equal(t, "search-server", descriptors[1].ServerID)
}

func TestExecutor_DispatchesToMCP(t *testing.T) {
	caller := &fakeCaller{content: "go is a language"}
	executor := NewExecutor(NewRegistry([]models.ToolDescriptor{searchDescriptor()}), caller, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: "search", Arguments: `{"query":"golang"}`,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "go is a language", result.Result)
	assert.Equal(t, "search-server", caller.lastServer)
	assert.Equal(t, map[string]any{"query": "golang"}, caller.lastArgs)
}

func TestExecutor_UnknownTool(t *testing.T) {
	executor := NewExecutor(NewRegistry(nil), &fakeCaller{}, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: "teleport", Arguments: "{}",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown_tool")
}

func TestExecutor_SchemaViolationSkipsDispatch(t *testing.T) {
	caller := &fakeCaller{content: "should never run"}
	executor := NewExecutor(NewRegistry([]models.ToolDescriptor{searchDescriptor()}), caller, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: "search", Arguments: `{"query":42}`,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "schema_violation")
	assert.Empty(t, caller.lastTool, "invalid arguments never reach the server")
}

func TestExecutor_ServerErrorResult(t *testing.T) {
	caller := &fakeCaller{content: "index unavailable", isError: true}
	executor := NewExecutor(NewRegistry([]models.ToolDescriptor{searchDescriptor()}), caller, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: "search", Arguments: `{"query":"golang"}`,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "index unavailable", result.Error)
}

func TestExecutor_TransportErrorResult(t *testing.T) {
	caller := &fakeCaller{err: errors.New("connection refused")}
	executor := NewExecutor(NewRegistry([]models.ToolDescriptor{searchDescriptor()}), caller, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: "search", Arguments: `{"query":"golang"}`,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection refused")
}

func TestExecutor_CancelledContext(t *testing.T) {
	executor := NewExecutor(NewRegistry([]models.ToolDescriptor{searchDescriptor()}), &fakeCaller{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Execute(ctx, models.ToolCall{ID: "call_1", Name: "search", Arguments: "{}"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_TaskCompleteBuiltin(t *testing.T) {
	executor := NewExecutor(NewRegistry(nil), &fakeCaller{}, 0)

	result, err := executor.Execute(context.Background(), models.ToolCall{
		ID: "call_1", Name: parser.TaskCompleteToolName, Arguments: `{"result":"all done"}`,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "all done", result.Result)
}

func TestParseTaskCompletion(t *testing.T) {
	completion, err := ParseTaskCompletion(`{"result":"done","success":false}`)
	require.NoError(t, err)
	assert.Equal(t, "done", completion.Result)
	assert.False(t, completion.Success)

	completion, err = ParseTaskCompletion(`{"result":"done"}`)
	require.NoError(t, err)
	assert.True(t, completion.Success, "success defaults to true")

	// Arguments recovered from prose arrive wrapped as text.
	completion, err = ParseTaskCompletion(`{"text":"the answer is 4"}`)
	require.NoError(t, err)
	assert.Equal(t, "the answer is 4", completion.Result)
}
