package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/droverhq/drover/pkg/mcp"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
)

// MCPCaller dispatches a tool call to an MCP server. Implemented by
// mcp.Client; narrowed to an interface for tests.
type MCPCaller interface {
	CallTool(ctx context.Context, serverID, toolName string, args map[string]any) (string, bool, error)
}

// Executor validates and runs tool calls for one task execution.
type Executor struct {
	registry        *Registry
	caller          MCPCaller
	maxResultTokens int

	schemaMu sync.Mutex
	schemas  map[string]*jsonschema.Schema
}

// NewExecutor creates an executor over a registry and MCP dispatcher.
// maxResultTokens bounds tool output kept in the transcript; zero applies the
// default limit.
func NewExecutor(registry *Registry, caller MCPCaller, maxResultTokens int) *Executor {
	return &Executor{
		registry:        registry,
		caller:          caller,
		maxResultTokens: maxResultTokens,
		schemas:         make(map[string]*jsonschema.Schema),
	}
}

// Execute runs one tool call and always returns a result; failures are
// reported through ToolResult rather than an error so the conversation can
// continue. The error return is reserved for context cancellation.
func (e *Executor) Execute(ctx context.Context, call models.ToolCall) (models.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ToolResult{}, err
	}

	descriptor, err := e.registry.Get(call.Name)
	if err != nil {
		return failedResult(call, err.Error()), nil
	}

	args, err := decodeArguments(call.Arguments)
	if err != nil {
		return failedResult(call, fmt.Sprintf("schema_violation: arguments are not a JSON object: %v", err)), nil
	}
	if err := e.validateArguments(descriptor, args); err != nil {
		// Invalid arguments never reach the server.
		return failedResult(call, fmt.Sprintf("schema_violation: %v", err)), nil
	}

	if descriptor.IsBuiltin() {
		return e.executeBuiltin(call)
	}

	content, isError, err := e.caller.CallTool(ctx, descriptor.ServerID, call.Name, args)
	if err != nil {
		if ctx.Err() != nil {
			return models.ToolResult{}, ctx.Err()
		}
		slog.Warn("Tool call failed", "tool", call.Name, "server", descriptor.ServerID, "error", err)
		return failedResult(call, err.Error()), nil
	}

	content = mcp.TruncateResult(content, e.maxResultTokens)
	if isError {
		return failedResult(call, content), nil
	}
	return models.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Success: true,
		Result:  content,
	}, nil
}

// executeBuiltin handles in-process tools. task_complete is normally
// short-circuited by the reasoning loop before execution; echoing the result
// keeps behavior sane if it ever lands here.
func (e *Executor) executeBuiltin(call models.ToolCall) (models.ToolResult, error) {
	switch call.Name {
	case parser.TaskCompleteToolName:
		completion, err := ParseTaskCompletion(call.Arguments)
		if err != nil {
			return failedResult(call, err.Error()), nil
		}
		return models.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Success: true,
			Result:  completion.Result,
		}, nil
	default:
		return failedResult(call, fmt.Sprintf("unknown_tool: builtin %q has no handler", call.Name)), nil
	}
}

// validateArguments checks the decoded arguments against the tool's input
// schema. Tools without a schema accept anything.
func (e *Executor) validateArguments(descriptor models.ToolDescriptor, args map[string]any) error {
	if len(descriptor.Schema) == 0 {
		return nil
	}
	schema, err := e.compiledSchema(descriptor)
	if err != nil {
		// A malformed schema is the server's defect, not the model's; skip
		// validation rather than failing every call.
		slog.Warn("Tool schema failed to compile, skipping validation",
			"tool", descriptor.Name, "error", err)
		return nil
	}
	// Round-trip through any for the validator's canonical types.
	return schema.Validate(anyMap(args))
}

func (e *Executor) compiledSchema(descriptor models.ToolDescriptor) (*jsonschema.Schema, error) {
	e.schemaMu.Lock()
	defer e.schemaMu.Unlock()

	if schema, ok := e.schemas[descriptor.Name]; ok {
		return schema, nil
	}

	var doc any
	if err := json.Unmarshal(descriptor.Schema, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	e.schemas[descriptor.Name] = schema
	return schema, nil
}

func decodeArguments(arguments string) (map[string]any, error) {
	normalized := parser.NormalizeArguments(arguments)
	var args map[string]any
	if err := json.Unmarshal([]byte(normalized), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func anyMap(args map[string]any) any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

func failedResult(call models.ToolCall, message string) models.ToolResult {
	return models.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Success: false,
		Error:   message,
	}
}
