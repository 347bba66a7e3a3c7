package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/goal"
	"github.com/droverhq/drover/pkg/llm"
	"github.com/droverhq/drover/pkg/mcp"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/secrets"
	"github.com/droverhq/drover/pkg/services"
	"github.com/droverhq/drover/pkg/tools"
)

// Activities holds the dependencies for every workflow side effect. One
// instance per worker process; MCP sessions are shared across tasks.
type Activities struct {
	Config    *config.Config
	Secrets   secrets.Store
	Tasks     *services.TaskService
	Publisher *events.Publisher
	MCP       *mcp.Client
}

// BuildAgentConfigInput selects the agent to resolve.
type BuildAgentConfigInput struct {
	AgentID string `json:"agent_id"`
}

// BuildAgentConfig resolves the agent's registry entry into the immutable
// configuration the workflow iterates with. Credentials are never included;
// adapters resolve them through the secret store at call time.
func (a *Activities) BuildAgentConfig(_ context.Context, input BuildAgentConfigInput) (models.AgentConfig, error) {
	agentCfg, err := a.Config.GetAgent(input.AgentID)
	if err != nil {
		return models.AgentConfig{}, err
	}
	providerCfg, err := a.Config.GetLLMProvider(agentCfg.LLMProvider)
	if err != nil {
		return models.AgentConfig{}, err
	}

	evaluatorProvider := agentCfg.EvaluatorProvider
	if evaluatorProvider == "" {
		evaluatorProvider = agentCfg.LLMProvider
	}
	evaluatorCfg, err := a.Config.GetLLMProvider(evaluatorProvider)
	if err != nil {
		return models.AgentConfig{}, err
	}

	maxIterations := DefaultMaxIterations
	if agentCfg.MaxIterations != nil {
		maxIterations = *agentCfg.MaxIterations
	}
	if maxIterations > MaxIterationsCap {
		maxIterations = MaxIterationsCap
	}

	resolved := models.AgentConfig{
		Name:        input.AgentID,
		Description: agentCfg.Description,
		Instruction: agentCfg.Instruction,
		Model: models.ModelConfig{
			Provider: agentCfg.LLMProvider,
			Model:    providerCfg.Model,
		},
		EvaluatorModel: models.ModelConfig{
			Provider: evaluatorProvider,
			Model:    evaluatorCfg.Model,
		},
		MCPServers:    agentCfg.MCPServers,
		Streaming:     agentCfg.Streaming,
		MaxIterations: maxIterations,
	}
	for _, skill := range agentCfg.Skills {
		resolved.Skills = append(resolved.Skills, models.Skill{
			ID:          skill.ID,
			Name:        skill.Name,
			Description: skill.Description,
			Tags:        skill.Tags,
		})
	}
	return resolved, nil
}

// DiscoverToolsInput carries the resolved agent configuration.
type DiscoverToolsInput struct {
	Agent models.AgentConfig `json:"agent"`
}

// DiscoverTools connects the agent's MCP servers and returns the full tool
// surface: builtins first, then discovered tools. Unreachable servers are
// skipped so the task can proceed with what is available.
func (a *Activities) DiscoverTools(ctx context.Context, input DiscoverToolsInput) ([]models.ToolDescriptor, error) {
	var discovered []models.ToolDescriptor
	for _, serverID := range input.Agent.MCPServers {
		if err := a.MCP.InitializeServer(ctx, serverID); err != nil {
			slog.Warn("Skipping unreachable MCP server", "server", serverID, "error", err)
			continue
		}
		serverTools, err := a.MCP.ListTools(ctx, serverID)
		if err != nil {
			slog.Warn("Failed to list tools", "server", serverID, "error", err)
			continue
		}
		discovered = append(discovered, serverTools...)
	}
	return tools.NewRegistry(discovered).Descriptors(), nil
}

// CallLLMInput is one completion request.
type CallLLMInput struct {
	TaskID   string                  `json:"task_id"`
	Agent    models.AgentConfig      `json:"agent"`
	Messages []models.Message        `json:"messages"`
	Tools    []models.ToolDescriptor `json:"tools"`
}

// CallLLMResult is the assembled completion.
type CallLLMResult struct {
	Content   string            `json:"content"`
	ToolCalls []models.ToolCall `json:"tool_calls,omitempty"`
	Usage     models.Usage      `json:"usage"`
	CostUSD   float64           `json:"cost_usd"`
}

// CallLLM runs one provider completion. Streaming agents push LLMCallChunk
// events through the publisher as tokens arrive; either way the activity
// publishes LLMCallCompleted with the assembled content before returning.
// Permanent provider failures surface as non-retryable application errors.
func (a *Activities) CallLLM(ctx context.Context, input CallLLMInput) (CallLLMResult, error) {
	providerCfg, err := a.Config.GetLLMProvider(input.Agent.Model.Provider)
	if err != nil {
		return CallLLMResult{}, err
	}
	client, err := llm.NewClient(input.Agent.Model.Provider, providerCfg, a.Secrets)
	if err != nil {
		return CallLLMResult{}, err
	}

	var sink llm.ChunkSink
	if input.Agent.Streaming {
		sink = func(chunk string, index int, isFinal bool) {
			if err := a.Publisher.PublishChunk(ctx, input.TaskID, events.ChunkData{
				Chunk: chunk, Index: index, IsFinal: isFinal,
			}); err != nil {
				slog.Debug("Chunk publish failed", "task_id", input.TaskID, "error", err)
			}
		}
	}

	resp, err := client.Complete(ctx, llm.Request{
		Messages:  input.Messages,
		Tools:     input.Tools,
		Streaming: input.Agent.Streaming,
		TaskID:    input.TaskID,
		AgentID:   input.Agent.Name,
	}, sink)
	if err != nil {
		if llm.IsPermanent(err) {
			return CallLLMResult{}, temporal.NewApplicationError(err.Error(), errTypeProviderPermanent)
		}
		return CallLLMResult{}, err
	}

	if _, err := a.Publisher.Publish(ctx, input.TaskID, events.TypeLLMCallCompleted, map[string]any{
		"content":    resp.Content,
		"tool_calls": resp.ToolCalls,
		"usage":      resp.Usage,
		"cost_usd":   resp.CostUSD,
	}); err != nil {
		return CallLLMResult{}, fmt.Errorf("publishing LLMCallCompleted: %w", err)
	}

	return CallLLMResult{
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
		Usage:     resp.Usage,
		CostUSD:   resp.CostUSD,
	}, nil
}

// ExecuteToolInput is one tool invocation.
type ExecuteToolInput struct {
	TaskID   string                  `json:"task_id"`
	Call     models.ToolCall         `json:"call"`
	Tools    []models.ToolDescriptor `json:"tools"`
	Provider string                  `json:"provider"`
}

// ExecuteTool validates and dispatches one tool call. The MCP session is
// (re)established on demand; failures come back inside the ToolResult so the
// conversation continues.
func (a *Activities) ExecuteTool(ctx context.Context, input ExecuteToolInput) (models.ToolResult, error) {
	var discovered []models.ToolDescriptor
	for _, descriptor := range input.Tools {
		if descriptor.IsBuiltin() {
			continue
		}
		discovered = append(discovered, descriptor)
		if descriptor.Name == input.Call.Name {
			if err := a.MCP.InitializeServer(ctx, descriptor.ServerID); err != nil {
				return models.ToolResult{
					CallID:  input.Call.ID,
					Name:    input.Call.Name,
					Success: false,
					Error:   fmt.Sprintf("MCP server %q unreachable: %v", descriptor.ServerID, err),
				}, nil
			}
		}
	}

	maxResultTokens := 0
	if providerCfg, err := a.Config.GetLLMProvider(input.Provider); err == nil {
		maxResultTokens = providerCfg.MaxToolResultTokens
	}

	executor := tools.NewExecutor(tools.NewRegistry(discovered), a.MCP, maxResultTokens)
	return executor.Execute(ctx, input.Call)
}

// EvaluateGoalInput asks whether the latest response resolves the query.
type EvaluateGoalInput struct {
	Agent    models.AgentConfig `json:"agent"`
	Query    string             `json:"query"`
	Response string             `json:"response"`
}

// EvaluateGoal judges goal achievement with the agent's evaluator model.
func (a *Activities) EvaluateGoal(ctx context.Context, input EvaluateGoalInput) (goal.Evaluation, error) {
	providerCfg, err := a.Config.GetLLMProvider(input.Agent.EvaluatorModel.Provider)
	if err != nil {
		return goal.Evaluation{}, err
	}
	client, err := llm.NewClient(input.Agent.EvaluatorModel.Provider, providerCfg, a.Secrets)
	if err != nil {
		return goal.Evaluation{}, err
	}
	return goal.NewEvaluator(client).Evaluate(ctx, input.Query, input.Response)
}

// PublishEventInput is one durable event.
type PublishEventInput struct {
	TaskID    string         `json:"task_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data,omitempty"`
}

// PublishEvent appends to the log and notifies subscribers. Event ID,
// timestamp and sequence are assigned here, inside the activity, so workflow
// replay never re-mints them.
func (a *Activities) PublishEvent(ctx context.Context, input PublishEventInput) error {
	data := input.Data
	if data == nil {
		data = map[string]any{}
	}
	_, err := a.Publisher.Publish(ctx, input.TaskID, input.EventType, data)
	return err
}

// Lifecycle writes. The workflow never touches the database directly.

// TaskAccountingInput carries the final accounting for a terminal write.
type TaskAccountingInput struct {
	TaskID     string  `json:"task_id"`
	Cost       float64 `json:"cost"`
	Iterations int     `json:"iterations"`
}

// CompleteTaskInput finishes a task successfully.
type CompleteTaskInput struct {
	TaskID     string  `json:"task_id"`
	Result     string  `json:"result"`
	Cost       float64 `json:"cost"`
	Iterations int     `json:"iterations"`
}

// FailTaskInput finishes a task with a classified failure.
type FailTaskInput struct {
	TaskID     string           `json:"task_id"`
	Kind       models.ErrorKind `json:"kind"`
	Message    string           `json:"message"`
	Cost       float64          `json:"cost"`
	Iterations int              `json:"iterations"`
}

func (a *Activities) MarkTaskRunning(ctx context.Context, taskID string) error {
	return a.Tasks.MarkRunning(ctx, taskID)
}

func (a *Activities) MarkTaskPaused(ctx context.Context, taskID string) error {
	return a.Tasks.MarkPaused(ctx, taskID)
}

func (a *Activities) MarkTaskResumed(ctx context.Context, taskID string) error {
	return a.Tasks.MarkResumed(ctx, taskID)
}

func (a *Activities) CompleteTask(ctx context.Context, input CompleteTaskInput) error {
	return a.Tasks.Complete(ctx, input.TaskID, input.Result, input.Cost, input.Iterations)
}

func (a *Activities) FailTask(ctx context.Context, input FailTaskInput) error {
	return a.Tasks.Fail(ctx, input.TaskID, input.Kind, input.Message, input.Cost, input.Iterations)
}

func (a *Activities) CancelTask(ctx context.Context, input TaskAccountingInput) error {
	return a.Tasks.MarkCancelled(ctx, input.TaskID, input.Cost, input.Iterations)
}

func (a *Activities) UpdateTaskProgress(ctx context.Context, input TaskAccountingInput) error {
	return a.Tasks.UpdateProgress(ctx, input.TaskID, input.Cost, input.Iterations)
}
