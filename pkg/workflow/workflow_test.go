package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/goal"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
	"github.com/droverhq/drover/pkg/tools"
)

var testActivities *Activities

func testAgent() models.AgentConfig {
	return models.AgentConfig{
		Name:        "research",
		Instruction: "You are a research assistant.",
		Model:       models.ModelConfig{Provider: "openai", Model: "gpt-4o"},
		EvaluatorModel: models.ModelConfig{
			Provider: "openai", Model: "gpt-4o-mini",
		},
		MaxIterations: 10,
	}
}

func testRequest() ExecutionRequest {
	return ExecutionRequest{
		TaskID:      "task-123",
		AgentID:     "research",
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Query:       "What is the airspeed of an unladen swallow?",
		BudgetUSD:   1.0,
	}
}

func taskCompleteCall(result string) models.ToolCall {
	return models.ToolCall{
		ID:        "call-done",
		Name:      parser.TaskCompleteToolName,
		Arguments: `{"result":"` + result + `","success":true}`,
	}
}

// eventRecorder collects the events the workflow publishes, in order.
type eventRecorder struct {
	inputs []PublishEventInput
}

func (r *eventRecorder) count(eventType string) int {
	n := 0
	for _, input := range r.inputs {
		if input.EventType == eventType {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last() PublishEventInput {
	return r.inputs[len(r.inputs)-1]
}

func newWorkflowEnv(t *testing.T, agent models.AgentConfig) (*testsuite.TestWorkflowEnvironment, *eventRecorder) {
	t.Helper()
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(TaskWorkflow)

	recorder := &eventRecorder{}
	env.OnActivity(testActivities.PublishEvent, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorder.inputs = append(recorder.inputs, args.Get(1).(PublishEventInput))
		}).
		Return(nil)

	env.OnActivity(testActivities.BuildAgentConfig, mock.Anything, mock.Anything).
		Return(agent, nil)
	env.OnActivity(testActivities.DiscoverTools, mock.Anything, mock.Anything).
		Return(tools.NewRegistry(nil).Descriptors(), nil)

	env.OnActivity(testActivities.MarkTaskRunning, mock.Anything, mock.Anything).Return(nil)
	// Progress writes only happen on paths that complete an LLM call.
	env.OnActivity(testActivities.UpdateTaskProgress, mock.Anything, mock.Anything).Return(nil).Maybe()

	return env, recorder
}

func workflowResult(t *testing.T, env *testsuite.TestWorkflowEnvironment) ExecutionResult {
	t.Helper()
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result ExecutionResult
	require.NoError(t, env.GetWorkflowResult(&result))
	return result
}

func TestWorkflowCompletesOnTaskComplete(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("42 km/h")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.MatchedBy(func(in CompleteTaskInput) bool {
		return in.TaskID == "task-123" && in.Result == "42 km/h"
	})).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, "42 km/h", result.Result)
	require.Equal(t, 1, result.Iterations)
	require.InDelta(t, 0.01, result.CostAccrued, 1e-9)

	require.Equal(t, 1, recorder.count(events.TypeWorkflowStarted))
	require.Equal(t, 1, recorder.count(events.TypeIterationStarted))
	// The task_complete call is surfaced as a tool event pair.
	require.Equal(t, 1, recorder.count(events.TypeToolCallStarted))
	require.Equal(t, 1, recorder.count(events.TypeToolCallCompleted))
	require.Equal(t, 1, recorder.count(events.TypeWorkflowCompleted))
	require.Equal(t, 0, recorder.count(events.TypeWorkflowFailed))
	last := recorder.last()
	require.Equal(t, events.TypeWorkflowCompleted, last.EventType)
	require.Equal(t, true, last.Data["success"])
	require.Equal(t, "completed", last.Data["termination_reason"])
	env.AssertExpectations(t)
}

func TestWorkflowToolCallingIteration(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	searchCall := models.ToolCall{ID: "call-1", Name: "search", Arguments: `{"q":"swallow"}`}
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{ToolCalls: []models.ToolCall{searchCall}, CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.ExecuteTool, mock.Anything, mock.MatchedBy(func(in ExecuteToolInput) bool {
		return in.Call.Name == "search"
	})).Return(models.ToolResult{
		CallID: "call-1", Name: "search", Success: true, Result: "African or European?",
	}, nil).Once()

	var secondTurn []models.Message
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			secondTurn = args.Get(1).(CallLLMInput).Messages
		}).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("depends on the swallow")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, 2, result.Iterations)

	// The tool result made it back into the conversation.
	last := secondTurn[len(secondTurn)-1]
	require.Equal(t, models.RoleTool, last.Role)
	require.Equal(t, "call-1", last.ToolCallID)
	require.Equal(t, "African or European?", last.Content)

	// One pair for the search call, one for task_complete.
	require.Equal(t, 2, recorder.count(events.TypeToolCallStarted))
	require.Equal(t, 2, recorder.count(events.TypeToolCallCompleted))
	env.AssertExpectations(t)
}

func TestWorkflowGoalEvaluationCompletes(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "The answer is 42 km/h.", CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{
			Achieved: true, Confidence: 0.92, FinalResponse: "The answer is 42 km/h.",
			CostUSD: 0.005,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, "The answer is 42 km/h.", result.Result)
	require.Equal(t, 1, recorder.count(events.TypeGoalEvaluated))
	// The evaluator call's spend is accrued alongside the main LLM call.
	require.InDelta(t, 0.015, result.CostAccrued, 1e-9)
	env.AssertExpectations(t)
}

func TestWorkflowNudgesOnEmptyResponse(t *testing.T) {
	env, _ := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{CostUSD: 0.01}, nil).Once()

	var secondTurn []models.Message
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			secondTurn = args.Get(1).(CallLLMInput).Messages
		}).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("done")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)

	last := secondTurn[len(secondTurn)-1]
	require.Equal(t, models.RoleUser, last.Role)
	require.Equal(t, nudgeMessage, last.Content)
	env.AssertExpectations(t)
}

func TestWorkflowInconclusiveEvaluationNudges(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Still thinking about it.", CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{Achieved: true, Confidence: 0.4}, nil).Once()

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("done")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, 2, result.Iterations)
	require.Equal(t, 1, recorder.count(events.TypeGoalEvaluated))
	env.AssertExpectations(t)
}

func TestWorkflowMaxIterationsExhausted(t *testing.T) {
	agent := testAgent()
	agent.MaxIterations = 1
	env, recorder := newWorkflowEnv(t, agent)

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Working on it.", CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{Achieved: false, Confidence: 0.9}, nil).Once()
	env.OnActivity(testActivities.FailTask, mock.Anything, mock.MatchedBy(func(in FailTaskInput) bool {
		return in.Kind == models.ErrorKindMaxIterations
	})).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskFailed, result.Status)
	require.Equal(t, models.ErrorKindMaxIterations, result.ErrorKind)
	require.Equal(t, 1, result.Iterations)

	// Running out of iterations is a bounded completion, not a workflow
	// failure; the terminal event carries the classification.
	require.Equal(t, 0, recorder.count(events.TypeWorkflowFailed))
	require.Equal(t, 1, recorder.count(events.TypeWorkflowCompleted))
	last := recorder.last()
	require.Equal(t, events.TypeWorkflowCompleted, last.EventType)
	require.Equal(t, false, last.Data["success"])
	require.Equal(t, "max_iterations", last.Data["termination_reason"])
	env.AssertExpectations(t)
}

func TestWorkflowMaxIterationsParameterOverride(t *testing.T) {
	env, _ := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Working on it.", CostUSD: 0.001}, nil).Twice()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{Achieved: false, Confidence: 0.9}, nil).Twice()
	env.OnActivity(testActivities.FailTask, mock.Anything, mock.Anything).Return(nil).Once()

	req := testRequest()
	req.Parameters = map[string]any{"max_iterations": float64(2)}
	env.ExecuteWorkflow(TaskWorkflow, req)

	result := workflowResult(t, env)
	require.Equal(t, models.TaskFailed, result.Status)
	require.Equal(t, 2, result.Iterations)
	env.AssertExpectations(t)
}

func TestWorkflowZeroBudgetFailsAfterFirstCall(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Hello.", CostUSD: 0}, nil).Once()
	env.OnActivity(testActivities.FailTask, mock.Anything, mock.MatchedBy(func(in FailTaskInput) bool {
		return in.Kind == models.ErrorKindBudget
	})).Return(nil).Once()

	req := testRequest()
	req.BudgetUSD = 0
	env.ExecuteWorkflow(TaskWorkflow, req)

	result := workflowResult(t, env)
	require.Equal(t, models.TaskFailed, result.Status)
	require.Equal(t, models.ErrorKindBudget, result.ErrorKind)
	require.Equal(t, 1, recorder.count(events.TypeBudgetExceeded))
	// Warning is skipped when the budget is already exceeded.
	require.Equal(t, 0, recorder.count(events.TypeBudgetWarning))

	// Bounded termination: WorkflowCompleted with the budget classification.
	require.Equal(t, 0, recorder.count(events.TypeWorkflowFailed))
	last := recorder.last()
	require.Equal(t, events.TypeWorkflowCompleted, last.EventType)
	require.Equal(t, false, last.Data["success"])
	require.Equal(t, "budget_exceeded", last.Data["termination_reason"])
	env.AssertExpectations(t)
}

func TestWorkflowBudgetWarningOnce(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Expensive research.", CostUSD: 0.85}, nil).Once()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{Achieved: false, Confidence: 0.9}, nil).Once()
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("done")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, 1, recorder.count(events.TypeBudgetWarning))
	require.Equal(t, 0, recorder.count(events.TypeBudgetExceeded))
	env.AssertExpectations(t)
}

func TestWorkflowCancelSignal(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CancelTask, mock.Anything, mock.Anything).Return(nil).Once()
	// The signal may land before or after the first iteration starts; keep the
	// loop alive either way until the next checkpoint observes it.
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{Content: "Working on it.", CostUSD: 0.001}, nil).Maybe()
	env.OnActivity(testActivities.EvaluateGoal, mock.Anything, mock.Anything).
		Return(goal.Evaluation{Achieved: false, Confidence: 0.9}, nil).Maybe()
	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(SignalCancel, nil)
	}, 0)

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCancelled, result.Status)
	require.Equal(t, 1, recorder.count(events.TypeWorkflowCancelled))
	require.Equal(t, 0, recorder.count(events.TypeWorkflowCompleted))
	require.Equal(t, 0, recorder.count(events.TypeWorkflowFailed))
	env.AssertExpectations(t)
}

func TestWorkflowPauseAndResume(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.MarkTaskPaused, mock.Anything, "task-123").Return(nil).Once()
	env.OnActivity(testActivities.MarkTaskResumed, mock.Anything, "task-123").Return(nil).Once()
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("done")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(SignalPause, nil)
	}, 0)
	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(SignalResume, nil)
	}, time.Minute)

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, 1, recorder.count(events.TypeWorkflowPaused))
	require.Equal(t, 1, recorder.count(events.TypeWorkflowResumed))
	env.AssertExpectations(t)
}

func TestWorkflowCancelWhilePaused(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.MarkTaskPaused, mock.Anything, "task-123").Return(nil).Once()
	env.OnActivity(testActivities.CancelTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(SignalPause, nil)
	}, 0)
	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(SignalCancel, nil)
	}, time.Minute)

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCancelled, result.Status)
	require.Equal(t, 1, recorder.count(events.TypeWorkflowPaused))
	require.Equal(t, 0, recorder.count(events.TypeWorkflowResumed))
	require.Equal(t, 1, recorder.count(events.TypeWorkflowCancelled))
	env.AssertExpectations(t)
}

func TestWorkflowPermanentProviderFailure(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{}, temporal.NewApplicationError("invalid api key", errTypeProviderPermanent)).Once()
	env.OnActivity(testActivities.FailTask, mock.Anything, mock.MatchedBy(func(in FailTaskInput) bool {
		return in.Kind == models.ErrorKindProvider
	})).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskFailed, result.Status)
	require.Equal(t, models.ErrorKindProvider, result.ErrorKind)
	require.Contains(t, result.Error, "invalid api key")
	require.Equal(t, 1, recorder.count(events.TypeWorkflowFailed))
	env.AssertExpectations(t)
}

func TestWorkflowDuplicateToolCallIDs(t *testing.T) {
	env, _ := newWorkflowEnv(t, testAgent())

	dupA := models.ToolCall{ID: "call-1", Name: "search", Arguments: `{"q":"a"}`}
	dupB := models.ToolCall{ID: "call-1", Name: "search", Arguments: `{"q":"b"}`}
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{ToolCalls: []models.ToolCall{dupA, dupB}, CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.ExecuteTool, mock.Anything, mock.Anything).
		Return(models.ToolResult{
			CallID: "call-1", Name: "search", Success: true, Result: "ok",
		}, nil).Once()

	var secondTurn []models.Message
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			secondTurn = args.Get(1).(CallLLMInput).Messages
		}).
		Return(CallLLMResult{
			ToolCalls: []models.ToolCall{taskCompleteCall("done")},
			CostUSD:   0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)

	// Exactly one failed duplicate_id message, and only one real execution.
	duplicates := 0
	for _, msg := range secondTurn {
		if msg.Role == models.RoleTool && msg.Content == "duplicate_id" {
			duplicates++
			require.False(t, msg.Success)
		}
	}
	require.Equal(t, 1, duplicates)
	env.AssertExpectations(t)
}

func TestWorkflowTaskCompleteDropsRemainingCalls(t *testing.T) {
	env, recorder := newWorkflowEnv(t, testAgent())

	calls := []models.ToolCall{
		taskCompleteCall("early finish"),
		{ID: "call-2", Name: "search", Arguments: `{"q":"never"}`},
	}
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{ToolCalls: calls, CostUSD: 0.01}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, "early finish", result.Result)
	// Only the task_complete pair; the trailing search call never runs
	// (ExecuteTool is not mocked, so an invocation would fail the test).
	require.Equal(t, 1, recorder.count(events.TypeToolCallStarted))
	require.Equal(t, 1, recorder.count(events.TypeToolCallCompleted))
	env.AssertExpectations(t)
}

func TestWorkflowContentEmbeddedCompletion(t *testing.T) {
	env, _ := newWorkflowEnv(t, testAgent())

	// No structured tool calls; the completion is embedded in the content.
	env.OnActivity(testActivities.CallLLM, mock.Anything, mock.Anything).
		Return(CallLLMResult{
			Content: `{"name":"task_complete","arguments":{"result":"ok","success":true}}`,
			CostUSD: 0.01,
		}, nil).Once()
	env.OnActivity(testActivities.CompleteTask, mock.Anything, mock.MatchedBy(func(in CompleteTaskInput) bool {
		return in.Result == "ok"
	})).Return(nil).Once()

	env.ExecuteWorkflow(TaskWorkflow, testRequest())

	result := workflowResult(t, env)
	require.Equal(t, models.TaskCompleted, result.Status)
	require.Equal(t, "ok", result.Result)
	require.Equal(t, 1, result.Iterations)
	env.AssertExpectations(t)
}

func TestResolveMaxIterations(t *testing.T) {
	agent := testAgent()

	require.Equal(t, 10, resolveMaxIterations(agent, nil))
	require.Equal(t, 3, resolveMaxIterations(agent, map[string]any{"max_iterations": float64(3)}))
	require.Equal(t, MaxIterationsCap,
		resolveMaxIterations(agent, map[string]any{"max_iterations": float64(200)}))

	agent.MaxIterations = 0
	require.Equal(t, DefaultMaxIterations, resolveMaxIterations(agent, nil))
}

func TestSuccessCriteria(t *testing.T) {
	req := testRequest()
	require.Equal(t, req.Query, successCriteria(req, criteriaParameter(req.Parameters)))

	req.Parameters = map[string]any{"success_criteria": "cite a source"}
	criteria := successCriteria(req, criteriaParameter(req.Parameters))
	require.Contains(t, criteria, req.Query)
	require.Contains(t, criteria, "cite a source")

	// JSON arrays arrive as []any.
	req.Parameters = map[string]any{"success_criteria": []any{"cite a source", "include units"}}
	list := criteriaParameter(req.Parameters)
	require.Equal(t, []string{"cite a source", "include units"}, list)
	require.Contains(t, successCriteria(req, list), "cite a source; include units")

	prompt := systemPrompt(testAgent(), list)
	require.Contains(t, prompt, "Success criteria:")
	require.Contains(t, prompt, "- include units")
	require.Contains(t, prompt, "task_complete")
}
