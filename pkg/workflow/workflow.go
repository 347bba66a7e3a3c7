package workflow

import (
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/droverhq/drover/pkg/budget"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/goal"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
	"github.com/droverhq/drover/pkg/tools"
)

// signalState tracks pause/cancel requests received out of band. Mutated only
// from the signal-draining coroutine; read from the main loop. Cancellation
// supersedes pause.
type signalState struct {
	pauseRequested  bool
	cancelRequested bool
}

// TaskWorkflow is the durable reasoning loop for one task. All side effects
// run in activities; the workflow body stays deterministic and replayable.
func TaskWorkflow(ctx workflow.Context, req ExecutionRequest) (ExecutionResult, error) {
	logger := workflow.GetLogger(ctx)
	var a *Activities

	state := &signalState{}
	workflow.Go(ctx, func(gctx workflow.Context) {
		pauseCh := workflow.GetSignalChannel(gctx, SignalPause)
		resumeCh := workflow.GetSignalChannel(gctx, SignalResume)
		cancelCh := workflow.GetSignalChannel(gctx, SignalCancel)
		for {
			selector := workflow.NewSelector(gctx)
			selector.AddReceive(pauseCh, func(c workflow.ReceiveChannel, _ bool) {
				c.Receive(gctx, nil)
				if !state.cancelRequested {
					state.pauseRequested = true
				}
			})
			selector.AddReceive(resumeCh, func(c workflow.ReceiveChannel, _ bool) {
				c.Receive(gctx, nil)
				state.pauseRequested = false
			})
			selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, _ bool) {
				c.Receive(gctx, nil)
				state.cancelRequested = true
				state.pauseRequested = false
			})
			selector.Select(gctx)
		}
	})

	cfgCtx := withOptions(ctx, configTimeout, nil)
	llmCtx := withOptions(ctx, llmTimeout, &temporal.RetryPolicy{
		InitialInterval:        time.Second,
		BackoffCoefficient:     2,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{errTypeProviderPermanent},
	})
	toolCtx := withOptions(ctx, toolTimeout, nil)
	pubCtx := withOptions(ctx, publishTimeout, nil)
	dbCtx := withOptions(ctx, configTimeout, nil)

	tracker := budget.NewTracker(req.BudgetUSD)
	iterations := 0

	publish := func(eventType string, data map[string]any) {
		if err := workflow.ExecuteActivity(pubCtx, a.PublishEvent, PublishEventInput{
			TaskID: req.TaskID, EventType: eventType, Data: data,
		}).Get(pubCtx, nil); err != nil {
			logger.Error("Event publish failed", "event_type", eventType, "error", err)
		}
	}

	complete := func(result string) (ExecutionResult, error) {
		publish(events.TypeWorkflowCompleted, map[string]any{
			"success": true, "termination_reason": "completed",
			"result": result, "cost_accrued": tracker.Accrued(), "iterations": iterations,
		})
		if err := workflow.ExecuteActivity(dbCtx, a.CompleteTask, CompleteTaskInput{
			TaskID: req.TaskID, Result: result, Cost: tracker.Accrued(), Iterations: iterations,
		}).Get(dbCtx, nil); err != nil {
			logger.Error("Complete write failed", "error", err)
		}
		return ExecutionResult{
			Status: models.TaskCompleted, Result: result,
			CostAccrued: tracker.Accrued(), Iterations: iterations,
		}, nil
	}

	// exhausted ends a run that hit a bound (budget, iteration cap). The loop
	// ran out of room rather than hitting an unrecoverable error, so the
	// terminal event is WorkflowCompleted with success=false; the task row
	// still records the failure classification.
	exhausted := func(kind models.ErrorKind, message string) (ExecutionResult, error) {
		publish(events.TypeWorkflowCompleted, map[string]any{
			"success": false, "termination_reason": string(kind),
			"error": message, "cost_accrued": tracker.Accrued(), "iterations": iterations,
		})
		if err := workflow.ExecuteActivity(dbCtx, a.FailTask, FailTaskInput{
			TaskID: req.TaskID, Kind: kind, Message: message,
			Cost: tracker.Accrued(), Iterations: iterations,
		}).Get(dbCtx, nil); err != nil {
			logger.Error("Fail write failed", "error", err)
		}
		return ExecutionResult{
			Status: models.TaskFailed, ErrorKind: kind, Error: message,
			CostAccrued: tracker.Accrued(), Iterations: iterations,
		}, nil
	}

	// fail ends a run on an unrecoverable error.
	fail := func(kind models.ErrorKind, message string) (ExecutionResult, error) {
		publish(events.TypeWorkflowFailed, map[string]any{
			"error_kind": kind, "error": message,
			"cost_accrued": tracker.Accrued(), "iterations": iterations,
		})
		if err := workflow.ExecuteActivity(dbCtx, a.FailTask, FailTaskInput{
			TaskID: req.TaskID, Kind: kind, Message: message,
			Cost: tracker.Accrued(), Iterations: iterations,
		}).Get(dbCtx, nil); err != nil {
			logger.Error("Fail write failed", "error", err)
		}
		return ExecutionResult{
			Status: models.TaskFailed, ErrorKind: kind, Error: message,
			CostAccrued: tracker.Accrued(), Iterations: iterations,
		}, nil
	}

	cancelled := func() (ExecutionResult, error) {
		publish(events.TypeWorkflowCancelled, map[string]any{
			"cost_accrued": tracker.Accrued(), "iterations": iterations,
		})
		if err := workflow.ExecuteActivity(dbCtx, a.CancelTask, TaskAccountingInput{
			TaskID: req.TaskID, Cost: tracker.Accrued(), Iterations: iterations,
		}).Get(dbCtx, nil); err != nil {
			logger.Error("Cancel write failed", "error", err)
		}
		return ExecutionResult{
			Status: models.TaskCancelled,
			CostAccrued: tracker.Accrued(), Iterations: iterations,
		}, nil
	}

	// checkpoint handles pending pause/cancel signals. Returns true when the
	// workflow must stop with a cancellation.
	checkpoint := func() bool {
		if state.cancelRequested {
			return true
		}
		if state.pauseRequested {
			publish(events.TypeWorkflowPaused, nil)
			if err := workflow.ExecuteActivity(dbCtx, a.MarkTaskPaused, req.TaskID).Get(dbCtx, nil); err != nil {
				logger.Error("Pause write failed", "error", err)
			}
			_ = workflow.Await(ctx, func() bool {
				return !state.pauseRequested || state.cancelRequested
			})
			if state.cancelRequested {
				return true
			}
			publish(events.TypeWorkflowResumed, nil)
			if err := workflow.ExecuteActivity(dbCtx, a.MarkTaskResumed, req.TaskID).Get(dbCtx, nil); err != nil {
				logger.Error("Resume write failed", "error", err)
			}
		}
		return false
	}

	publish(events.TypeWorkflowStarted, map[string]any{
		"agent_id": req.AgentID, "query": req.Query,
	})
	if err := workflow.ExecuteActivity(dbCtx, a.MarkTaskRunning, req.TaskID).Get(dbCtx, nil); err != nil {
		return fail(models.ErrorKindInternal, "marking task running: "+err.Error())
	}

	var agent models.AgentConfig
	if err := workflow.ExecuteActivity(cfgCtx, a.BuildAgentConfig, BuildAgentConfigInput{
		AgentID: req.AgentID,
	}).Get(cfgCtx, &agent); err != nil {
		return fail(models.ErrorKindInternal, "resolving agent config: "+err.Error())
	}

	var descriptors []models.ToolDescriptor
	if err := workflow.ExecuteActivity(cfgCtx, a.DiscoverTools, DiscoverToolsInput{
		Agent: agent,
	}).Get(cfgCtx, &descriptors); err != nil {
		return fail(models.ErrorKindInternal, "discovering tools: "+err.Error())
	}

	maxIterations := resolveMaxIterations(agent, req.Parameters)
	criteriaList := criteriaParameter(req.Parameters)
	criteria := successCriteria(req, criteriaList)

	messages := []models.Message{
		models.SystemMessage(systemPrompt(agent, criteriaList)),
		models.UserMessage(req.Query),
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		if checkpoint() {
			return cancelled()
		}
		iterations = iteration
		publish(events.TypeIterationStarted, map[string]any{"iteration": iteration})

		publish(events.TypeLLMCallStarted, map[string]any{"iteration": iteration})
		var callRes CallLLMResult
		if err := workflow.ExecuteActivity(llmCtx, a.CallLLM, CallLLMInput{
			TaskID: req.TaskID, Agent: agent, Messages: messages, Tools: descriptors,
		}).Get(llmCtx, &callRes); err != nil {
			return fail(models.ErrorKindProvider, "LLM call failed: "+err.Error())
		}

		tracker.Accrue(callRes.CostUSD)
		if err := workflow.ExecuteActivity(dbCtx, a.UpdateTaskProgress, TaskAccountingInput{
			TaskID: req.TaskID, Cost: tracker.Accrued(), Iterations: iteration,
		}).Get(dbCtx, nil); err != nil {
			logger.Error("Progress write failed", "error", err)
		}

		if tracker.Exceeded() {
			publish(events.TypeBudgetExceeded, map[string]any{
				"cost_accrued": tracker.Accrued(), "budget_usd": tracker.Limit(),
			})
			return exhausted(models.ErrorKindBudget, "budget exceeded")
		}
		if tracker.ShouldWarn() {
			tracker.MarkWarningSent()
			publish(events.TypeBudgetWarning, map[string]any{
				"cost_accrued": tracker.Accrued(), "budget_usd": tracker.Limit(),
			})
		}

		calls := parser.Extract(callRes.ToolCalls, callRes.Content)
		messages = append(messages, models.AssistantMessage(callRes.Content, calls))

		if len(calls) == 0 {
			if callRes.Content == "" {
				// Neither content nor calls: nudge and try again.
				messages = append(messages, models.UserMessage(nudgeMessage))
				continue
			}

			var evaluation goal.Evaluation
			if err := workflow.ExecuteActivity(llmCtx, a.EvaluateGoal, EvaluateGoalInput{
				Agent: agent, Query: criteria, Response: callRes.Content,
			}).Get(llmCtx, &evaluation); err != nil {
				// Evaluator trouble is not fatal; keep iterating.
				logger.Warn("Goal evaluation failed", "error", err)
				messages = append(messages, models.UserMessage(nudgeMessage))
				continue
			}
			// The evaluator's own spend counts against the budget too.
			tracker.Accrue(evaluation.CostUSD)
			publish(events.TypeGoalEvaluated, map[string]any{
				"achieved": evaluation.Achieved, "confidence": evaluation.Confidence,
			})
			if evaluation.Conclusive() {
				return complete(evaluation.FinalResponse)
			}
			messages = append(messages, models.UserMessage(nudgeMessage))
			continue
		}

		unique, duplicates := parser.Dedupe(calls)
		for _, dup := range duplicates {
			messages = append(messages,
				models.ToolMessage(dup.ID, dup.Name, "duplicate_id", false))
		}

		for _, call := range unique {
			if state.cancelRequested {
				return cancelled()
			}

			if call.Name == parser.TaskCompleteToolName {
				publish(events.TypeToolCallStarted, map[string]any{
					"call_id": call.ID, "tool": call.Name,
				})
				completion, err := tools.ParseTaskCompletion(call.Arguments)
				if err != nil {
					publish(events.TypeToolCallCompleted, map[string]any{
						"call_id": call.ID, "tool": call.Name, "success": false,
					})
					messages = append(messages,
						models.ToolMessage(call.ID, call.Name, err.Error(), false))
					continue
				}
				publish(events.TypeToolCallCompleted, map[string]any{
					"call_id": call.ID, "tool": call.Name, "success": true,
				})
				messages = append(messages,
					models.ToolMessage(call.ID, call.Name, completion.Result, true))
				// Remaining calls in this turn are dropped.
				return complete(completion.Result)
			}

			publish(events.TypeToolCallStarted, map[string]any{
				"call_id": call.ID, "tool": call.Name,
			})
			var result models.ToolResult
			if err := workflow.ExecuteActivity(toolCtx, a.ExecuteTool, ExecuteToolInput{
				TaskID: req.TaskID, Call: call, Tools: descriptors,
				Provider: agent.Model.Provider,
			}).Get(toolCtx, &result); err != nil {
				result = models.ToolResult{
					CallID: call.ID, Name: call.Name, Success: false, Error: err.Error(),
				}
			}
			publish(events.TypeToolCallCompleted, map[string]any{
				"call_id": result.CallID, "tool": result.Name, "success": result.Success,
			})

			content := result.Result
			if !result.Success {
				content = result.Error
			}
			messages = append(messages,
				models.ToolMessage(result.CallID, result.Name, content, result.Success))
		}
	}

	return exhausted(models.ErrorKindMaxIterations, "iteration limit reached")
}

func withOptions(ctx workflow.Context, timeout time.Duration, retry *temporal.RetryPolicy) workflow.Context {
	opts := workflow.ActivityOptions{StartToCloseTimeout: timeout}
	if retry != nil {
		opts.RetryPolicy = retry
	}
	return workflow.WithActivityOptions(ctx, opts)
}

// systemPrompt is the agent instruction, the success criteria (when the task
// carries any), and the completion contract.
func systemPrompt(agent models.AgentConfig, criteria []string) string {
	prompt := agent.Instruction
	if len(criteria) > 0 {
		prompt += "\n\nSuccess criteria:"
		for _, criterion := range criteria {
			prompt += "\n- " + criterion
		}
	}
	return prompt +
		"\n\nWhen the task is complete, call the task_complete tool with the final result."
}

// resolveMaxIterations applies the precedence: task parameter over agent
// config over the platform default, clamped to [1, MaxIterationsCap].
func resolveMaxIterations(agent models.AgentConfig, parameters map[string]any) int {
	maxIterations := agent.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if raw, ok := parameters["max_iterations"]; ok {
		// JSON round-trips numbers as float64.
		if v, ok := raw.(float64); ok && v >= 1 {
			maxIterations = int(v)
		}
	}
	if maxIterations > MaxIterationsCap {
		maxIterations = MaxIterationsCap
	}
	if maxIterations < 1 {
		maxIterations = 1
	}
	return maxIterations
}

// criteriaParameter reads the success_criteria task parameter, accepting a
// single string or a list (JSON arrays arrive as []any).
func criteriaParameter(parameters map[string]any) []string {
	raw, ok := parameters["success_criteria"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// successCriteria builds the evaluator's target: the query, optionally
// sharpened by the success_criteria task parameter.
func successCriteria(req ExecutionRequest, criteria []string) string {
	if len(criteria) == 0 {
		return req.Query
	}
	return req.Query + "\n\nSuccess criteria: " + strings.Join(criteria, "; ")
}
