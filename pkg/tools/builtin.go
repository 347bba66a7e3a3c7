package tools

import (
	"encoding/json"
	"fmt"

	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
)

// taskCompleteSchema accepts the completion payload. Success defaults to true
// when the model omits it.
var taskCompleteSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"result": {
			"type": "string",
			"description": "Final answer for the user."
		},
		"success": {
			"type": "boolean",
			"description": "Whether the task goal was achieved."
		}
	},
	"required": ["result"]
}`)

// Builtins returns the descriptors for tools that execute in-process.
func Builtins() []models.ToolDescriptor {
	return []models.ToolDescriptor{
		{
			Name:        parser.TaskCompleteToolName,
			Description: "Signal that the task is finished. Call this exactly once, with the final answer, when no further tool calls are needed.",
			Schema:      taskCompleteSchema,
		},
	}
}

// TaskCompletion is the parsed payload of a task_complete call.
type TaskCompletion struct {
	Result  string `json:"result"`
	Success bool   `json:"success"`
}

// ParseTaskCompletion decodes task_complete arguments. Arguments recovered
// from prose by the parser arrive as {"result": ...} or {"text": ...};
// a missing success field defaults to true.
func ParseTaskCompletion(arguments string) (TaskCompletion, error) {
	raw := struct {
		Result  string `json:"result"`
		Text    string `json:"text"`
		Success *bool  `json:"success"`
	}{}
	if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
		return TaskCompletion{}, fmt.Errorf("decoding task_complete arguments: %w", err)
	}

	completion := TaskCompletion{Result: raw.Result, Success: true}
	if completion.Result == "" {
		completion.Result = raw.Text
	}
	if raw.Success != nil {
		completion.Success = *raw.Success
	}
	return completion, nil
}
