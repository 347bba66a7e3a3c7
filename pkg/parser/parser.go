// Package parser extracts tool calls from LLM responses.
//
// Extraction runs in two passes: the structured tool_calls array from the
// provider, then a content-embedded fallback for models that write the call
// into the message text instead. A streaming accumulator assembles tool calls
// from chunked deltas.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/droverhq/drover/pkg/models"
)

// TaskCompleteToolName is the builtin completion-signal tool.
const TaskCompleteToolName = "task_complete"

// taskCompletePattern locates a candidate embedded call in free-form content.
// The match only anchors the scan; the actual object is decoded with a JSON
// decoder so nested argument objects are handled correctly.
var taskCompletePattern = regexp.MustCompile(`"name"\s*:\s*"task_complete"`)

// Extract returns the tool calls for one assistant turn.
//
// If the structured array is non-empty it wins and the content is never
// scanned. Otherwise the content goes through the embedded fallback: a
// full-content JSON parse, then a scan for an embedded task_complete object,
// then a literal-token fallback that wraps the whole content as the result.
func Extract(structured []models.ToolCall, content string) []models.ToolCall {
	if len(structured) > 0 {
		calls := make([]models.ToolCall, len(structured))
		for i, c := range structured {
			c.Arguments = NormalizeArguments(c.Arguments)
			if c.ID == "" {
				c.ID = freshID()
			}
			calls[i] = c
		}
		return calls
	}
	return extractFromContent(content)
}

// extractFromContent runs the three content-embedded stages in order.
func extractFromContent(content string) []models.ToolCall {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}

	// Stage 1: the whole content is the call object.
	if call, ok := decodeCallObject([]byte(trimmed)); ok {
		return []models.ToolCall{call}
	}

	// Stage 2: a call object embedded somewhere in surrounding prose.
	if loc := taskCompletePattern.FindStringIndex(trimmed); loc != nil {
		if call, ok := scanEmbeddedCall(trimmed, loc[0]); ok {
			return []models.ToolCall{call}
		}
	}

	// Stage 3: the model mentioned task_complete but produced no parseable
	// structure; treat the whole content as the result.
	if strings.Contains(trimmed, TaskCompleteToolName) {
		args, _ := json.Marshal(map[string]any{"result": content})
		return []models.ToolCall{{
			ID:        freshID(),
			Name:      TaskCompleteToolName,
			Arguments: string(args),
		}}
	}

	return nil
}

// decodeCallObject attempts to decode data as {"name": "task_complete",
// "arguments": …}. Only task_complete is synthesized from content; any other
// name is prose, not a call.
func decodeCallObject(data []byte) (models.ToolCall, bool) {
	var obj struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return models.ToolCall{}, false
	}
	if obj.Name != TaskCompleteToolName {
		return models.ToolCall{}, false
	}
	return models.ToolCall{
		ID:        freshID(),
		Name:      TaskCompleteToolName,
		Arguments: NormalizeArguments(string(obj.Arguments)),
	}, true
}

// scanEmbeddedCall walks back from the matched "name" key to each candidate
// opening brace and tries to decode a balanced JSON object from there.
func scanEmbeddedCall(content string, nameIdx int) (models.ToolCall, bool) {
	for start := nameIdx; start >= 0; start-- {
		if content[start] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(content[start:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		if call, ok := decodeCallObject(raw); ok {
			return call, true
		}
	}
	return models.ToolCall{}, false
}

// NormalizeArguments coerces a raw argument payload into a JSON object string.
// Valid objects pass through; other valid JSON values are wrapped as
// {"value": …}; unparseable text is wrapped as {"text": …}. Empty input
// becomes the empty object.
func NormalizeArguments(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return "{}"
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		wrapped, _ := json.Marshal(map[string]any{"text": raw})
		return string(wrapped)
	}
	if _, isObject := v.(map[string]any); isObject {
		return trimmed
	}
	wrapped, _ := json.Marshal(map[string]any{"value": v})
	return string(wrapped)
}

// Dedupe splits calls into unique calls (first occurrence per ID wins) and
// the duplicates that must be answered with failed tool messages.
func Dedupe(calls []models.ToolCall) (unique, duplicates []models.ToolCall) {
	seen := make(map[string]bool, len(calls))
	for _, c := range calls {
		if seen[c.ID] {
			duplicates = append(duplicates, c)
			continue
		}
		seen[c.ID] = true
		unique = append(unique, c)
	}
	return unique, duplicates
}

// freshID mints an id for a synthesized call.
func freshID() string {
	return fmt.Sprintf("extracted_%s", uuid.New().String()[:8])
}

// StreamAccumulator assembles tool calls from streamed deltas. Providers emit
// partial calls keyed by index: the id/type/name arrive once, the arguments
// arrive as string fragments to concatenate. The zero value is ready to use.
type StreamAccumulator struct {
	partials map[int]*partialCall
}

type partialCall struct {
	id   string
	name string
	args strings.Builder
}

// NewStreamAccumulator creates an empty accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{partials: make(map[int]*partialCall)}
}

// Add merges one delta. Non-empty id and name override previous values;
// argsDelta is appended.
func (a *StreamAccumulator) Add(index int, id, name, argsDelta string) {
	if a.partials == nil {
		a.partials = make(map[int]*partialCall)
	}
	p, ok := a.partials[index]
	if !ok {
		p = &partialCall{}
		a.partials[index] = p
	}
	if id != "" {
		p.id = id
	}
	if name != "" {
		p.name = name
	}
	p.args.WriteString(argsDelta)
}

// Calls finalizes the accumulated calls in index order, applying the same
// argument recovery as the non-streaming path.
func (a *StreamAccumulator) Calls() []models.ToolCall {
	if len(a.partials) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(a.partials))
	for i := range a.partials {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	calls := make([]models.ToolCall, 0, len(indexes))
	for _, i := range indexes {
		p := a.partials[i]
		id := p.id
		if id == "" {
			id = freshID()
		}
		calls = append(calls, models.ToolCall{
			ID:        id,
			Name:      p.name,
			Arguments: NormalizeArguments(p.args.String()),
		})
	}
	return calls
}
