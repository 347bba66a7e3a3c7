package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/models"
)

func TestExtract_StructuredPassWins(t *testing.T) {
	structured := []models.ToolCall{
		{ID: "call_1", Name: "calculator", Arguments: `{"expression":"15+27"}`},
		{ID: "call_2", Name: "task_complete", Arguments: `{"result":"42","success":true}`},
	}

	// Content with an embedded call must be ignored when structured calls exist.
	calls := Extract(structured, `{"name":"task_complete","arguments":{"result":"nope"}}`)

	require.Len(t, calls, 2)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "calculator", calls[0].Name)
	assert.JSONEq(t, `{"expression":"15+27"}`, calls[0].Arguments)
	assert.Equal(t, "task_complete", calls[1].Name)
}

func TestExtract_StructuredNormalizesArguments(t *testing.T) {
	calls := Extract([]models.ToolCall{
		{ID: "a", Name: "t", Arguments: `"just a string"`},
		{ID: "b", Name: "t", Arguments: `not json at all`},
		{ID: "", Name: "t", Arguments: ``},
	}, "")

	require.Len(t, calls, 3)
	assert.JSONEq(t, `{"value":"just a string"}`, calls[0].Arguments)
	assert.JSONEq(t, `{"text":"not json at all"}`, calls[1].Arguments)
	assert.Equal(t, "{}", calls[2].Arguments)
	assert.NotEmpty(t, calls[2].ID, "missing ids are minted")
}

func TestExtract_FullContentJSON(t *testing.T) {
	content := `{"name":"task_complete","arguments":{"result":"ok","success":true}}`

	calls := Extract(nil, content)

	require.Len(t, calls, 1)
	assert.Equal(t, "task_complete", calls[0].Name)
	assert.JSONEq(t, `{"result":"ok","success":true}`, calls[0].Arguments)
	assert.Regexp(t, `^extracted_[0-9a-f]{8}$`, calls[0].ID)
}

func TestExtract_FullContentJSON_OtherToolIsProse(t *testing.T) {
	calls := Extract(nil, `{"name":"calculator","arguments":{"expression":"1+1"}}`)
	assert.Empty(t, calls, "only task_complete is synthesized from content")
}

func TestExtract_EmbeddedJSON(t *testing.T) {
	content := "I have finished the task. " +
		`{"name":"task_complete","arguments":{"result":"all done","success":true}}` +
		" Let me know if you need anything else."

	calls := Extract(nil, content)

	require.Len(t, calls, 1)
	assert.Equal(t, "task_complete", calls[0].Name)
	assert.JSONEq(t, `{"result":"all done","success":true}`, calls[0].Arguments)
}

func TestExtract_EmbeddedJSON_NestedArguments(t *testing.T) {
	content := `prefix {"name":"task_complete","arguments":{"result":"{\"k\":1}","success":true,"meta":{"a":{"b":2}}}} suffix`

	calls := Extract(nil, content)

	require.Len(t, calls, 1)
	assert.Equal(t, "task_complete", calls[0].Name)
}

func TestExtract_LiteralTokenFallback(t *testing.T) {
	content := "The answer is 42, so I will now call task_complete to finish."

	calls := Extract(nil, content)

	require.Len(t, calls, 1)
	assert.Equal(t, "task_complete", calls[0].Name)

	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Arguments), &args))
	assert.Equal(t, content, args["result"])
}

func TestExtract_PlainProseYieldsNothing(t *testing.T) {
	assert.Empty(t, Extract(nil, "Still thinking about the problem."))
	assert.Empty(t, Extract(nil, ""))
	assert.Empty(t, Extract(nil, "   \n\t  "))
}

func TestNormalizeArguments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object passes through", `{"a":1}`, `{"a":1}`},
		{"empty becomes object", ``, `{}`},
		{"null becomes object", `null`, `{}`},
		{"string wrapped as value", `"hi"`, `{"value":"hi"}`},
		{"number wrapped as value", `42`, `{"value":42}`},
		{"array wrapped as value", `[1,2]`, `{"value":[1,2]}`},
		{"garbage wrapped as text", `{"broken`, `{"text":"{\"broken"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, NormalizeArguments(tt.in))
		})
	}
}

func TestDedupe(t *testing.T) {
	calls := []models.ToolCall{
		{ID: "a", Name: "one"},
		{ID: "b", Name: "two"},
		{ID: "a", Name: "one-again"},
	}

	unique, dups := Dedupe(calls)

	require.Len(t, unique, 2)
	assert.Equal(t, "one", unique[0].Name)
	assert.Equal(t, "two", unique[1].Name)
	require.Len(t, dups, 1)
	assert.Equal(t, "one-again", dups[0].Name)
}

func TestStreamAccumulator_AssemblesInIndexOrder(t *testing.T) {
	acc := NewStreamAccumulator()

	// Deltas arrive interleaved across two calls.
	acc.Add(0, "call_a", "calculator", `{"expre`)
	acc.Add(1, "call_b", "search", `{"query":`)
	acc.Add(0, "", "", `ssion":"15+27"}`)
	acc.Add(1, "", "", `"go"}`)

	calls := acc.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "call_a", calls[0].ID)
	assert.JSONEq(t, `{"expression":"15+27"}`, calls[0].Arguments)
	assert.Equal(t, "call_b", calls[1].ID)
	assert.JSONEq(t, `{"query":"go"}`, calls[1].Arguments)
}

func TestStreamAccumulator_RecoversBrokenArguments(t *testing.T) {
	acc := NewStreamAccumulator()
	acc.Add(0, "call_a", "t", `{"unterminated`)

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"text":"{\"unterminated"}`, calls[0].Arguments)
}

func TestStreamAccumulator_Empty(t *testing.T) {
	assert.Nil(t, NewStreamAccumulator().Calls())
}

func TestStreamAccumulator_ZeroValue(t *testing.T) {
	// Streaming adapters declare the accumulator as a zero value; the first
	// tool-call delta must not panic on an uninitialized map.
	var acc StreamAccumulator
	acc.Add(0, "call_a", "search", `{"query":`)
	acc.Add(0, "", "", `"go"}`)

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, "search", calls[0].Name)
	assert.JSONEq(t, `{"query":"go"}`, calls[0].Arguments)
}
