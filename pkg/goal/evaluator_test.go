package goal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/llm"
)

type fakeLLM struct {
	content string
	cost    float64
	err     error
	lastReq llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request, _ llm.ChunkSink) (*llm.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, CostUSD: f.cost}, nil
}

func TestEvaluate_AchievedAboveThreshold(t *testing.T) {
	client := &fakeLLM{
		content: `{"achieved": true, "final_response": "Paris", "confidence": 0.95}`,
		cost:    0.002,
	}
	evaluator := NewEvaluator(client)

	evaluation, err := evaluator.Evaluate(context.Background(), "capital of France?", "The capital is Paris.")
	require.NoError(t, err)

	assert.True(t, evaluation.Conclusive())
	assert.Equal(t, "Paris", evaluation.FinalResponse)
	assert.InDelta(t, 0.002, evaluation.CostUSD, 1e-9, "evaluator spend surfaced for budget accrual")
	require.Len(t, client.lastReq.Messages, 2)
	assert.Contains(t, client.lastReq.Messages[1].Content, "capital of France?")
}

func TestEvaluate_LowConfidenceIsNotConclusive(t *testing.T) {
	client := &fakeLLM{content: `{"achieved": true, "confidence": 0.5}`}

	evaluation, err := NewEvaluator(client).Evaluate(context.Background(), "q", "partial answer")
	require.NoError(t, err)

	assert.False(t, evaluation.Conclusive())
}

func TestEvaluate_BoundaryConfidenceIsConclusive(t *testing.T) {
	client := &fakeLLM{content: `{"achieved": true, "confidence": 0.7}`}

	evaluation, err := NewEvaluator(client).Evaluate(context.Background(), "q", "full answer")
	require.NoError(t, err)

	assert.True(t, evaluation.Conclusive())
	assert.Equal(t, "full answer", evaluation.FinalResponse, "falls back to the response text")
}

func TestEvaluate_EmptyResponseShortCircuits(t *testing.T) {
	client := &fakeLLM{content: `should never be called`}

	evaluation, err := NewEvaluator(client).Evaluate(context.Background(), "q", "   ")
	require.NoError(t, err)

	assert.False(t, evaluation.Achieved)
	assert.Empty(t, client.lastReq.Messages, "no LLM call for empty content")
}

func TestParseEvaluation_ToleratesFencesAndProse(t *testing.T) {
	evaluation, err := parseEvaluation("```json\n{\"achieved\": true, \"confidence\": 0.8}\n```")
	require.NoError(t, err)
	assert.True(t, evaluation.Achieved)

	evaluation, err = parseEvaluation(`Here is my judgement: {"achieved": false, "confidence": 0.9} as requested.`)
	require.NoError(t, err)
	assert.False(t, evaluation.Achieved)
	assert.InDelta(t, 0.9, evaluation.Confidence, 1e-9)

	_, err = parseEvaluation("no json here at all")
	assert.Error(t, err)
}
