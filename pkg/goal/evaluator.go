// Package goal judges whether a task's goal has been achieved when the model
// stops calling tools without declaring completion.
package goal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/droverhq/drover/pkg/llm"
	"github.com/droverhq/drover/pkg/models"
)

// ConfidenceThreshold is the minimum confidence at which an "achieved"
// judgement is trusted. Below it the loop continues iterating.
const ConfidenceThreshold = 0.7

const evaluatorInstruction = `You judge whether an assistant has fully answered a user's request.
Given the request and the assistant's latest response, reply with ONLY a JSON object:
{"achieved": <bool>, "final_response": "<the answer to return to the user, when achieved>", "confidence": <0.0-1.0>}
Mark achieved only when the response actually resolves the request, not when it merely describes progress.`

// Evaluation is the judgement for one loop iteration. CostUSD is the
// evaluator call's own spend, set by the evaluator (not the model), so the
// caller can accrue it into the task budget.
type Evaluation struct {
	Achieved      bool    `json:"achieved"`
	FinalResponse string  `json:"final_response"`
	Confidence    float64 `json:"confidence"`
	CostUSD       float64 `json:"cost_usd,omitempty"`
}

// Conclusive reports whether the judgement terminates the loop.
func (e Evaluation) Conclusive() bool {
	return e.Achieved && e.Confidence >= ConfidenceThreshold
}

// Evaluator runs goal judgements against a cheap evaluator model.
type Evaluator struct {
	client llm.Client
}

// NewEvaluator creates an evaluator over the given LLM client.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client}
}

// Evaluate judges whether response resolves query. Evaluator failures are
// returned as errors; the caller decides whether to continue the loop.
func (e *Evaluator) Evaluate(ctx context.Context, query, response string) (Evaluation, error) {
	if strings.TrimSpace(response) == "" {
		return Evaluation{}, nil
	}

	req := llm.Request{
		Messages: []models.Message{
			models.SystemMessage(evaluatorInstruction),
			models.UserMessage(fmt.Sprintf("Request:\n%s\n\nAssistant response:\n%s", query, response)),
		},
	}
	resp, err := e.client.Complete(ctx, req, nil)
	if err != nil {
		return Evaluation{}, fmt.Errorf("goal evaluation call: %w", err)
	}

	evaluation, err := parseEvaluation(resp.Content)
	if err != nil {
		return Evaluation{}, fmt.Errorf("goal evaluation response: %w", err)
	}
	if evaluation.Achieved && evaluation.FinalResponse == "" {
		evaluation.FinalResponse = response
	}
	evaluation.CostUSD = resp.CostUSD
	return evaluation, nil
}

// parseEvaluation decodes the judgement JSON, tolerating code fences and
// surrounding prose.
func parseEvaluation(content string) (Evaluation, error) {
	var evaluation Evaluation

	candidate := strings.TrimSpace(content)
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		if idx := strings.Index(candidate, "```"); idx >= 0 {
			candidate = candidate[:idx]
		}
		candidate = strings.TrimSpace(candidate)
	}
	if err := json.Unmarshal([]byte(candidate), &evaluation); err == nil {
		return evaluation, nil
	}

	// Fall back to the first balanced object in the content.
	start := strings.Index(candidate, "{")
	if start < 0 {
		return evaluation, fmt.Errorf("no JSON object in %q", content)
	}
	decoder := json.NewDecoder(strings.NewReader(candidate[start:]))
	if err := decoder.Decode(&evaluation); err != nil {
		return evaluation, fmt.Errorf("decoding judgement: %w", err)
	}
	return evaluation, nil
}
