package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
)

// anthropicMaxTokens caps completion length per request.
const anthropicMaxTokens = 8192

type anthropicClient struct {
	name   string
	cfg    *config.LLMProviderConfig
	client anthropic.Client
}

func newAnthropicClient(name string, cfg *config.LLMProviderConfig, apiKey string) *anthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicClient{
		name:   name,
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (c *anthropicClient) Complete(ctx context.Context, req Request, sink ChunkSink) (*Response, error) {
	system, messages := encodeAnthropicMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
		Tools:     encodeAnthropicTools(req.Tools),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	if req.Streaming && sink != nil {
		return c.completeStreaming(ctx, params, sink)
	}
	return c.completeBlocking(ctx, params)
}

func (c *anthropicClient) completeBlocking(ctx context.Context, params anthropic.MessageNewParams) (*Response, error) {
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, c.wrapError(err)
	}

	var (
		content string
		calls   []models.ToolCall
	)
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			content += block.Text
		case "tool_use":
			calls = append(calls, models.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: parser.NormalizeArguments(string(block.Input)),
			})
		}
	}

	usage := models.Usage{
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}
	return &Response{
		Content:   content,
		ToolCalls: calls,
		Usage:     usage,
		CostUSD:   costUSD(usage, c.cfg),
	}, nil
}

func (c *anthropicClient) completeStreaming(ctx context.Context, params anthropic.MessageNewParams, sink ChunkSink) (*Response, error) {
	stream := c.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var (
		content    string
		usage      models.Usage
		acc        parser.StreamAccumulator
		chunkIndex int
	)
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			usage.PromptTokens = int(ev.Message.Usage.InputTokens)
		case anthropic.ContentBlockStartEvent:
			if block, ok := ev.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
				acc.Add(int(ev.Index), block.ID, block.Name, "")
			}
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				sink(delta.Text, chunkIndex, false)
				chunkIndex++
				content += delta.Text
			case anthropic.InputJSONDelta:
				acc.Add(int(ev.Index), "", "", delta.PartialJSON)
			}
		case anthropic.MessageDeltaEvent:
			usage.CompletionTokens = int(ev.Usage.OutputTokens)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, c.wrapError(err)
	}
	sink("", chunkIndex, true)

	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	slog.Debug("anthropic stream complete",
		"provider", c.name, "chunks", chunkIndex, "completion_tokens", usage.CompletionTokens)

	return &Response{
		Content:   content,
		ToolCalls: acc.Calls(),
		Usage:     usage,
		CostUSD:   costUSD(usage, c.cfg),
	}, nil
}

func (c *anthropicClient) wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   c.name,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
			Err:        err,
		}
	}
	return &ProviderError{Provider: c.name, Message: err.Error(), Err: err}
}

// encodeAnthropicMessages splits the transcript into the system prompt and the
// alternating user/assistant turns Anthropic expects. Consecutive tool results
// collapse into a single user turn of tool_result blocks.
func encodeAnthropicMessages(messages []models.Message) (string, []anthropic.MessageParam) {
	var (
		system string
		out    []anthropic.MessageParam
	)
	i := 0
	for i < len(messages) {
		m := messages[i]
		switch m.Role {
		case models.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			i++
		case models.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			i++
		case models.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, call := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, json.RawMessage(call.Arguments), call.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock(""))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
			i++
		case models.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for i < len(messages) && messages[i].Role == models.RoleTool {
				t := messages[i]
				blocks = append(blocks, anthropic.NewToolResultBlock(t.ToolCallID, t.Content, !t.Success))
				i++
			}
			out = append(out, anthropic.NewUserMessage(blocks...))
		default:
			i++
		}
	}
	return system, out
}

func encodeAnthropicTools(tools []models.ToolDescriptor) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, d := range tools {
		schema := d.Schema
		if len(schema) == 0 {
			schema = defaultToolSchema
		}
		var parsed struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		_ = json.Unmarshal(schema, &parsed)

		tool := anthropic.ToolUnionParamOfTool(anthropic.ToolInputSchemaParam{
			Properties: parsed.Properties,
			Required:   parsed.Required,
		}, d.Name)
		if d.Description != "" {
			tool.OfTool.Description = anthropic.String(d.Description)
		}
		out = append(out, tool)
	}
	return out
}

var _ Client = (*anthropicClient)(nil)
