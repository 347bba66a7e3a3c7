package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/parser"
)

// defaultToolSchema is used for tools that declare no parameters.
var defaultToolSchema = json.RawMessage(`{"type":"object","properties":{}}`)

type openAIClient struct {
	name   string
	cfg    *config.LLMProviderConfig
	client *openai.Client
}

func newOpenAIClient(name string, cfg *config.LLMProviderConfig, apiKey string) *openAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIClient{
		name:   name,
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (c *openAIClient) Complete(ctx context.Context, req Request, sink ChunkSink) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: encodeOpenAIMessages(req.Messages),
		Tools:    encodeOpenAITools(req.Tools),
	}

	if req.Streaming && sink != nil {
		return c.completeStreaming(ctx, chatReq, sink)
	}
	return c.completeBlocking(ctx, chatReq)
}

func (c *openAIClient) completeBlocking(ctx context.Context, chatReq openai.ChatCompletionRequest) (*Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, c.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: c.name, Message: "response contained no choices"}
	}

	choice := resp.Choices[0]
	calls := make([]models.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		calls = append(calls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: parser.NormalizeArguments(tc.Function.Arguments),
		})
	}

	usage := models.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return &Response{
		Content:   choice.Message.Content,
		ToolCalls: calls,
		Usage:     usage,
		CostUSD:   costUSD(usage, c.cfg),
	}, nil
}

func (c *openAIClient) completeStreaming(ctx context.Context, chatReq openai.ChatCompletionRequest, sink ChunkSink) (*Response, error) {
	chatReq.Stream = true
	chatReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := c.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return nil, c.wrapError(err)
	}
	defer stream.Close()

	var (
		content    string
		usage      models.Usage
		acc        parser.StreamAccumulator
		chunkIndex int
	)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, c.wrapError(err)
		}

		// The usage chunk arrives last with an empty choice list.
		if chunk.Usage != nil {
			usage = models.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			sink(delta.Content, chunkIndex, false)
			chunkIndex++
			content += delta.Content
		}
		for _, tc := range delta.ToolCalls {
			index := 0
			if tc.Index != nil {
				index = *tc.Index
			}
			acc.Add(index, tc.ID, tc.Function.Name, tc.Function.Arguments)
		}
	}
	sink("", chunkIndex, true)

	slog.Debug("openai stream complete",
		"provider", c.name, "chunks", chunkIndex, "completion_tokens", usage.CompletionTokens)

	return &Response{
		Content:   content,
		ToolCalls: acc.Calls(),
		Usage:     usage,
		CostUSD:   costUSD(usage, c.cfg),
	}, nil
}

func (c *openAIClient) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   c.name,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider:   c.name,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	}
	return &ProviderError{Provider: c.name, Message: err.Error(), Err: err}
}

func encodeOpenAIMessages(messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: m.Content,
			})
		case models.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
		case models.RoleAssistant:
			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
			}
			for _, call := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			out = append(out, msg)
		case models.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return out
}

func encodeOpenAITools(tools []models.ToolDescriptor) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, d := range tools {
		schema := d.Schema
		if len(schema) == 0 {
			schema = defaultToolSchema
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  schema,
			},
		})
	}
	return out
}

var _ Client = (*openAIClient)(nil)
