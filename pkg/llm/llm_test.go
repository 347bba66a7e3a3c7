package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/models"
	"github.com/droverhq/drover/pkg/secrets"
)

func testProviderConfig(providerType config.LLMProviderType) *config.LLMProviderConfig {
	return &config.LLMProviderConfig{
		Type:              providerType,
		Model:             "test-model",
		APIKeyEnv:         "TEST_API_KEY",
		InputCostPerMTok:  2.50,
		OutputCostPerMTok: 10.00,
	}
}

func TestNewClient_ResolvesKeyAndDispatchesOnType(t *testing.T) {
	store := secrets.StaticStore{"TEST_API_KEY": "sk-test"}

	client, err := NewClient("openai-default", testProviderConfig(config.ProviderOpenAI), store)
	require.NoError(t, err)
	assert.IsType(t, &openAIClient{}, client)

	client, err = NewClient("anthropic-default", testProviderConfig(config.ProviderAnthropic), store)
	require.NoError(t, err)
	assert.IsType(t, &anthropicClient{}, client)
}

func TestNewClient_MissingSecret(t *testing.T) {
	_, err := NewClient("openai-default", testProviderConfig(config.ProviderOpenAI), secrets.StaticStore{})
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}

func TestNewClient_UnknownType(t *testing.T) {
	cfg := testProviderConfig("mystery")
	_, err := NewClient("weird", cfg, secrets.StaticStore{"TEST_API_KEY": "sk-test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider type")
}

func TestCostUSD(t *testing.T) {
	cfg := testProviderConfig(config.ProviderOpenAI)

	// 1M input + 500k output at $2.50/$10.00 per MTok.
	usage := models.Usage{PromptTokens: 1_000_000, CompletionTokens: 500_000}
	assert.InDelta(t, 7.50, costUSD(usage, cfg), 1e-9)

	assert.Zero(t, costUSD(models.Usage{}, cfg))
}

func TestProviderError_Permanent(t *testing.T) {
	permanent := []int{400, 401, 403, 404, 422}
	for _, code := range permanent {
		err := &ProviderError{Provider: "p", StatusCode: code}
		assert.True(t, err.Permanent(), "status %d should be permanent", code)
	}

	transient := []int{0, 408, 429, 500, 502, 503, 529}
	for _, code := range transient {
		err := &ProviderError{Provider: "p", StatusCode: code}
		assert.False(t, err.Permanent(), "status %d should be transient", code)
	}
}

func TestIsPermanent_UnwrapsWrappedErrors(t *testing.T) {
	inner := &ProviderError{Provider: "p", StatusCode: 401, Message: "bad key"}
	wrapped := errors.Join(errors.New("calling llm"), inner)

	assert.True(t, IsPermanent(wrapped))
	assert.False(t, IsPermanent(errors.New("plain failure")))
}

func TestEncodeOpenAIMessages(t *testing.T) {
	messages := []models.Message{
		models.SystemMessage("be helpful"),
		models.UserMessage("what is 2+2?"),
		models.AssistantMessage("", []models.ToolCall{
			{ID: "call_1", Name: "calculator", Arguments: `{"expr":"2+2"}`},
		}),
		models.ToolMessage("call_1", "calculator", "4", true),
		models.AssistantMessage("The answer is 4.", nil),
	}

	encoded := encodeOpenAIMessages(messages)
	require.Len(t, encoded, 5)

	assert.Equal(t, "system", encoded[0].Role)
	assert.Equal(t, "user", encoded[1].Role)

	require.Len(t, encoded[2].ToolCalls, 1)
	assert.Equal(t, "call_1", encoded[2].ToolCalls[0].ID)
	assert.Equal(t, "calculator", encoded[2].ToolCalls[0].Function.Name)

	assert.Equal(t, "tool", encoded[3].Role)
	assert.Equal(t, "call_1", encoded[3].ToolCallID)
	assert.Equal(t, "4", encoded[3].Content)

	assert.Equal(t, "The answer is 4.", encoded[4].Content)
}

func TestEncodeOpenAITools_DefaultsEmptySchema(t *testing.T) {
	tools := encodeOpenAITools([]models.ToolDescriptor{
		{Name: "task_complete", Description: "signal completion"},
	})
	require.Len(t, tools, 1)
	assert.Equal(t, "task_complete", tools[0].Function.Name)
	assert.NotNil(t, tools[0].Function.Parameters)
}

func TestEncodeAnthropicMessages(t *testing.T) {
	messages := []models.Message{
		models.SystemMessage("be helpful"),
		models.SystemMessage("be brief"),
		models.UserMessage("look this up"),
		models.AssistantMessage("checking", []models.ToolCall{
			{ID: "toolu_1", Name: "search", Arguments: `{"q":"go"}`},
			{ID: "toolu_2", Name: "search", Arguments: `{"q":"temporal"}`},
		}),
		models.ToolMessage("toolu_1", "search", "result one", true),
		models.ToolMessage("toolu_2", "search", "boom", false),
	}

	system, encoded := encodeAnthropicMessages(messages)

	assert.Equal(t, "be helpful\n\nbe brief", system)
	// user turn, assistant turn, then both tool results merged into one user turn
	require.Len(t, encoded, 3)
	assert.Equal(t, "user", string(encoded[0].Role))
	assert.Equal(t, "assistant", string(encoded[1].Role))
	assert.Len(t, encoded[1].Content, 3)
	assert.Equal(t, "user", string(encoded[2].Role))
	assert.Len(t, encoded[2].Content, 2)
}
