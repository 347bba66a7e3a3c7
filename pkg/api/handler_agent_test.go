package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/config"
)

func agentTestServer() (*Server, *echo.Echo) {
	cfg := &config.Config{
		Server: &config.ServerConfig{
			Host:      "api.example.com",
			Port:      443,
			PublicURL: "https://drover.example.com",
		},
		AgentRegistry: config.NewAgentRegistry(map[string]*config.AgentConfig{
			"research": {
				Description: "Answers research questions",
				Instruction: "You are a research assistant.",
				LLMProvider: "openai",
				Streaming:   true,
				Skills: []config.SkillConfig{
					{ID: "web-research", Name: "Web research", Tags: []string{"search"}},
				},
			},
			"triage": {
				Description: "Routes incoming requests",
				Instruction: "Triage the request.",
				LLMProvider: "openai",
			},
		}),
	}
	s := &Server{cfg: cfg}
	e := echo.New()
	e.GET("/v1/agents", s.agentDirectoryHandler)
	e.GET("/v1/agents/:agent_id/card", s.agentCardHandler)
	return s, e
}

func TestAgentCardHandler(t *testing.T) {
	_, e := agentTestServer()

	t.Run("known agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/agents/research/card", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var card AgentCard
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
		assert.Equal(t, "research", card.Name)
		assert.Equal(t, "https://drover.example.com/v1/agents/research/rpc", card.URL)
		assert.True(t, card.Capabilities.Streaming)
		assert.False(t, card.Capabilities.PushNotifications)
		require.Len(t, card.Skills, 1)
		assert.Equal(t, "web-research", card.Skills[0].ID)
	})

	t.Run("unknown agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/agents/nope/card", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAgentDirectoryHandler(t *testing.T) {
	_, e := agentTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var directory AgentDirectory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directory))
	require.Len(t, directory.Agents, 2)
	// Sorted by agent id.
	assert.Equal(t, "research", directory.Agents[0].Name)
	assert.Equal(t, "triage", directory.Agents[1].Name)
	assert.False(t, directory.Agents[1].Capabilities.Streaming)
}
