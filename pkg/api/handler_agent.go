package api

import (
	"net/http"
	"sort"

	echo "github.com/labstack/echo/v5"

	"github.com/droverhq/drover/pkg/config"
)

// agentCardHandler handles GET /v1/agents/:agent_id/card.
func (s *Server) agentCardHandler(c *echo.Context) error {
	agentID := c.Param("agent_id")
	if agentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "agent id is required")
	}

	agent, err := s.cfg.GetAgent(agentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown agent")
	}
	return c.JSON(http.StatusOK, s.buildAgentCard(agentID, agent))
}

// agentDirectoryHandler handles GET /v1/agents.
func (s *Server) agentDirectoryHandler(c *echo.Context) error {
	agents := s.cfg.AgentRegistry.GetAll()

	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	directory := AgentDirectory{Agents: make([]AgentCard, 0, len(ids))}
	for _, id := range ids {
		directory.Agents = append(directory.Agents, s.buildAgentCard(id, agents[id]))
	}
	return c.JSON(http.StatusOK, directory)
}

func (s *Server) buildAgentCard(agentID string, agent *config.AgentConfig) AgentCard {
	card := AgentCard{
		Name:        agentID,
		Description: agent.Description,
		URL:         s.publicURL() + "/v1/agents/" + agentID + "/rpc",
		Version:     apiVersion,
		Capabilities: AgentCapabilities{
			Streaming:              agent.Streaming,
			PushNotifications:      false,
			StateTransitionHistory: true,
		},
		Skills: []AgentSkill{},
	}
	for _, skill := range agent.Skills {
		card.Skills = append(card.Skills, AgentSkill{
			ID:          skill.ID,
			Name:        skill.Name,
			Description: skill.Description,
			Tags:        skill.Tags,
		})
	}
	return card
}
